// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/styles"
)

// init configures lipgloss for the terminal the CLI writes to.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan).
			MarginBottom(1)

	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(16)

	// ValueStyle is used for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	// DimStyle is used for secondary information.
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// SuccessStyle is used for positive outcomes.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	// ErrorStyle is used for failures.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	// WarningStyle is used for warnings and negative verdicts.
	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// renderField renders "label value" with the shared label width.
func renderField(label, value string) string {
	return LabelStyle.Render(label) + ValueStyle.Render(value)
}
