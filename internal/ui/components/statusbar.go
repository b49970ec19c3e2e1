// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/styles"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/util"
)

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar is the bottom line: pending operations, the last message and
// key hints. Hints are dropped from the right when the terminal is narrow.
type StatusBar struct {
	Width     int
	Pending   int
	Message   string
	Shortcuts []Shortcut
	theme     *styles.Theme
}

// NewStatusBar creates a status bar with the default hints.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		Shortcuts: []Shortcut{
			{Key: "tab", Desc: "next"},
			{Key: "enter", Desc: "run"},
			{Key: "^A", Desc: "alg"},
			{Key: "^Y", Desc: "copy"},
			{Key: "^S", Desc: "save cert"},
			{Key: "F1", Desc: "help"},
			{Key: "^C", Desc: "quit"},
		},
		theme: theme,
	}
}

// SetWidth updates the width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetPending sets the number of operations in flight.
func (s *StatusBar) SetPending(n int) {
	s.Pending = n
}

// SetMessage sets the left-hand message.
func (s *StatusBar) SetMessage(msg string) {
	s.Message = msg
}

// View renders the status bar.
func (s *StatusBar) View() string {
	width := s.Width
	if width < 20 {
		width = 20
	}
	inner := width - 2

	left := ""
	if s.Pending > 0 {
		left = lipgloss.NewStyle().Foreground(styles.Purple).Bold(true).
			Render(strconv.Itoa(s.Pending) + " pending")
	}
	if s.Message != "" {
		if left != "" {
			left += "  "
		}
		left += util.TruncateWidth(util.OneLine(s.Message), inner/2)
	}

	right := s.renderShortcuts(inner - lipgloss.Width(left) - 2)

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderShortcuts renders as many hints as fit in room cells.
func (s *StatusBar) renderShortcuts(room int) string {
	var parts []string
	used := 0
	for _, sc := range s.Shortcuts {
		part := s.theme.ShortcutKey.Render(sc.Key) + " " + s.theme.ShortcutDesc.Render(sc.Desc)
		w := lipgloss.Width(part)
		if len(parts) > 0 {
			w += 2
		}
		if used+w > room {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, "  ")
}
