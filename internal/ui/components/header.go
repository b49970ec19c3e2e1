// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/styles"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand, page tabs, algorithm badge and the
// service the operations go to.
type Header struct {
	Title     string
	Pages     []string
	Active    int
	Algorithm operation.Algorithm
	BaseURL   string
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a Header with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:     "cryptodesk",
		Algorithm: operation.AlgorithmRSA,
		Width:     80,
		theme:     theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetPages sets the tab titles and the active tab.
func (h *Header) SetPages(titles []string, active int) {
	h.Pages = titles
	h.Active = active
}

// SetAlgorithm updates the algorithm badge.
func (h *Header) SetAlgorithm(a operation.Algorithm) {
	h.Algorithm = a
}

// SetBaseURL updates the service URL shown on the right.
func (h *Header) SetBaseURL(url string) {
	h.BaseURL = url
}

// View renders the header as two lines: brand and service, then tabs.
func (h *Header) View() string {
	width := h.Width
	if width < 40 {
		width = 40
	}
	inner := width - 2

	brand := h.theme.HeaderBrand.Render(h.Title)
	badge := h.algorithmBadge()
	left := brand + " " + badge

	right := ""
	if h.BaseURL != "" {
		room := inner - lipgloss.Width(left) - 2
		if room > 8 {
			right = lipgloss.NewStyle().
				Foreground(styles.TextMuted).
				Render(util.TruncateWidth(h.BaseURL, room))
		}
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	top := left + strings.Repeat(" ", gap) + right

	return h.theme.Header.Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, top, h.tabs()),
	)
}

func (h *Header) tabs() string {
	parts := make([]string, 0, len(h.Pages))
	for i, title := range h.Pages {
		label := strconv.Itoa(i+1) + " " + title
		if i == h.Active {
			parts = append(parts, h.theme.TabActive.Render(label))
		} else {
			parts = append(parts, h.theme.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (h *Header) algorithmBadge() string {
	if h.Algorithm == operation.AlgorithmElGamal {
		return h.theme.BadgeElGamal.Render(h.Algorithm.DisplayName())
	}
	return h.theme.BadgeRSA.Render(h.Algorithm.DisplayName())
}
