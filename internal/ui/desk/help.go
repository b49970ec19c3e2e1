// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// helpOverlay caches the rendered help for the last width it was drawn at.
type helpOverlay struct {
	visible  bool
	width    int
	dark     bool
	rendered string
}

// helpMarkdown builds the help text from the key map.
func helpMarkdown(k KeyMap) string {
	var b strings.Builder
	b.WriteString("# cryptodesk\n\n")
	b.WriteString("Messages are encrypted, decrypted, signed and verified by the ")
	b.WriteString("crypto service shown in the header. Each page keeps its own ")
	b.WriteString("algorithm; changing it only affects operations started afterwards.\n\n")

	b.WriteString("## Pages\n\n")
	b.WriteString("- **Encrypt**: encrypt, sign, verify against the last signature, issue a certificate\n")
	b.WriteString("- **Decrypt**: decrypt, verify a pasted signature\n")
	b.WriteString("- **Verify**: verify a pasted signature\n\n")

	b.WriteString("## Keys\n\n")
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, group := range k.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString("| " + h.Key + " | " + h.Desc + " |\n")
		}
	}
	b.WriteString("\nThe country field accepts at most two characters.\n")
	return b.String()
}

// render returns the help rendered for width, falling back to the raw
// markdown when glamour fails.
func (h *helpOverlay) render(k KeyMap, width int, dark bool) string {
	if h.rendered != "" && h.width == width && h.dark == dark {
		return h.rendered
	}

	md := helpMarkdown(k)
	style := "light"
	if dark {
		style = "dark"
	}
	wrap := width - 4
	if wrap < 40 {
		wrap = 40
	}

	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err == nil {
		if rendered, err := r.Render(md); err == nil {
			out = rendered
		}
	}

	h.width, h.dark, h.rendered = width, dark, out
	return out
}
