// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/components"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/styles"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/util"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// labelWidth is the column width of field labels.
const labelWidth = 20

// View renders the screen.
func (m Model) View() string {
	header := m.header.View()
	status := m.status.View()

	var body string
	if m.help.visible {
		body = m.help.render(m.keys, m.width, m.theme.IsDark)
	} else {
		body = m.renderPage(m.current())
	}

	toasts := components.RenderToastStack(m.toasts.Toasts(), m.width, m.now())

	if m.height > 0 {
		avail := m.height - lipgloss.Height(header) - lipgloss.Height(status)
		if toasts != "" {
			avail -= lipgloss.Height(toasts)
		}
		body = clipLines(body, avail)
	}

	parts := []string{header, body}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, status)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderPage renders one section per slot. When the sections do not fit,
// leading sections are skipped so the focused one stays visible.
func (m Model) renderPage(pv *pageView) string {
	sections := make([]string, 0, len(pv.page.Slots()))
	focusedIdx := 0
	for i, s := range pv.page.Slots() {
		if s.Name() == pv.focusedSlot() {
			focusedIdx = i
		}
		sections = append(sections, m.renderSection(pv, s))
	}

	start := 0
	if m.height > 0 {
		avail := m.height - 6
		used := 0
		for i := focusedIdx; i >= 0; i-- {
			used += lipgloss.Height(sections[i])
			if used > avail && i < focusedIdx {
				start = i + 1
				break
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections[start:]...)
}

func (m Model) renderSection(pv *pageView, s *workflow.Slot) string {
	t := m.theme
	spec, _ := pv.page.Spec(s.Name())

	title := t.SectionTitle.Render(s.Kind().Label())
	if s.Kind().UsesAlgorithm() {
		title += " " + t.Hint.Render("("+pv.page.Algorithm().Get().DisplayName()+")")
	}
	lines := []string{title}

	for i, f := range pv.fields {
		if f.slot != s.Name() {
			continue
		}
		label := t.Label.Render(util.PadRight(f.label, labelWidth))
		if i == pv.focus {
			label = t.SectionTitle.Render(util.PadRight("> "+f.label, labelWidth))
		}
		lines = append(lines, label+f.input.View())
	}
	if spec.SignatureFrom != "" {
		lines = append(lines, t.Label.Render(util.PadRight("Signature", labelWidth))+
			m.chainedSignature(pv, spec.SignatureFrom))
	}

	lines = append(lines, m.renderButton(pv, s))
	if res := m.renderResult(s); res != "" {
		lines = append(lines, res)
	}

	box := t.Section
	if pv.focusedSlot() == s.Name() {
		box = t.SectionFocused
	}
	return box.Width(t.ContentWidth()).Render(strings.Join(lines, "\n"))
}

// chainedSignature shows the signature a verify slot will reuse.
func (m Model) chainedSignature(pv *pageView, from string) string {
	out, ok := pv.page.Slot(from).Output()
	if !ok || out.Text == "" {
		return m.theme.Hint.Render("sign a message first")
	}
	return util.TruncateWidth(out.Text, m.theme.ContentWidth()-labelWidth-6)
}

func (m Model) renderButton(pv *pageView, s *workflow.Slot) string {
	t := m.theme
	if s.Pending() {
		return t.ButtonPending.Render(s.Kind().Label()) + " " + pv.spinners[s.Name()].View()
	}
	if pv.page.CanSubmit(s.Name(), pv.input(s.Name())) {
		return t.Button.Render(s.Kind().Label())
	}
	return t.ButtonDisabled.Render(s.Kind().Label())
}

// renderResult shows the slot's output or error; they are never both set.
func (m Model) renderResult(s *workflow.Slot) string {
	t := m.theme
	width := t.ContentWidth() - 6

	if msg := s.Err(); msg != "" {
		return t.OutputError.Render(styles.StatusIndicators.Error + " " + msg)
	}

	out, ok := s.Output()
	if !ok {
		return ""
	}
	switch out.Verdict() {
	case operation.VerdictValid:
		return t.VerdictValid.Render(styles.StatusIndicators.Success + " " + out.Display())
	case operation.VerdictInvalid:
		return t.VerdictInvalid.Render(styles.StatusIndicators.Warning + " " + out.Display())
	}

	if out.Kind == operation.KindIssueCertificate {
		n := strings.Count(strings.TrimRight(out.Text, "\n"), "\n") + 1
		first := strings.SplitN(out.Text, "\n", 2)[0]
		return t.Output.Render(util.TruncateWidth(first, width)) + "\n" +
			t.Hint.Render(strconv.Itoa(n)+" lines  ctrl+s save  ctrl+y copy")
	}
	return t.Output.Render(util.TruncateWidth(util.OneLine(out.Text), width))
}

// clipLines keeps at most n lines of s.
func clipLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}
