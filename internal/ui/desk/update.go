// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/components"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case completionMsg:
		return m.handleCompletion(msg)

	case certSavedMsg:
		return m.handleCertSaved(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.notify(workflow.LevelError, "Copy failed: "+msg.err.Error())
		} else {
			m.notify(workflow.LevelInfo, "Copied "+msg.what+" to clipboard")
		}
		return m, nil

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case components.ToastTickMsg:
		m.toasts.Tick(msg.Time)
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	}

	// Cursor blink and other widget messages go to the focused field.
	return m, m.current().edit(msg)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.status.SetWidth(msg.Width)

	inputWidth := m.theme.ContentWidth() - labelWidth - 6
	if inputWidth < 10 {
		inputWidth = 10
	}
	for _, pv := range m.pages {
		for _, f := range pv.fields {
			f.input.Width = inputWidth
		}
	}
	return m, nil
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}

	if m.help.visible {
		if key.Matches(msg, m.keys.Help, m.keys.Blur, m.keys.NavQuit) {
			m.help.visible = false
		}
		return m, nil
	}

	pv := m.current()
	navMode := pv.focused() == nil

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.visible = true
		return m, nil

	case key.Matches(msg, m.keys.GotoPage):
		return m.switchPage(pageIndex(msg.String()))

	case navMode && key.Matches(msg, m.keys.NavPage):
		return m.switchPage(pageIndex(msg.String()))

	case key.Matches(msg, m.keys.NextPage):
		return m.switchPage((m.active + 1) % len(m.pages))

	case key.Matches(msg, m.keys.PrevPage):
		return m.switchPage((m.active + len(m.pages) - 1) % len(m.pages))

	case navMode && key.Matches(msg, m.keys.NavQuit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleAlg):
		alg := pv.page.Algorithm().Toggle()
		m.header.SetAlgorithm(alg)
		m.notify(workflow.LevelInfo, "Algorithm set to "+alg.DisplayName())
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyOutput()

	case key.Matches(msg, m.keys.SaveCert):
		return m.saveCertificate()

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissNewest()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		return m, pv.moveFocus(1)

	case key.Matches(msg, m.keys.PrevField):
		return m, pv.moveFocus(-1)

	case key.Matches(msg, m.keys.Blur):
		pv.setFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if navMode {
			return m, pv.moveFocus(0)
		}
		return m.submit(pv, pv.focusedSlot())
	}

	if navMode {
		return m, nil
	}
	return m, pv.edit(msg)
}

func (m Model) switchPage(i int) (tea.Model, tea.Cmd) {
	if i < 0 || i >= len(m.pages) || i == m.active {
		return m, nil
	}
	m.current().blur()
	m.active = i
	pv := m.current()
	m.header.SetPages(m.header.Pages, i)
	m.header.SetAlgorithm(pv.page.Algorithm().Get())
	return m, pv.refocus()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// submit starts the slot's operation and runs the call off the update
// loop. A busy slot or invalid input starts nothing; the page has already
// issued any notice.
func (m Model) submit(pv *pageView, slot string) (tea.Model, tea.Cmd) {
	if slot == "" {
		return m, nil
	}
	call, err := pv.page.Submit(slot, pv.input(slot))
	if err != nil {
		return m, nil
	}

	sp := pv.spinners[slot]
	tick := sp.Start(m.now())
	m.status.SetPending(m.pending())
	m.status.SetMessage(call.Kind.Progressive())

	ctx, page := m.ctx, pv.page.Name()
	return m, tea.Batch(tick, func() tea.Msg {
		return completionMsg{page: page, completion: call.Do(ctx)}
	})
}

func (m Model) handleCompletion(msg completionMsg) (tea.Model, tea.Cmd) {
	pv := m.pageView(msg.page)
	if pv == nil {
		return m, nil
	}
	pv.page.Finish(msg.completion)
	if slot := pv.page.Slot(msg.completion.Slot); slot != nil && !slot.Pending() {
		pv.spinners[slot.Name()].Stop()
	}
	m.status.SetPending(m.pending())
	return m, nil
}

func (m Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for _, pv := range m.pages {
		for name, sp := range pv.spinners {
			next, cmd := sp.Update(msg)
			pv.spinners[name] = &next
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// copyOutput copies the output of the focused field's slot.
func (m Model) copyOutput() (tea.Model, tea.Cmd) {
	pv := m.current()
	slot := pv.page.Slot(pv.focusedSlot())
	if slot == nil {
		m.notify(workflow.LevelWarning, "Select an operation to copy its output")
		return m, nil
	}
	out, ok := slot.Output()
	if !ok {
		m.notify(workflow.LevelWarning, "Nothing to copy yet")
		return m, nil
	}

	text, what := out.Display(), slot.Kind().Label()+" output"
	copyFn := m.copy
	return m, func() tea.Msg {
		return clipboardMsg{what: what, err: copyFn(text)}
	}
}

// saveCertificate exports the certificate issued on the current page.
func (m Model) saveCertificate() (tea.Model, tea.Cmd) {
	slot := m.current().page.Slot(workflow.SlotCertificate)
	if slot == nil {
		m.notify(workflow.LevelWarning, "This page does not issue certificates")
		return m, nil
	}
	out, ok := slot.Output()
	if !ok {
		m.notify(workflow.LevelWarning, "Generate a certificate before saving")
		return m, nil
	}
	if m.exporter == nil {
		m.notify(workflow.LevelError, "Certificate export is not available")
		return m, nil
	}

	commonName := slot.Operation().Input.Certificate.CommonName
	exporter := m.exporter
	return m, func() tea.Msg {
		saved, err := exporter.Export(commonName, out.Text)
		return certSavedMsg{saved: saved, err: err}
	}
}

func (m Model) handleCertSaved(msg certSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("certificate export failed: %v", msg.err)
		m.notify(workflow.LevelError, "Could not save certificate: "+msg.err.Error())
		return m, nil
	}
	m.notify(workflow.LevelSuccess, "Certificate saved to "+msg.saved.Path)
	return m, nil
}

// handleConfigReloaded points every page at the reloaded service. Calls
// already in flight finish against the old one.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		log.Printf("config reload failed: %v", msg.Err)
		m.notify(workflow.LevelWarning, fmt.Sprintf("Config reload failed: %v", msg.Err))
		return m, nil
	}

	client := api.NewClient(msg.Config.ClientConfig())
	m.SetTransport(client)
	m.header.SetBaseURL(client.BaseURL())
	m.notify(workflow.LevelInfo, "Configuration reloaded")
	return m, nil
}

// notify shows a notice that did not come from a page.
func (m Model) notify(level workflow.Level, text string) {
	m.toasts.Notify(workflow.Notice{Level: level, Text: text})
	m.status.SetMessage(text)
}
