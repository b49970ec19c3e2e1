// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/components"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// fieldRole says which part of an operation.Input a field fills.
type fieldRole int

const (
	roleMessage fieldRole = iota
	roleCipherText
	roleSignature
	roleCertificate
)

// field is one text input bound to a slot.
type field struct {
	slot  string
	role  fieldRole
	cert  operation.Field
	label string
	input textinput.Model
}

// pageView holds the widgets for one workflow.Page.
type pageView struct {
	page     *workflow.Page
	fields   []*field
	focus    int
	spinners map[string]*components.Spinner
}

func newPageView(page *workflow.Page) *pageView {
	pv := &pageView{
		page:     page,
		spinners: make(map[string]*components.Spinner),
	}

	for _, s := range page.Slots() {
		spec, _ := page.Spec(s.Name())
		switch s.Kind() {
		case operation.KindEncrypt, operation.KindSign:
			pv.add(s.Name(), roleMessage, 0, "Message")
		case operation.KindDecrypt:
			pv.add(s.Name(), roleCipherText, 0, "Cipher Text")
		case operation.KindVerifySignature:
			pv.add(s.Name(), roleMessage, 0, "Message")
			if spec.SignatureFrom == "" {
				pv.add(s.Name(), roleSignature, 0, "Signature")
			}
		case operation.KindIssueCertificate:
			for _, f := range operation.Fields {
				pv.add(s.Name(), roleCertificate, f, f.Label())
			}
		}

		sp := components.NewSpinner()
		sp.SetMessage(s.Kind().Progressive())
		pv.spinners[s.Name()] = &sp
	}
	return pv
}

func (pv *pageView) add(slot string, role fieldRole, cert operation.Field, label string) {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder(role, cert)
	pv.fields = append(pv.fields, &field{
		slot:  slot,
		role:  role,
		cert:  cert,
		label: label,
		input: in,
	})
}

func placeholder(role fieldRole, cert operation.Field) string {
	switch role {
	case roleCipherText:
		return "Paste the encrypted message"
	case roleSignature:
		return "Paste the signature"
	case roleCertificate:
		if cert == operation.FieldCountry {
			return "Two-letter code"
		}
		return ""
	}
	return "Type a message"
}

// input assembles the operation input for slot from its fields. The
// certificate and chained signature are filled in by the page.
func (pv *pageView) input(slot string) operation.Input {
	var in operation.Input
	for _, f := range pv.fields {
		if f.slot != slot {
			continue
		}
		switch f.role {
		case roleMessage:
			in.Message = f.input.Value()
		case roleCipherText:
			in.CipherText = f.input.Value()
		case roleSignature:
			in.Signature = f.input.Value()
		}
	}
	return in
}

// focused returns the focused field, or nil in navigation mode.
func (pv *pageView) focused() *field {
	if pv.focus < 0 || pv.focus >= len(pv.fields) {
		return nil
	}
	return pv.fields[pv.focus]
}

// focusedSlot returns the slot of the focused field, or "".
func (pv *pageView) focusedSlot() string {
	if f := pv.focused(); f != nil {
		return f.slot
	}
	return ""
}

// setFocus focuses field i; a negative i leaves every field blurred.
func (pv *pageView) setFocus(i int) tea.Cmd {
	for _, f := range pv.fields {
		f.input.Blur()
	}
	if len(pv.fields) == 0 || i < 0 {
		pv.focus = -1
		return nil
	}
	pv.focus = i % len(pv.fields)
	return pv.fields[pv.focus].input.Focus()
}

// blur unfocuses every input but remembers the focused field.
func (pv *pageView) blur() {
	for _, f := range pv.fields {
		f.input.Blur()
	}
}

// refocus focuses the remembered field again.
func (pv *pageView) refocus() tea.Cmd {
	if f := pv.focused(); f != nil {
		return f.input.Focus()
	}
	return nil
}

// moveFocus moves focus by delta, wrapping around.
func (pv *pageView) moveFocus(delta int) tea.Cmd {
	n := len(pv.fields)
	if n == 0 {
		return nil
	}
	i := pv.focus
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%n + n) % n
	}
	return pv.setFocus(i)
}

// edit forwards a key to the focused field. Certificate edits go through
// the page form; a rejected edit restores the previous value.
func (pv *pageView) edit(msg tea.Msg) tea.Cmd {
	f := pv.focused()
	if f == nil {
		return nil
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)

	if f.role == roleCertificate {
		after := f.input.Value()
		if after != before {
			if err := pv.page.UpdateCertificateField(f.cert, after); err != nil {
				f.input.SetValue(before)
			}
		}
	}
	return cmd
}

// pending returns the number of slots with an operation in flight.
func (pv *pageView) pending() int {
	n := 0
	for _, s := range pv.page.Slots() {
		if s.Pending() {
			n++
		}
	}
	return n
}
