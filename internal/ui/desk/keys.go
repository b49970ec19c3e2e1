// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the app.
type KeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Blur      key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	GotoPage  key.Binding
	NavPage   key.Binding
	ToggleAlg key.Binding
	Copy      key.Binding
	SaveCert  key.Binding
	Dismiss   key.Binding
	Help      key.Binding
	Quit      key.Binding
	NavQuit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("Tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-Tab", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "run operation"),
		),
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "leave field"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("ctrl+right"),
			key.WithHelp("C-Right", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("ctrl+left"),
			key.WithHelp("C-Left", "previous page"),
		),
		GotoPage: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3"),
			key.WithHelp("A-1..3", "go to page"),
		),
		NavPage: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1..3", "go to page (after Esc)"),
		),
		ToggleAlg: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("C-a", "toggle RSA/ElGamal"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy output"),
		),
		SaveCert: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save certificate"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "dismiss notice"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		NavQuit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit (after Esc)"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.ToggleAlg, k.Copy, k.SaveCert, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.Blur},
		{k.GotoPage, k.NavPage, k.NextPage, k.PrevPage},
		{k.Submit, k.ToggleAlg, k.Copy, k.SaveCert, k.Dismiss},
		{k.Help, k.Quit, k.NavQuit},
	}
}

// pageIndex maps a page key ("1" or "alt+1") to a zero-based page index.
func pageIndex(s string) int {
	if len(s) == 0 {
		return -1
	}
	d := s[len(s)-1]
	if d < '1' || d > '9' {
		return -1
	}
	return int(d - '1')
}
