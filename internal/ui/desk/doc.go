// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package desk provides the Bubble Tea application for cryptodesk.

The model shows one tab per built-in page (Encrypt, Decrypt, Verify). Each
page is a workflow.Page; the model only owns widgets and routing.

# Message Flow

Submitting a slot starts its operation inside Update, then runs the network
call in a tea.Cmd:

	call, err := page.Submit(slot, input)   // Update: slot goes pending
	cmd := func() tea.Msg {                 // off the update loop
	    return completionMsg{page, call.Do(ctx)}
	}
	page.Finish(msg.completion)             // Update: result applied

Completions for a closed page are dropped by the page itself.

# Key Bindings

  - Tab/Shift+Tab - next/previous field
  - Enter - run the focused field's operation
  - Alt+1..3, Ctrl+Left/Right - switch page (1..3 also work after Esc)
  - Ctrl+A - toggle RSA/ElGamal for the current page
  - Ctrl+Y - copy the focused operation's output
  - Ctrl+S - save the issued certificate
  - F1 - help
  - Ctrl+C - quit

# Usage

	err := desk.Run(cfg)
*/
package desk
