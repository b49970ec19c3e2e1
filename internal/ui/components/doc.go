// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the cryptodesk TUI.

Components are plain structs with a View method, built on Lip Gloss and the
shared styles package. Stateful ones (Spinner) follow the Bubble Tea
Update/View convention so the app model can embed them directly.

# Components

  - Header (header.go) - brand, page tabs, algorithm badge and service URL
  - StatusBar (statusbar.go) - pending count, last message and key hints
  - Spinner (spinner.go) - per-slot progress indicator with elapsed time
  - Toasts (toast.go) - auto-dismissing notices fed from workflow.Notice

# Usage

	header := components.NewHeader(theme)
	header.SetPages([]string{"Encrypt", "Decrypt", "Verify"}, 0)
	header.SetAlgorithm(operation.AlgorithmRSA)
	view := header.View()
*/
package components
