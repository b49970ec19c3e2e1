// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the cryptodesk TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection; a Theme can force either mode.

# Color System (colors.go)

  - Purple - Primary accent, active tab, focused fields
  - Cyan - Brand color, info notices, RSA badge
  - Emerald - Success states and valid signatures
  - Amber - Warnings, invalid signatures, ElGamal badge
  - Rose - Errors and failed operations

Status messages always carry an ASCII indicator ([OK], [X], [!], [i]) so
they do not rely on color alone.

# Theme (theme.go)

	theme := styles.NewTheme("auto")
	title := theme.SectionTitle.Render("Encrypt Message")

# Animations (animations.go)

Spinner frame sets shared by the spinner component.
*/
package styles
