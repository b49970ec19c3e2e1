// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/storage"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// completionMsg carries a finished network call back to Update.
type completionMsg struct {
	page       string
	completion workflow.Completion
}

// certSavedMsg reports the outcome of a certificate export.
type certSavedMsg struct {
	saved *storage.SavedCertificate
	err   error
}

// clipboardMsg reports the outcome of a copy.
type clipboardMsg struct {
	what string
	err  error
}

// ConfigReloadedMsg is sent by the config watcher when the config file
// changes. Err is set when the new file could not be loaded.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}
