// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for cryptodesk.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServiceConfig: Backend URL, timeout and request pacing
//   - ExportConfig: Certificate export directory and ledger
//   - Watcher: Reloads the config file when it changes
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (CRYPTODESK_*)
//   - ~/.cryptodesk/config.toml
//   - ~/.cryptodesk/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Build a client from it:
//
//	client := api.NewClient(cfg.ClientConfig())
package config
