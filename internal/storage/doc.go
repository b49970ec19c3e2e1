// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage saves issued certificates for cryptodesk.
//
// Export writes the PEM text the service returned to <common_name>.pem in
// the export directory and records the file in a SQLite ledger. The PEM is
// written as received; nothing here parses or validates it.
//
// # Usage
//
//	store, err := storage.OpenCertificateStore(cfg.Export.CertificateDir, cfg.Export.LedgerPath)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	saved, err := store.Export("example.com", pem)
package storage
