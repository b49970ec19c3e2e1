// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

// Schema is the certificate ledger schema.
const Schema = `
CREATE TABLE IF NOT EXISTS certificates (
    id          TEXT PRIMARY KEY,
    common_name TEXT NOT NULL,
    path        TEXT NOT NULL,
    sha256      TEXT NOT NULL,
    size        INTEGER NOT NULL,
    saved_at    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_certificates_saved_at ON certificates(saved_at);
CREATE INDEX IF NOT EXISTS idx_certificates_common_name ON certificates(common_name);
`
