// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the cryptodesk front ends.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width aware truncation with ellipsis
//   - StringWidth: terminal column width of a string
//   - SafeFilename: turn a certificate common name into a file name
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Shorten a long signature for a one-line preview
//	preview := util.TruncateWidth(signature, 40)
//
//	// Write a certificate without leaving a partial file behind
//	err := util.AtomicWriteFile(path, pem, 0644)
package util
