// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workflow

import "github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"

// Level is the severity of a Notice.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "info"
}

// Notice is a transient, user-visible message raised by a slot.
type Notice struct {
	Level Level
	Slot  string
	Kind  operation.Kind
	Text  string
}

// Notifier receives notices. The TUI turns them into toasts, the CLI prints
// them to stderr.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) {
	f(n)
}

// discard drops every notice.
type discard struct{}

func (discard) Notify(Notice) {}

// successText is the notice raised when an operation completes.
func successText(kind operation.Kind) string {
	switch kind {
	case operation.KindEncrypt:
		return "Message encrypted successfully"
	case operation.KindDecrypt:
		return "Message decrypted successfully"
	case operation.KindSign:
		return "Message signed successfully"
	case operation.KindVerifySignature:
		return "Signature verified"
	case operation.KindIssueCertificate:
		return "Certificate generated successfully"
	}
	return "Done"
}
