// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operation

import (
	"fmt"
	"strings"
)

// ValidationError is a client-side rejection of an operation's input.
// It is always recoverable by correcting the input and is never sent to
// the network.
type ValidationError struct {
	Kind    Kind
	Message string
	// Fields lists the empty certificate fields for KindIssueCertificate.
	Fields []Field
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks in against the rules for kind. It returns nil when the
// input may be submitted, or a *ValidationError describing the problem.
func Validate(kind Kind, in Input) error {
	switch kind {
	case KindEncrypt:
		if blank(in.Message) {
			return &ValidationError{Kind: kind, Message: "Please enter a message to encrypt"}
		}
	case KindSign:
		if blank(in.Message) {
			return &ValidationError{Kind: kind, Message: "Please enter a message to sign"}
		}
	case KindDecrypt:
		if blank(in.CipherText) {
			return &ValidationError{Kind: kind, Message: "Please enter a cipher text to decrypt"}
		}
	case KindVerifySignature:
		if blank(in.Message) || blank(in.Signature) {
			return &ValidationError{Kind: kind, Message: "Please enter both message and signature"}
		}
	case KindIssueCertificate:
		if missing := MissingFields(in.Certificate); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, f := range missing {
				names[i] = f.Name()
			}
			return &ValidationError{
				Kind:    kind,
				Message: "Please fill in all fields: " + strings.Join(names, ", "),
				Fields:  missing,
			}
		}
	default:
		panic(fmt.Sprintf("operation: unknown kind %q", kind))
	}
	return nil
}

// CanSubmit reports whether the trigger control for kind should be enabled.
func CanSubmit(kind Kind, in Input) bool {
	return Validate(kind, in) == nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
