// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workflow

import (
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
)

// Fallback returns the generic failure message for kind.
func Fallback(kind operation.Kind) string {
	switch kind {
	case operation.KindEncrypt:
		return "An error occurred during encryption"
	case operation.KindDecrypt:
		return "An error occurred during decryption"
	case operation.KindSign:
		return "An error occurred during signing"
	case operation.KindVerifySignature:
		return "An error occurred during verification"
	case operation.KindIssueCertificate:
		return "An error occurred during certificate generation"
	}
	return "An error occurred"
}

// Translate turns a failure into the message shown to the user: the
// server's detail string verbatim when it sent one, otherwise the fallback
// for kind.
func Translate(kind operation.Kind, err error) string {
	if detail := api.DetailOf(err); detail != "" {
		return detail
	}
	return Fallback(kind)
}
