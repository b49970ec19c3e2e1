// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operation

import (
	"fmt"
	"strings"
)

// =============================================================================
// OPERATION KIND
// =============================================================================

// Kind identifies which cryptographic operation a request performs.
type Kind string

const (
	KindEncrypt          Kind = "encrypt"
	KindDecrypt          Kind = "decrypt"
	KindSign             Kind = "sign"
	KindVerifySignature  Kind = "verify_signature"
	KindIssueCertificate Kind = "issue_certificate"
)

// Kinds lists every operation kind in display order.
var Kinds = []Kind{
	KindEncrypt,
	KindDecrypt,
	KindSign,
	KindVerifySignature,
	KindIssueCertificate,
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindEncrypt, KindDecrypt, KindSign, KindVerifySignature, KindIssueCertificate:
		return true
	}
	return false
}

// UsesAlgorithm reports whether the kind is routed by algorithm.
// Certificate issuance is algorithm-agnostic.
func (k Kind) UsesAlgorithm() bool {
	return k != KindIssueCertificate
}

// Label returns a short human label for buttons and headings.
func (k Kind) Label() string {
	switch k {
	case KindEncrypt:
		return "Encrypt Message"
	case KindDecrypt:
		return "Decrypt Message"
	case KindSign:
		return "Sign Message"
	case KindVerifySignature:
		return "Verify Signature"
	case KindIssueCertificate:
		return "Generate Certificate"
	}
	return string(k)
}

// Progressive returns the in-progress label ("Encrypting...").
func (k Kind) Progressive() string {
	switch k {
	case KindEncrypt:
		return "Encrypting..."
	case KindDecrypt:
		return "Decrypting..."
	case KindSign:
		return "Signing..."
	case KindVerifySignature:
		return "Verifying..."
	case KindIssueCertificate:
		return "Generating..."
	}
	return "Working..."
}

// ParseKind parses a kind from user text. "verify" and "cert" are accepted
// as shorthands.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "encrypt":
		return KindEncrypt, nil
	case "decrypt":
		return KindDecrypt, nil
	case "sign":
		return KindSign, nil
	case "verify", "verify_signature", "verify-signature":
		return KindVerifySignature, nil
	case "cert", "certificate", "issue_certificate", "generate-certificate":
		return KindIssueCertificate, nil
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// =============================================================================
// ALGORITHM
// =============================================================================

// Algorithm is the asymmetric algorithm family used by the backend.
type Algorithm string

const (
	AlgorithmRSA     Algorithm = "rsa"
	AlgorithmElGamal Algorithm = "elgamal"
)

// Algorithms lists the selectable algorithms in display order.
var Algorithms = []Algorithm{AlgorithmRSA, AlgorithmElGamal}

// Valid reports whether a is rsa or elgamal.
func (a Algorithm) Valid() bool {
	return a == AlgorithmRSA || a == AlgorithmElGamal
}

// DisplayName returns the human-readable algorithm name.
func (a Algorithm) DisplayName() string {
	switch a {
	case AlgorithmRSA:
		return "RSA"
	case AlgorithmElGamal:
		return "ElGamal"
	}
	return string(a)
}

// ParseAlgorithm parses user-supplied algorithm text, case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("invalid algorithm %q, must be one of: rsa, elgamal", s)
	}
	return a, nil
}

// =============================================================================
// STATUS
// =============================================================================

// Status is the lifecycle state of an operation slot.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}
