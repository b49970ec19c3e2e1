// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package operation

import "time"

// =============================================================================
// INPUT
// =============================================================================

// CertificateRequest is the subject record sent for certificate issuance.
// Field names match the backend's JSON contract.
type CertificateRequest struct {
	CommonName         string `json:"common_name"`
	Country            string `json:"country"`
	State              string `json:"state"`
	Locality           string `json:"locality"`
	Organization       string `json:"organization"`
	OrganizationalUnit string `json:"organizational_unit"`
	Email              string `json:"email"`
}

// Input is the payload for a single operation. Only the fields relevant to
// the operation kind are read.
type Input struct {
	Message     string
	CipherText  string
	Signature   string
	Certificate CertificateRequest
}

// =============================================================================
// OUTPUT
// =============================================================================

// Verdict is the business outcome of a signature verification.
type Verdict int

const (
	// VerdictNone means the output is not a verification result.
	VerdictNone Verdict = iota
	VerdictValid
	VerdictInvalid
)

// String returns "valid", "invalid" or "".
func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictInvalid:
		return "invalid"
	}
	return ""
}

// Output is the parsed result of a successful operation.
//
// Text holds the encrypted message, decrypted message, signature or PEM
// certificate depending on Kind. Valid is only meaningful for
// KindVerifySignature.
type Output struct {
	Kind  Kind
	Text  string
	Valid bool
}

// Verdict returns the verification verdict, or VerdictNone for other kinds.
// A negative verdict is a successful call, not an error.
func (o Output) Verdict() Verdict {
	if o.Kind != KindVerifySignature {
		return VerdictNone
	}
	if o.Valid {
		return VerdictValid
	}
	return VerdictInvalid
}

// Display returns the text a front end shows for the output.
func (o Output) Display() string {
	switch o.Verdict() {
	case VerdictValid:
		return "Signature is valid"
	case VerdictInvalid:
		return "Signature is invalid"
	}
	return o.Text
}

// =============================================================================
// OPERATION
// =============================================================================

// Operation is one request/response cycle owned by a slot.
// Output is set only when Status is StatusSucceeded and Error only when
// Status is StatusFailed.
type Operation struct {
	ID        string
	Kind      Kind
	Algorithm Algorithm
	Input     Input
	Status    Status
	Output    *Output
	Error     string
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration returns how long the operation took, or zero while pending.
func (op *Operation) Duration() time.Duration {
	if op == nil || op.EndedAt.IsZero() {
		return 0
	}
	return op.EndedAt.Sub(op.StartedAt)
}
