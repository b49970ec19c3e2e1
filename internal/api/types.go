// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// MessageRequest is the body for /{algorithm}/encrypt and /{algorithm}/sign.
type MessageRequest struct {
	Message string `json:"message"`
}

// CipherTextRequest is the body for /{algorithm}/decrypt.
type CipherTextRequest struct {
	CipherText string `json:"cipherText"`
}

// SignatureRequest is the body for /{algorithm}/verify_signature.
type SignatureRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// Pointer fields distinguish a missing key from an empty value; a response
// without its key is treated as malformed.

// EncryptResponse is the body returned by /{algorithm}/encrypt.
type EncryptResponse struct {
	EncryptedMessage *string `json:"encryptedMessage"`
}

// DecryptResponse is the body returned by /{algorithm}/decrypt.
type DecryptResponse struct {
	DecryptedMessage *string `json:"decryptedMessage"`
}

// SignResponse is the body returned by /{algorithm}/sign.
type SignResponse struct {
	Signature *string `json:"signature"`
}

// VerifyResponse is the body returned by /{algorithm}/verify_signature.
type VerifyResponse struct {
	IsValid *bool `json:"isValid"`
}

// CertificateResponse is the body returned by /generate-certificate.
type CertificateResponse struct {
	Certificate *string `json:"certificate"`
}

// errorResponse is the error envelope used by the backend. Detail is kept
// raw because validation failures carry a list instead of a string.
type errorResponse struct {
	Detail any `json:"detail"`
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the tagged outcome of a call. Exactly one of Output (when Err is
// nil) or Err is meaningful.
type Result struct {
	Output operation.Output
	Err    *Error
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// success builds a successful result.
func success(out operation.Output) Result {
	return Result{Output: out}
}

// failure builds a failed result.
func failure(err *Error) Result {
	return Result{Err: err}
}
