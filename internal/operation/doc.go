// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package operation defines the data model shared by every cryptodesk front end.
//
// An Operation is one request/response cycle against the remote cryptographic
// service. This package owns the closed enums (Kind, Algorithm, Status), the
// operation payloads, the pre-flight validation rules and the certificate
// subject form. Nothing here performs I/O.
//
// # Key Types
//
//   - Kind: encrypt, decrypt, sign, verify_signature, issue_certificate
//   - Algorithm: rsa or elgamal
//   - Input: operation-specific payload
//   - Output: operation-specific result
//   - CertificateForm: the seven certificate subject fields
//
// # Usage
//
// Gate a trigger control, then validate on submission:
//
//	enabled := operation.CanSubmit(operation.KindEncrypt, in)
//	if err := operation.Validate(operation.KindEncrypt, in); err != nil {
//	    notify(err.Error())
//	}
package operation
