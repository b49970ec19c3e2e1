// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the remote cryptographic service.
//
// Every operation is a single JSON POST. Algorithm-routed operations live
// under /{algorithm}/..., certificate issuance under /generate-certificate.
// The client never retries and never layers a timeout beyond the one
// configured on its http.Client.
//
// # Key Types
//
//   - Client: builds requests, sends them and parses responses
//   - Result: tagged outcome of a call (Output on success, *Error on failure)
//   - Error: transport or backend failure, carrying the server detail if any
//
// # Usage
//
//	client := api.NewClient(api.DefaultConfig())
//	res := client.Call(ctx, operation.KindEncrypt, operation.AlgorithmRSA,
//	    operation.Input{Message: "hello"})
//	if !res.OK() {
//	    fmt.Println(res.Err.Detail)
//	}
//	fmt.Println(res.Output.Text)
package api
