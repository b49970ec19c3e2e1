// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the cryptodesk command line: argument parsing,
one-shot operation commands, config and certificate management, the
service health check and the interactive shell.

# Commands

	cryptodesk                          Start the TUI (default)
	cryptodesk encrypt <message|->      Encrypt a message
	cryptodesk decrypt <cipher|->       Decrypt cipher text
	cryptodesk sign <message|->         Sign a message
	cryptodesk verify -s SIG <message>  Verify a signature
	cryptodesk cert --cn ... [--save]   Issue a certificate
	cryptodesk certs [list|show|forget] Saved certificates
	cryptodesk config [show|path|init|get|set]
	cryptodesk status                   Check the crypto service
	cryptodesk shell                    Interactive shell

Every operation command accepts --alg rsa|elgamal, --url and --json.

# Errors

Handlers return errors; the caller prints them with DisplayError and exits
with GetExitCode. Operation failures carry the backend's detail message.
*/
package cli
