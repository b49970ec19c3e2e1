// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies the top-level command.
type Command int

const (
	CmdTUI Command = iota
	CmdEncrypt
	CmdDecrypt
	CmdSign
	CmdVerify
	CmdCert
	CmdCerts
	CmdConfig
	CmdStatus
	CmdShell
	CmdVersion
	CmdHelp
)

var commandNames = map[string]Command{
	"tui":              CmdTUI,
	"encrypt":          CmdEncrypt,
	"enc":              CmdEncrypt,
	"decrypt":          CmdDecrypt,
	"dec":              CmdDecrypt,
	"sign":             CmdSign,
	"verify":           CmdVerify,
	"verify-signature": CmdVerify,
	"cert":             CmdCert,
	"certificate":      CmdCert,
	"certs":            CmdCerts,
	"config":           CmdConfig,
	"status":           CmdStatus,
	"shell":            CmdShell,
	"version":          CmdVersion,
	"help":             CmdHelp,
}

// String returns the canonical command name.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdEncrypt:
		return "encrypt"
	case CmdDecrypt:
		return "decrypt"
	case CmdSign:
		return "sign"
	case CmdVerify:
		return "verify"
	case CmdCert:
		return "cert"
	case CmdCerts:
		return "certs"
	case CmdConfig:
		return "config"
	case CmdStatus:
		return "status"
	case CmdShell:
		return "shell"
	case CmdVersion:
		return "version"
	}
	return "help"
}

// Kind returns the operation a one-shot command runs.
func (c Command) Kind() (operation.Kind, bool) {
	switch c {
	case CmdEncrypt:
		return operation.KindEncrypt, true
	case CmdDecrypt:
		return operation.KindDecrypt, true
	case CmdSign:
		return operation.KindSign, true
	case CmdVerify:
		return operation.KindVerifySignature, true
	case CmdCert:
		return operation.KindIssueCertificate, true
	}
	return "", false
}

// =============================================================================
// ARGS
// =============================================================================

// boolFlagNames never take a value.
var boolFlagNames = []string{"json", "verbose", "v", "help", "h", "version", "V", "save", "force"}

// Args is the parsed command line.
type Args struct {
	Command Command

	// Global flags
	Verbose   bool
	JSON      bool
	Help      bool
	URL       string
	Algorithm string

	// Subcommand is the first argument after the command ("list" in
	// "certs list").
	Subcommand string

	// Err is set when the command line could not be understood.
	Err error

	parser *ArgParser
}

// Flag returns a command flag value.
func (a Args) Flag(names ...string) string {
	if a.parser == nil {
		return ""
	}
	return a.parser.Flag(names...)
}

// BoolFlag reports whether a command boolean flag is set.
func (a Args) BoolFlag(names ...string) bool {
	if a.parser == nil {
		return false
	}
	return a.parser.BoolFlag(names...)
}

// Positional returns the arguments after the command name.
func (a Args) Positional() []string {
	if a.parser == nil {
		return nil
	}
	return a.parser.PositionalFrom(1)
}

// Parse parses os.Args.
func Parse() Args {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name).
func ParseArgs(argv []string) Args {
	p := NewArgParser(argv, boolFlagNames...)
	args := Args{
		Command:   CmdTUI,
		Verbose:   p.BoolFlag("verbose", "v"),
		JSON:      p.BoolFlag("json"),
		Help:      p.BoolFlag("help", "h"),
		URL:       p.Flag("url", "u"),
		Algorithm: p.Flag("alg", "a", "algorithm"),
		parser:    p,
	}

	if name := p.Subcommand(); name != "" {
		cmd, ok := commandNames[strings.ToLower(name)]
		if !ok {
			args.Command = CmdHelp
			args.Err = NewUsageError("unknown command %q (run 'cryptodesk help')", name)
			return args
		}
		args.Command = cmd
		args.Subcommand = p.Positional(1)
	}

	if p.BoolFlag("version", "V") {
		args.Command = CmdVersion
	}
	if args.Help && args.Command == CmdTUI {
		args.Command = CmdHelp
	}

	if args.Algorithm != "" {
		if _, err := operation.ParseAlgorithm(args.Algorithm); err != nil {
			args.Err = NewValidationError("algorithm", args.Algorithm, "expected rsa or elgamal")
		}
	}
	return args
}

// =============================================================================
// USAGE AND VERSION
// =============================================================================

const usageText = `cryptodesk - client for the RSA/ElGamal crypto service

Usage:
  cryptodesk [command] [flags]

Commands:
  (none)                     Start the interactive TUI
  encrypt <message|->        Encrypt a message
  decrypt <cipher|->         Decrypt cipher text
  sign <message|->           Sign a message
  verify -s <sig> <message>  Verify a signature
  cert [subject flags]       Issue a certificate
  certs [list|show|forget]   Saved certificates
  config [show|path|init|get|set]
  status                     Check that the service is reachable
  shell                      Line-oriented interactive shell
  version                    Show version information

Global flags:
  -a, --alg <rsa|elgamal>    Algorithm (default from config)
  -u, --url <url>            Service base URL (default from config)
      --json                 Print a JSON envelope
  -v, --verbose              Log requests to stderr
  -h, --help                 Show this help

Certificate subject flags:
  --cn, --country (2 letters), --state, --locality,
  --org, --ou, --email, --save (write <cn>.pem and record it)

Input is read from stdin when the argument is "-" or omitted and stdin is
not a terminal.

Version: %s
`

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer, asJSON bool) error {
	if asJSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
		}).Write(w)
	}
	fmt.Fprintf(w, "cryptodesk version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	return nil
}
