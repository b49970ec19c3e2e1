// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/storage"
)

// Env is what a command reads and writes besides its arguments.
type Env struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
	Config *config.Config
}

// DefaultEnv returns an Env bound to the process streams.
func DefaultEnv(cfg *config.Config) *Env {
	return &Env{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin, Config: cfg}
}

// Run executes every command except the TUI, which main starts itself.
func Run(ctx context.Context, args Args, env *Env) error {
	if env.Config == nil {
		env.Config = config.Default()
	}
	if args.Err != nil {
		return args.Err
	}

	if args.Verbose {
		log.SetOutput(env.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	if args.Help && args.Command != CmdHelp {
		PrintUsage(env.Stdout)
		return nil
	}

	switch args.Command {
	case CmdEncrypt, CmdDecrypt, CmdSign, CmdVerify, CmdCert:
		return runOperation(ctx, args, env)
	case CmdCerts:
		return runCerts(args, env)
	case CmdConfig:
		return runConfig(args, env)
	case CmdStatus:
		return runStatus(ctx, args, env)
	case CmdShell:
		return runShell(ctx, args, env)
	case CmdVersion:
		return PrintVersion(env.Stdout, args.JSON)
	default:
		PrintUsage(env.Stdout)
		return nil
	}
}

// newClient builds the service client from config, honoring --url.
func newClient(args Args, cfg *config.Config) *api.Client {
	cc := cfg.ClientConfig()
	if args.URL != "" {
		cc.BaseURL = args.URL
	}
	return api.NewClient(cc)
}

// algorithm returns --alg when given, otherwise the configured default.
func algorithm(args Args, cfg *config.Config) operation.Algorithm {
	if args.Algorithm != "" {
		if alg, err := operation.ParseAlgorithm(args.Algorithm); err == nil {
			return alg
		}
	}
	return cfg.Algorithm()
}

// openStore opens the certificate ledger named by config.
func openStore(cfg *config.Config) (*storage.CertificateStore, error) {
	return storage.OpenCertificateStore(cfg.Export.CertificateDir, cfg.Export.LedgerPath)
}
