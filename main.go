// cryptodesk - terminal client for the RSA/ElGamal crypto service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/cli"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/desk"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args := cli.Parse()
	cfg := loadConfig()

	if args.Command == cli.CmdTUI && args.Err == nil {
		os.Exit(runTUI(args, cfg))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Run(ctx, args, cli.DefaultEnv(cfg))
	stop()

	if err != nil {
		out := os.Stderr
		if args.JSON {
			out = os.Stdout
		}
		cli.DisplayError(out, args.Command.String(), err, args.JSON)
	}
	os.Exit(cli.GetExitCode(err))
}

// loadConfig loads the config file. A broken file is reported and the
// defaults are used instead.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if cfg == nil {
		cfg = config.Default()
		cfg.ApplyEnvOverrides()
	}
	config.SetGlobal(cfg)
	return cfg
}

// runTUI starts the TUI interface.
func runTUI(args cli.Args, cfg *config.Config) int {
	if !cli.IsTTY() || !cli.IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, "cryptodesk: the TUI needs a terminal; run 'cryptodesk help' for the one-shot commands")
		return cli.ExitUsageError
	}

	if args.URL != "" {
		cfg.Service.BaseURL = args.URL
	}
	if args.Algorithm != "" {
		cfg.UI.DefaultAlgorithm = args.Algorithm
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitConfigError
	}

	if err := desk.Run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.ExitGeneralError
	}
	return cli.ExitSuccess
}
