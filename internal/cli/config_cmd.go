// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
)

// runConfig handles "config [show|path|init|get|set]".
func runConfig(args Args, env *Env) error {
	switch args.Subcommand {
	case "", "show":
		if args.JSON {
			return NewJSONResponse("config show", env.Config).Write(env.Stdout)
		}
		writeHighlighted(env.Stdout, env.Config.String(), "json")
		return nil

	case "path":
		path, err := config.ActivePath()
		if err != nil {
			return NewCommandError("config", "path", "cannot resolve config path", err)
		}
		fmt.Fprintln(env.Stdout, path)
		return nil

	case "init":
		return initConfig(args, env)

	case "get":
		pos := args.Positional()
		if len(pos) < 2 {
			return NewUsageError("config get requires a key (one of: %s)", strings.Join(config.GetAllKeys(), ", "))
		}
		value, err := env.Config.Get(pos[1])
		if err != nil {
			return NewValidationError("key", pos[1], err.Error())
		}
		if args.JSON {
			return NewJSONResponse("config get", map[string]any{"key": pos[1], "value": value}).Write(env.Stdout)
		}
		fmt.Fprintln(env.Stdout, value)
		return nil

	case "set":
		return setConfig(args, env)

	default:
		return NewUsageError("unknown config subcommand %q (expected show, path, init, get or set)", args.Subcommand)
	}
}

// initConfig writes the default configuration unless a file exists.
func initConfig(args Args, env *Env) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return NewCommandError("config", "init", "cannot resolve config path", err)
	}
	if _, err := os.Stat(path); err == nil && !args.BoolFlag("force", "f") {
		return NewCommandError("config", "init", "config file already exists at "+path+" (use --force to overwrite)", nil)
	}
	if err := config.Save(config.Default()); err != nil {
		return NewCommandError("config", "init", "cannot write config", err)
	}
	fmt.Fprintf(env.Stdout, "Wrote %s\n", path)
	return nil
}

// setConfig updates one key in the config file. Only the file is read, so
// environment overrides are never written back.
func setConfig(args Args, env *Env) error {
	pos := args.Positional()
	if len(pos) < 3 {
		return NewUsageError("config set requires a key and a value")
	}
	key, value := pos[1], strings.Join(pos[2:], " ")

	path, err := config.ActivePath()
	if err != nil {
		return NewCommandError("config", "set", "cannot resolve config path", err)
	}
	cfg := config.Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if strings.HasSuffix(path, ".json") {
			err = config.LoadJSON(cfg, path)
		} else {
			err = config.LoadTOML(cfg, path)
		}
		if err != nil {
			return NewCommandError("config", "set", "cannot read "+path, err)
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return NewCommandError("config", "set", "cannot read "+path, statErr)
	}

	if err := cfg.Set(key, value); err != nil {
		return NewValidationError("key", key, err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.EnsureConfigDir(); err != nil {
		return NewCommandError("config", "set", "cannot create config directory", err)
	}
	if strings.HasSuffix(path, ".json") {
		err = config.SaveJSON(cfg, path)
	} else {
		err = config.SaveTOML(cfg, path)
	}
	if err != nil {
		return NewCommandError("config", "set", "cannot write config", err)
	}
	fmt.Fprintf(env.Stdout, "%s = %s\n", key, value)
	return nil
}
