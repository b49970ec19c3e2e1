// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/storage"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/util"
)

// runCerts handles "certs [list|show|forget]".
func runCerts(args Args, env *Env) error {
	store, err := openStore(env.Config)
	if err != nil {
		return NewCommandError("certs", "open", "cannot open certificate ledger", err)
	}
	defer store.Close()

	switch args.Subcommand {
	case "", "list", "ls":
		return listCertificates(args, env, store)
	case "show":
		return showCertificate(args, env, store)
	case "forget", "rm":
		return forgetCertificate(args, env, store)
	default:
		return NewUsageError("unknown certs subcommand %q (expected list, show or forget)", args.Subcommand)
	}
}

func listCertificates(args Args, env *Env, store *storage.CertificateStore) error {
	limit := 0
	if raw := args.Flag("limit", "n"); raw != "" {
		n, err := ParseIntWithValidation(raw, "limit")
		if err != nil {
			return NewValidationError("limit", raw, err.Error())
		}
		limit = n
	}

	certs, err := store.List(limit)
	if err != nil {
		return NewCommandError("certs", "list", "cannot read ledger", err)
	}

	if args.JSON {
		if certs == nil {
			certs = []storage.SavedCertificate{}
		}
		return NewJSONResponse("certs list", certs).Write(env.Stdout)
	}

	if len(certs) == 0 {
		fmt.Fprintln(env.Stdout, DimStyle.Render("No saved certificates."))
		return nil
	}
	fmt.Fprintln(env.Stdout, TitleStyle.Render(fmt.Sprintf("Saved certificates (%d)", len(certs))))
	for _, c := range certs {
		fmt.Fprintf(env.Stdout, "%s  %s  %s  %s\n",
			shortID(c.ID),
			c.SavedAt.Local().Format(time.DateTime),
			util.PadRight(util.TruncateWidth(c.CommonName, 24), 24),
			DimStyle.Render(c.Path),
		)
	}
	return nil
}

func showCertificate(args Args, env *Env, store *storage.CertificateStore) error {
	c, err := findCertificate(args, store)
	if err != nil {
		return err
	}

	pem, readErr := os.ReadFile(c.Path)
	if args.JSON {
		data := struct {
			storage.SavedCertificate
			PEM string `json:"pem,omitempty"`
		}{SavedCertificate: *c, PEM: string(pem)}
		return NewJSONResponse("certs show", data).Write(env.Stdout)
	}

	fmt.Fprintln(env.Stdout, renderField("ID", c.ID))
	fmt.Fprintln(env.Stdout, renderField("Common Name", c.CommonName))
	fmt.Fprintln(env.Stdout, renderField("Path", c.Path))
	fmt.Fprintln(env.Stdout, renderField("SHA-256", c.SHA256))
	fmt.Fprintln(env.Stdout, renderField("Size", fmt.Sprintf("%d bytes", c.Size)))
	fmt.Fprintln(env.Stdout, renderField("Saved", c.SavedAt.Local().Format(time.RFC1123)))
	if readErr != nil {
		fmt.Fprintln(env.Stdout, WarningStyle.Render("File unavailable: "+readErr.Error()))
		return nil
	}
	fmt.Fprintln(env.Stdout)
	fmt.Fprint(env.Stdout, string(pem))
	return nil
}

func forgetCertificate(args Args, env *Env, store *storage.CertificateStore) error {
	c, err := findCertificate(args, store)
	if err != nil {
		return err
	}
	if err := store.Forget(c.ID); err != nil {
		return NewCommandError("certs", "forget", "cannot update ledger", err)
	}
	if args.JSON {
		return NewJSONResponse("certs forget", map[string]string{"id": c.ID}).Write(env.Stdout)
	}
	fmt.Fprintf(env.Stdout, "Forgot %s (%s); %s was left in place\n", shortID(c.ID), c.CommonName, c.Path)
	return nil
}

// findCertificate resolves the ID argument, accepting a unique prefix.
func findCertificate(args Args, store *storage.CertificateStore) (*storage.SavedCertificate, error) {
	pos := args.Positional()
	if len(pos) < 2 {
		return nil, NewUsageError("certs %s requires a certificate ID", args.Subcommand)
	}
	id := pos[1]

	c, err := store.Get(id)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, NewCommandError("certs", args.Subcommand, "cannot read ledger", err)
	}

	all, err := store.List(0)
	if err != nil {
		return nil, NewCommandError("certs", args.Subcommand, "cannot read ledger", err)
	}
	var match *storage.SavedCertificate
	for i := range all {
		if strings.HasPrefix(all[i].ID, id) {
			if match != nil {
				return nil, NewValidationError("certificate ID", id, "prefix is ambiguous")
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, &NotFoundError{Resource: "certificate", ID: id}
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
