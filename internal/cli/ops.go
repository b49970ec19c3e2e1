// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// maxStdinBytes bounds how much input is read from a pipe.
const maxStdinBytes = 1 << 20

// certificateFlags maps each subject field to its flag spellings.
var certificateFlags = map[operation.Field][]string{
	operation.FieldCommonName:         {"cn", "common-name"},
	operation.FieldCountry:            {"country", "c"},
	operation.FieldState:              {"state", "st"},
	operation.FieldLocality:           {"locality", "l"},
	operation.FieldOrganization:       {"org", "organization", "o"},
	operation.FieldOrganizationalUnit: {"ou", "organizational-unit"},
	operation.FieldEmail:              {"email", "e"},
}

// runOperation performs one encrypt, decrypt, sign, verify or cert call
// through a single-slot page, so the CLI shares validation, error
// translation and algorithm capture with the TUI.
func runOperation(ctx context.Context, args Args, env *Env) error {
	kind, _ := args.Command.Kind()
	cfg := workflow.PageConfig{
		Name:  "cli",
		Title: kind.Label(),
		Slots: []workflow.SlotSpec{{Name: string(kind), Kind: kind}},
	}
	page := workflow.NewPage(cfg, newClient(args, env.Config),
		workflow.WithAlgorithm(algorithm(args, env.Config)),
		workflow.WithNotifier(verboseNotifier(args, env.Stderr)),
	)
	defer page.Close()

	in, err := operationInput(kind, args, env, page)
	if err != nil {
		return err
	}

	if err := page.Run(ctx, string(kind), in); err != nil {
		return err
	}

	slot := page.Slot(string(kind))
	op := slot.Operation()
	out, _ := slot.Output()

	var savedPath string
	if kind == operation.KindIssueCertificate && args.BoolFlag("save") {
		saved, err := saveCertificate(env, op.Input.Certificate.CommonName, out.Text)
		if err != nil {
			return err
		}
		savedPath = saved
	}

	if err := printOutput(args, env, op, out, savedPath); err != nil {
		return err
	}
	if out.Verdict() == operation.VerdictInvalid {
		return ErrSignatureInvalid
	}
	return nil
}

// operationInput collects the input for kind from flags, arguments and
// stdin. Certificate fields go through the page form so the country rule
// applies.
func operationInput(kind operation.Kind, args Args, env *Env, page *workflow.Page) (operation.Input, error) {
	var in operation.Input
	switch kind {
	case operation.KindEncrypt, operation.KindSign:
		msg, err := readText(args, env)
		if err != nil {
			return in, err
		}
		in.Message = msg
	case operation.KindDecrypt:
		text, err := readText(args, env)
		if err != nil {
			return in, err
		}
		in.CipherText = text
	case operation.KindVerifySignature:
		in.Signature = args.Flag("signature", "s", "sig")
		msg, err := readText(args, env)
		if err != nil {
			return in, err
		}
		in.Message = msg
	case operation.KindIssueCertificate:
		for _, f := range operation.Fields {
			value := args.Flag(certificateFlags[f]...)
			if value == "" {
				continue
			}
			if err := page.UpdateCertificateField(f, value); err != nil {
				return in, NewValidationError(f.Name(), value, err.Error())
			}
		}
	}
	return in, nil
}

// readText returns the positional arguments joined by spaces, or stdin when
// the argument is "-" or absent and stdin is not a terminal. A single
// trailing newline is stripped from piped input.
func readText(args Args, env *Env) (string, error) {
	pos := args.Positional()
	if (len(pos) == 1 && pos[0] == "-") || (len(pos) == 0 && env.Stdin != nil && !isTerminal(env.Stdin)) {
		data, err := io.ReadAll(io.LimitReader(env.Stdin, maxStdinBytes))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		text := strings.TrimSuffix(string(data), "\n")
		return strings.TrimSuffix(text, "\r"), nil
	}
	return strings.Join(pos, " "), nil
}

// printOutput writes the result of op. Plain output is the bare result so
// it can be piped into the next command.
func printOutput(args Args, env *Env, op *operation.Operation, out operation.Output, savedPath string) error {
	if args.JSON {
		data := OperationData{
			ID:         op.ID,
			Operation:  string(op.Kind),
			Algorithm:  string(op.Algorithm),
			DurationMS: op.Duration().Milliseconds(),
			SavedPath:  savedPath,
		}
		if out.Kind == operation.KindVerifySignature {
			valid := out.Valid
			data.Valid = &valid
		} else {
			data.Output = out.Text
		}
		return NewJSONResponse(args.Command.String(), data).Write(env.Stdout)
	}

	switch out.Verdict() {
	case operation.VerdictValid:
		fmt.Fprintln(env.Stdout, SuccessStyle.Render(out.Display()))
	case operation.VerdictInvalid:
		fmt.Fprintln(env.Stdout, WarningStyle.Render(out.Display()))
	default:
		fmt.Fprint(env.Stdout, out.Text)
		if !strings.HasSuffix(out.Text, "\n") {
			fmt.Fprintln(env.Stdout)
		}
	}
	if savedPath != "" {
		fmt.Fprintf(env.Stderr, "Certificate saved to %s\n", savedPath)
	}
	return nil
}

// saveCertificate exports pem through the certificate ledger.
func saveCertificate(env *Env, commonName, pem string) (string, error) {
	store, err := openStore(env.Config)
	if err != nil {
		return "", NewCommandError("cert", "save", "cannot open certificate ledger", err)
	}
	defer store.Close()

	saved, err := store.Export(commonName, pem)
	if err != nil {
		return "", NewCommandError("cert", "save", "cannot export certificate", err)
	}
	return saved.Path, nil
}

// verboseNotifier prints notices to w in verbose mode; otherwise the
// returned error or the printed result is the only output.
func verboseNotifier(args Args, w io.Writer) workflow.Notifier {
	if !args.Verbose {
		return nil
	}
	return workflow.NotifierFunc(func(n workflow.Notice) {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Text)
	})
}
