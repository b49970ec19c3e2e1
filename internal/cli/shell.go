// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/styles"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/util"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// Shell slot names beyond the shared ones.
const (
	slotVerifyLast = "verify-last"
)

// ShellPage backs the interactive shell. "verify" without a signature
// checks the output of the last "sign".
var ShellPage = workflow.PageConfig{
	Name:  "shell",
	Title: "Shell",
	Slots: []workflow.SlotSpec{
		{Name: workflow.SlotEncrypt, Kind: operation.KindEncrypt},
		{Name: workflow.SlotDecrypt, Kind: operation.KindDecrypt},
		{Name: workflow.SlotSign, Kind: operation.KindSign},
		{Name: workflow.SlotVerify, Kind: operation.KindVerifySignature},
		{
			Name:           slotVerifyLast,
			Kind:           operation.KindVerifySignature,
			SignatureFrom:  workflow.SlotSign,
			InvalidMessage: "Sign a message first, or pass a signature with -s",
		},
		{Name: workflow.SlotCertificate, Kind: operation.KindIssueCertificate},
	},
}

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of shell input.
type lineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ShellCLI provides input history and line editing for the shell.
type ShellCLI struct {
	line        *liner.State
	historyFile string
}

// NewShellCLI creates a ShellCLI and loads the saved history.
func NewShellCLI() *ShellCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ShellCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "shell_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ShellCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ShellCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history with owner-only permissions.
func (c *ShellCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ShellCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// scanReader reads lines from a non-terminal stream.
type scanReader struct {
	sc     *bufio.Scanner
	prompt io.Writer
}

func newScanReader(r io.Reader, prompt io.Writer) *scanReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxStdinBytes)
	return &scanReader{sc: sc, prompt: prompt}
}

func (r *scanReader) ReadInput(prompt string) (string, error) {
	fmt.Fprint(r.prompt, prompt)
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}

func (r *scanReader) Close() {}

// =============================================================================
// SHELL
// =============================================================================

// Shell is the line-oriented front end over ShellPage.
type Shell struct {
	page  *workflow.Page
	input lineReader
	out   io.Writer
	err   io.Writer
	cfg   *config.Config
}

// NewShell creates a shell over page. Notices raised by the page are
// printed to errOut.
func NewShell(page *workflow.Page, input lineReader, out, errOut io.Writer, cfg *config.Config) *Shell {
	s := &Shell{page: page, input: input, out: out, err: errOut, cfg: cfg}
	page.SetNotifier(workflow.NotifierFunc(s.printNotice))
	return s
}

// runShell starts the shell on the process terminal, or on env.Stdin when
// it is not the terminal.
func runShell(ctx context.Context, args Args, env *Env) error {
	page := workflow.NewPage(ShellPage, newClient(args, env.Config),
		workflow.WithAlgorithm(algorithm(args, env.Config)))
	defer page.Close()

	var input lineReader
	if env.Stdin == os.Stdin && isTerminal(env.Stdin) {
		input = NewShellCLI()
	} else {
		input = newScanReader(env.Stdin, promptWriter(env.Stdout))
	}
	defer input.Close()

	if isTerminal(env.Stdout) {
		fmt.Fprintln(env.Stdout, TitleStyle.Render("cryptodesk shell"))
		fmt.Fprintf(env.Stdout, "Service %s, algorithm %s. Type 'help' for commands.\n\n",
			newClient(args, env.Config).BaseURL(), page.Algorithm().Get().DisplayName())
	}
	return NewShell(page, input, env.Stdout, env.Stderr, env.Config).Run(ctx)
}

// Run reads and executes commands until exit, EOF or Ctrl+C.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := s.input.ReadInput(s.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !s.Exec(ctx, line) {
			return nil
		}
	}
}

func (s *Shell) prompt() string {
	return fmt.Sprintf("cryptodesk(%s)> ", s.page.Algorithm().Get())
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "exit", "quit", "q":
		return false
	case "help", "?":
		s.printHelp()
	case "alg", "algorithm":
		s.setAlgorithm(rest)
	case "encrypt", "enc":
		s.run(ctx, workflow.SlotEncrypt, operation.Input{Message: rest})
	case "decrypt", "dec":
		s.run(ctx, workflow.SlotDecrypt, operation.Input{CipherText: rest})
	case "sign":
		s.run(ctx, workflow.SlotSign, operation.Input{Message: rest})
	case "verify":
		s.verify(ctx, rest)
	case "set":
		s.setField(rest)
	case "form":
		s.printForm()
	case "cert", "certificate":
		s.run(ctx, workflow.SlotCertificate, operation.Input{})
	case "save":
		s.save()
	case "show", "last":
		s.printResults()
	default:
		s.printError(fmt.Errorf("unknown command %q (type 'help')", cmd))
	}
	return true
}

// run performs one operation and prints its output. Failures were already
// reported as notices.
func (s *Shell) run(ctx context.Context, slot string, in operation.Input) {
	err := s.page.Run(ctx, slot, in)
	var opErr *workflow.OperationError
	var invalid *operation.ValidationError
	switch {
	case err == nil:
		if out, ok := s.page.Slot(slot).Output(); ok && out.Verdict() == operation.VerdictNone {
			fmt.Fprintln(s.out, strings.TrimSuffix(out.Text, "\n"))
		}
	case errors.As(err, &opErr), errors.As(err, &invalid):
	default:
		s.printError(err)
	}
}

// verify accepts "verify -s SIG message" or "verify message"; the latter
// checks the last signature produced by sign.
func (s *Shell) verify(ctx context.Context, rest string) {
	if sig, msg, ok := cutFlag(rest, "-s", "--signature"); ok {
		s.run(ctx, workflow.SlotVerify, operation.Input{Message: msg, Signature: sig})
		return
	}
	s.run(ctx, slotVerifyLast, operation.Input{Message: rest})
}

// cutFlag splits "FLAG VALUE rest" into VALUE and rest.
func cutFlag(s string, names ...string) (value, rest string, ok bool) {
	first, after, _ := strings.Cut(s, " ")
	for _, name := range names {
		if first == name {
			value, rest, _ = strings.Cut(strings.TrimSpace(after), " ")
			return value, strings.TrimSpace(rest), true
		}
	}
	return "", s, false
}

func (s *Shell) setAlgorithm(arg string) {
	alg := s.page.Algorithm()
	switch strings.ToLower(arg) {
	case "":
		fmt.Fprintf(s.out, "Algorithm: %s\n", alg.Get().DisplayName())
		return
	case "toggle":
		alg.Toggle()
	default:
		a, err := operation.ParseAlgorithm(arg)
		if err != nil {
			s.printError(err)
			return
		}
		alg.Set(a)
	}
	fmt.Fprintf(s.out, "Algorithm set to %s\n", alg.Get().DisplayName())
}

func (s *Shell) setField(rest string) {
	name, value, _ := strings.Cut(rest, " ")
	field, ok := lookupField(name)
	if !ok {
		names := make([]string, len(operation.Fields))
		for i, f := range operation.Fields {
			names[i] = f.Name()
		}
		s.printError(fmt.Errorf("unknown field %q (one of: %s)", name, strings.Join(names, ", ")))
		return
	}
	// Rejections are reported as notices by the page.
	_ = s.page.UpdateCertificateField(field, strings.TrimSpace(value))
}

// lookupField accepts wire names and the cert command's flag spellings.
func lookupField(name string) (operation.Field, bool) {
	name = strings.ToLower(strings.TrimLeft(name, "-"))
	if f, ok := operation.ParseField(strings.ReplaceAll(name, "-", "_")); ok {
		return f, true
	}
	for f, aliases := range certificateFlags {
		for _, a := range aliases {
			if a == name {
				return f, true
			}
		}
	}
	return 0, false
}

func (s *Shell) save() {
	slot := s.page.Slot(workflow.SlotCertificate)
	out, ok := slot.Output()
	if !ok {
		s.printError(errors.New("generate a certificate before saving"))
		return
	}
	path, err := saveCertificate(&Env{Config: s.cfg}, slot.Operation().Input.Certificate.CommonName, out.Text)
	if err != nil {
		s.printError(err)
		return
	}
	fmt.Fprintf(s.out, "Certificate saved to %s\n", path)
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *Shell) printNotice(n workflow.Notice) {
	text := n.Text
	switch n.Level {
	case workflow.LevelSuccess:
		text = SuccessStyle.Render(styles.StatusIndicators.Success) + " " + text
	case workflow.LevelWarning:
		text = WarningStyle.Render(styles.StatusIndicators.Warning) + " " + text
	case workflow.LevelError:
		text = ErrorStyle.Render(styles.StatusIndicators.Error) + " " + text
	default:
		text = DimStyle.Render(styles.StatusIndicators.Info) + " " + text
	}
	fmt.Fprintln(s.err, text)
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.err, "%s %s\n", ErrorStyle.Render("[Error]"), message(err))
}

func (s *Shell) printForm() {
	form := s.page.Form()
	for _, f := range operation.Fields {
		value := form.Value(f)
		if value == "" {
			value = DimStyle.Render("(empty)")
		}
		fmt.Fprintln(s.out, renderField(f.Label(), value))
	}
}

func (s *Shell) printResults() {
	for _, slot := range s.page.Slots() {
		op := slot.Operation()
		if op == nil {
			continue
		}
		var result string
		switch op.Status {
		case operation.StatusPending:
			result = op.Kind.Progressive()
		case operation.StatusFailed:
			result = ErrorStyle.Render(op.Error)
		case operation.StatusSucceeded:
			result = util.TruncateWidth(util.OneLine(op.Output.Display()), max(GetTerminalWidth()-20, 20))
		}
		label := slot.Name()
		if op.Algorithm != "" {
			label += " (" + string(op.Algorithm) + ")"
		}
		fmt.Fprintln(s.out, renderField(label, result))
	}
}

func (s *Shell) printHelp() {
	cmds := []struct{ cmd, desc string }{
		{"alg [rsa|elgamal|toggle]", "Show or change the algorithm"},
		{"encrypt <message>", "Encrypt a message"},
		{"decrypt <cipher text>", "Decrypt cipher text"},
		{"sign <message>", "Sign a message"},
		{"verify [-s <sig>] <message>", "Verify; without -s uses the last signature"},
		{"set <field> <value>", "Set a certificate field (common_name, country, ...)"},
		{"form", "Show the certificate fields"},
		{"cert", "Issue a certificate from the fields"},
		{"save", "Save the last certificate as <common_name>.pem"},
		{"show", "Show the latest result of each operation"},
		{"exit", "Leave the shell"},
	}
	for _, c := range cmds {
		fmt.Fprintf(s.out, "  %s %s\n", util.PadRight(c.cmd, 30), DimStyle.Render(c.desc))
	}
}
