// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// scriptReader feeds fixed lines and then io.EOF.
type scriptReader struct {
	lines   []string
	prompts []string
	closed  bool
}

func (r *scriptReader) ReadInput(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptReader) Close() { r.closed = true }

type shellRun struct {
	svc    *fakeService
	reader *scriptReader
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	page   *workflow.Page
}

func runScript(t *testing.T, lines ...string) *shellRun {
	t.Helper()
	svc := newFakeService(t)
	tio := newTestIO(t, "")
	client := api.NewClient(&api.ClientConfig{BaseURL: svc.srv.URL})
	page := workflow.NewPage(ShellPage, client)
	t.Cleanup(page.Close)

	sr := &shellRun{
		svc:    svc,
		reader: &scriptReader{lines: lines},
		stdout: tio.stdout,
		stderr: tio.stderr,
		page:   page,
	}
	shell := NewShell(page, sr.reader, sr.stdout, sr.stderr, tio.env.Config)
	require.NoError(t, shell.Run(context.Background()))
	return sr
}

func TestShell_EncryptAndAlgorithm(t *testing.T) {
	sr := runScript(t,
		"encrypt hello  world",
		"alg elgamal",
		"decrypt abc",
		"exit",
		"encrypt never",
	)

	reqs := sr.svc.requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/rsa/encrypt", reqs[0].Path)
	assert.Equal(t, "hello  world", reqs[0].Body["message"])
	assert.Equal(t, "/elgamal/decrypt", reqs[1].Path)

	out := sr.stdout.String()
	assert.Contains(t, out, "ENC(hello  world)\n")
	assert.Contains(t, out, "Algorithm set to ElGamal")
	assert.Contains(t, out, "DEC(abc)\n")
	assert.Contains(t, sr.stderr.String(), "[OK] Message encrypted successfully")
	assert.Equal(t, []string{"cryptodesk(rsa)> ", "cryptodesk(rsa)> ", "cryptodesk(elgamal)> ", "cryptodesk(elgamal)> "}, sr.reader.prompts)
}

func TestShell_VerifyUsesLastSignature(t *testing.T) {
	sr := runScript(t,
		"verify m",
		"sign m",
		"verify m",
		"verify other",
		"verify -s SIG(x) x",
	)

	reqs := sr.svc.requests()
	require.Len(t, reqs, 4)
	assert.Equal(t, "/rsa/sign", reqs[0].Path)
	assert.Equal(t, map[string]any{"message": "m", "signature": "SIG(m)"}, reqs[1].Body)
	assert.Equal(t, map[string]any{"message": "other", "signature": "SIG(m)"}, reqs[2].Body)
	assert.Equal(t, map[string]any{"message": "x", "signature": "SIG(x)"}, reqs[3].Body)

	errOut := sr.stderr.String()
	assert.Contains(t, errOut, "[!] Sign a message first, or pass a signature with -s")
	assert.Contains(t, errOut, "[OK] Signature is valid")
	assert.Contains(t, errOut, "[!] Signature is invalid")
}

func TestShell_EmptyInputSendsNothing(t *testing.T) {
	sr := runScript(t, "encrypt", "decrypt   ", "sign")
	assert.Empty(t, sr.svc.requests())
	assert.Contains(t, sr.stderr.String(), "Please enter a message to encrypt")
	assert.Contains(t, sr.stderr.String(), "Please enter a cipher text to decrypt")
}

func TestShell_CertificateFlow(t *testing.T) {
	sr := runScript(t,
		"cert",
		"set cn alice.example",
		"set country USA",
		"set country US",
		"set state CA",
		"set locality SF",
		"set org Acme",
		"set organizational_unit Eng",
		"set --email alice@example.com",
		"set nickname x",
		"form",
		"save",
		"cert",
		"save",
	)

	reqs := sr.svc.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/generate-certificate", reqs[0].Path)
	assert.Equal(t, "US", reqs[0].Body["country"])

	errOut := sr.stderr.String()
	assert.Contains(t, errOut, "Please fill in all fields: common_name")
	assert.Contains(t, errOut, "Country code must be at most 2 characters")
	assert.Contains(t, errOut, `unknown field "nickname"`)
	assert.Contains(t, errOut, "generate a certificate before saving")

	out := sr.stdout.String()
	assert.Contains(t, out, strings.TrimSuffix(testPEM, "\n"))
	assert.Contains(t, out, "Certificate saved to ")
	assert.Contains(t, out, filepath.Join("certs", "alice.example.pem"))
	assert.Equal(t, "US", sr.page.Form().Value(operation.FieldCountry))
}

func TestShell_BackendError(t *testing.T) {
	svc := newFakeService(t)
	svc.fail("bad key")
	page := workflow.NewPage(ShellPage, api.NewClient(&api.ClientConfig{BaseURL: svc.srv.URL}))
	defer page.Close()

	var stdout, stderr bytes.Buffer
	shell := NewShell(page, &scriptReader{lines: []string{"decrypt x", "show"}}, &stdout, &stderr, nil)
	require.NoError(t, shell.Run(context.Background()))

	assert.Contains(t, stderr.String(), "[X] bad key")
	assert.Contains(t, stdout.String(), "bad key")
	assert.NotContains(t, stderr.String(), "[Error]")
}

func TestShell_UnknownCommandAndHelp(t *testing.T) {
	sr := runScript(t, "frobnicate", "help", "# comment", "alg", "alg toggle", "alg dsa")
	assert.Contains(t, sr.stderr.String(), `unknown command "frobnicate"`)
	assert.Contains(t, sr.stdout.String(), "verify [-s <sig>] <message>")
	assert.Contains(t, sr.stdout.String(), "Algorithm: RSA")
	assert.Contains(t, sr.stdout.String(), "Algorithm set to ElGamal")
	assert.Contains(t, sr.stderr.String(), "dsa")
	assert.Equal(t, operation.AlgorithmElGamal, sr.page.Algorithm().Get())
}

func TestShell_FromStdin(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "sign piped\nexit\n")

	require.NoError(t, tio.run("shell", "--url", svc.srv.URL))
	assert.Equal(t, "SIG(piped)\n", tio.stdout.String())
}

func TestCutFlag(t *testing.T) {
	value, rest, ok := cutFlag("-s abc hello world", "-s")
	assert.True(t, ok)
	assert.Equal(t, "abc", value)
	assert.Equal(t, "hello world", rest)

	_, rest, ok = cutFlag("hello", "-s")
	assert.False(t, ok)
	assert.Equal(t, "hello", rest)
}
