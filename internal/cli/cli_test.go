// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/storage"
)

const testPEM = "-----BEGIN CERTIFICATE-----\nMIIBszCCAVmgAwIBAgIU\n-----END CERTIFICATE-----\n"

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

// =============================================================================
// FAKE SERVICE
// =============================================================================

type hit struct {
	Path string
	Body map[string]any
}

// fakeService answers like the crypto backend with deterministic outputs:
// a signature of m is "SIG(m)" and verifies only against m.
type fakeService struct {
	mu     sync.Mutex
	hits   []hit
	detail string
	srv    *httptest.Server
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	f := &fakeService{}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	str := func(k string) string {
		s, _ := body[k].(string)
		return s
	}

	f.mu.Lock()
	f.hits = append(f.hits, hit{Path: r.URL.Path, Body: body})
	detail := f.detail
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if detail != "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
		return
	}

	var resp any
	switch {
	case strings.HasSuffix(r.URL.Path, "/encrypt"):
		resp = map[string]string{"encryptedMessage": "ENC(" + str("message") + ")"}
	case strings.HasSuffix(r.URL.Path, "/decrypt"):
		resp = map[string]string{"decryptedMessage": "DEC(" + str("cipherText") + ")"}
	case strings.HasSuffix(r.URL.Path, "/sign"):
		resp = map[string]string{"signature": "SIG(" + str("message") + ")"}
	case strings.HasSuffix(r.URL.Path, "/verify_signature"):
		resp = map[string]bool{"isValid": str("signature") == "SIG("+str("message")+")"}
	case r.URL.Path == "/generate-certificate":
		resp = map[string]string{"certificate": testPEM}
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (f *fakeService) requests() []hit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]hit(nil), f.hits...)
}

func (f *fakeService) fail(detail string) {
	f.mu.Lock()
	f.detail = detail
	f.mu.Unlock()
}

// =============================================================================
// HELPERS
// =============================================================================

type testIO struct {
	env    *Env
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestIO(t *testing.T, stdin string) *testIO {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Export.CertificateDir = filepath.Join(dir, "certs")
	cfg.Export.LedgerPath = filepath.Join(dir, "certs.db")

	tio := &testIO{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	tio.env = &Env{Stdout: tio.stdout, Stderr: tio.stderr, Stdin: strings.NewReader(stdin), Config: cfg}
	return tio
}

func (tio *testIO) run(argv ...string) error {
	return Run(context.Background(), ParseArgs(argv), tio.env)
}

func decodeJSON(t *testing.T, out string) (JSONResponse, map[string]any) {
	t.Helper()
	var resp JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

// =============================================================================
// PARSING
// =============================================================================

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"encrypt", "--json", "hello", "--alg=elgamal", "-u", "http://x", "--", "--not-a-flag"}, "json")
	assert.Equal(t, "encrypt", p.Subcommand())
	assert.True(t, p.BoolFlag("json"))
	assert.Equal(t, "elgamal", p.Flag("alg"))
	assert.Equal(t, "http://x", p.Flag("url", "u"))
	assert.Equal(t, []string{"hello", "--not-a-flag"}, p.PositionalFrom(1))

	p = NewArgParser([]string{"decrypt", "-"})
	assert.Equal(t, "-", p.Positional(1))

	p = NewArgParser([]string{"certs", "list", "--limit", "5"})
	assert.Equal(t, 5, p.FlagIntOrDefault("limit", 0))
	assert.Equal(t, 10, p.FlagIntOrDefault("missing", 10))
	assert.True(t, p.HasFlag("--limit"))
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		argv    []string
		want    Command
		wantErr bool
	}{
		{"no args starts the tui", nil, CmdTUI, false},
		{"encrypt", []string{"encrypt", "hi"}, CmdEncrypt, false},
		{"alias", []string{"dec", "x"}, CmdDecrypt, false},
		{"verify", []string{"verify", "-s", "sig", "m"}, CmdVerify, false},
		{"cert", []string{"cert", "--cn", "a"}, CmdCert, false},
		{"version flag", []string{"--version"}, CmdVersion, false},
		{"help flag", []string{"-h"}, CmdHelp, false},
		{"unknown command", []string{"frobnicate"}, CmdHelp, true},
		{"bad algorithm", []string{"encrypt", "--alg", "dsa", "m"}, CmdEncrypt, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := ParseArgs(tt.argv)
			assert.Equal(t, tt.want, args.Command)
			assert.Equal(t, tt.wantErr, args.Err != nil)
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	args := ParseArgs([]string{"--json", "encrypt", "-a", "elgamal", "--url", "http://h:1", "-v", "hello", "world"})
	assert.Equal(t, CmdEncrypt, args.Command)
	assert.True(t, args.JSON)
	assert.True(t, args.Verbose)
	assert.Equal(t, "elgamal", args.Algorithm)
	assert.Equal(t, "http://h:1", args.URL)
	assert.Equal(t, []string{"hello", "world"}, args.Positional())
}

// =============================================================================
// OPERATIONS
// =============================================================================

func TestEncrypt(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "")

	require.NoError(t, tio.run("encrypt", "--url", svc.srv.URL, "hello"))

	reqs := svc.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/rsa/encrypt", reqs[0].Path)
	assert.Equal(t, map[string]any{"message": "hello"}, reqs[0].Body)
	assert.Equal(t, "ENC(hello)\n", tio.stdout.String())
}

func TestEncrypt_StdinAndAlgorithm(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "two words\n")

	require.NoError(t, tio.run("encrypt", "--alg", "elgamal", "--url", svc.srv.URL, "-"))

	reqs := svc.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/elgamal/encrypt", reqs[0].Path)
	assert.Equal(t, "two words", reqs[0].Body["message"])
}

func TestEncrypt_ConfiguredAlgorithm(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "")
	tio.env.Config.UI.DefaultAlgorithm = "elgamal"
	tio.env.Config.Service.BaseURL = svc.srv.URL

	require.NoError(t, tio.run("sign", "m"))
	assert.Equal(t, "/elgamal/sign", svc.requests()[0].Path)
	assert.Equal(t, "SIG(m)\n", tio.stdout.String())
}

func TestDecrypt_EmptyInputSendsNothing(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "   \n")

	err := tio.run("decrypt", "--url", svc.srv.URL)
	require.Error(t, err)

	var verr *operation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a cipher text to decrypt", verr.Message)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Empty(t, svc.requests())
}

func TestOperation_BackendDetail(t *testing.T) {
	svc := newFakeService(t)
	svc.fail("bad key")
	tio := newTestIO(t, "")

	err := tio.run("decrypt", "--url", svc.srv.URL, "zzz")
	require.Error(t, err)
	assert.Equal(t, ExitBackendError, GetExitCode(err))

	var buf bytes.Buffer
	DisplayError(&buf, "decrypt", err, false)
	assert.Equal(t, "Error: bad key\n", buf.String())
	assert.Empty(t, tio.stdout.String())
}

func TestOperation_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	tio := newTestIO(t, "")

	err := tio.run("encrypt", "--url", url, "hello")
	require.Error(t, err)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
	assert.Equal(t, "An error occurred during encryption", message(err))
}

func TestVerify(t *testing.T) {
	svc := newFakeService(t)

	t.Run("valid", func(t *testing.T) {
		tio := newTestIO(t, "")
		require.NoError(t, tio.run("verify", "--alg", "elgamal", "--url", svc.srv.URL, "-s", "SIG(m)", "m"))
		assert.Equal(t, "Signature is valid\n", tio.stdout.String())
	})

	t.Run("invalid is reported, not failed", func(t *testing.T) {
		tio := newTestIO(t, "")
		err := tio.run("verify", "--url", svc.srv.URL, "--signature", "forged", "m")
		require.ErrorIs(t, err, ErrSignatureInvalid)
		assert.Equal(t, ExitInvalidSignature, GetExitCode(err))
		assert.Equal(t, "Signature is invalid\n", tio.stdout.String())
	})

	t.Run("json", func(t *testing.T) {
		tio := newTestIO(t, "")
		require.NoError(t, tio.run("verify", "--json", "--url", svc.srv.URL, "-s", "SIG(m)", "m"))
		resp, data := decodeJSON(t, tio.stdout.String())
		assert.True(t, resp.Success)
		assert.Equal(t, "verify", resp.Command)
		assert.Equal(t, true, data["valid"])
		assert.Equal(t, "verify_signature", data["operation"])
		assert.NotEmpty(t, data["id"])
	})

	t.Run("missing signature", func(t *testing.T) {
		before := len(svc.requests())
		tio := newTestIO(t, "")
		err := tio.run("verify", "--url", svc.srv.URL, "m")
		assert.Equal(t, ExitUsageError, GetExitCode(err))
		assert.Len(t, svc.requests(), before)
	})
}

func TestVerify_Request(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "")

	require.NoError(t, tio.run("verify", "--alg", "elgamal", "--url", svc.srv.URL, "-s", "SIG(m)", "m"))
	reqs := svc.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/elgamal/verify_signature", reqs[0].Path)
	assert.Equal(t, map[string]any{"message": "m", "signature": "SIG(m)"}, reqs[0].Body)
}

// =============================================================================
// CERTIFICATES
// =============================================================================

func certArgs(url string, extra ...string) []string {
	argv := []string{"cert", "--url", url,
		"--cn", "alice.example", "--country", "US", "--state", "CA", "--locality", "SF",
		"--org", "Acme", "--ou", "Eng", "--email", "alice@example.com"}
	return append(argv, extra...)
}

func TestCert_Issue(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "")

	require.NoError(t, tio.run(certArgs(svc.srv.URL)...))

	reqs := svc.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/generate-certificate", reqs[0].Path)
	assert.Equal(t, map[string]any{
		"common_name":         "alice.example",
		"country":             "US",
		"state":               "CA",
		"locality":            "SF",
		"organization":        "Acme",
		"organizational_unit": "Eng",
		"email":               "alice@example.com",
	}, reqs[0].Body)
	assert.Equal(t, testPEM, tio.stdout.String())
}

func TestCert_CountryTooLong(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "")

	argv := certArgs(svc.srv.URL)
	for i, a := range argv {
		if a == "US" {
			argv[i] = "USA"
		}
	}
	err := tio.run(argv...)
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
	assert.Contains(t, err.Error(), "country")
	assert.Empty(t, svc.requests())
}

func TestCert_MissingFields(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "")

	err := tio.run("cert", "--url", svc.srv.URL, "--cn", "a", "--email", "a@b")
	var verr *operation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []operation.Field{
		operation.FieldCountry, operation.FieldState, operation.FieldLocality,
		operation.FieldOrganization, operation.FieldOrganizationalUnit,
	}, verr.Fields)
	assert.Empty(t, svc.requests())
}

func TestCert_SaveAndManage(t *testing.T) {
	svc := newFakeService(t)
	tio := newTestIO(t, "")

	require.NoError(t, tio.run(certArgs(svc.srv.URL, "--save")...))
	path := filepath.Join(tio.env.Config.Export.CertificateDir, "alice.example.pem")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testPEM, string(data))
	assert.Contains(t, tio.stderr.String(), "Certificate saved to "+path)

	tio.stdout.Reset()
	require.NoError(t, tio.run("certs", "list", "--json"))
	resp, _ := decodeJSON(t, tio.stdout.String())
	list, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	entry := list[0].(map[string]any)
	assert.Equal(t, "alice.example", entry["common_name"])
	id := entry["id"].(string)

	tio.stdout.Reset()
	require.NoError(t, tio.run("certs", "show", id[:8]))
	assert.Contains(t, tio.stdout.String(), "alice.example")
	assert.Contains(t, tio.stdout.String(), testPEM)

	tio.stdout.Reset()
	require.NoError(t, tio.run("certs", "forget", id))
	assert.FileExists(t, path)

	err = tio.run("certs", "show", id)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

func TestCerts_Empty(t *testing.T) {
	tio := newTestIO(t, "")
	require.NoError(t, tio.run("certs"))
	assert.Contains(t, tio.stdout.String(), "No saved certificates.")

	err := tio.run("certs", "bogus")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// STATUS, CONFIG, VERSION
// =============================================================================

func TestStatus(t *testing.T) {
	svc := newFakeService(t)

	tio := newTestIO(t, "")
	require.NoError(t, tio.run("status", "--json", "--url", svc.srv.URL))
	resp, data := decodeJSON(t, tio.stdout.String())
	assert.True(t, resp.Success)
	assert.Equal(t, true, data["reachable"])
	assert.Equal(t, svc.srv.URL, data["base_url"])

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tio = newTestIO(t, "")
	err := tio.run("status", "--url", url)
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
	assert.Contains(t, tio.stdout.String(), "unreachable")
}

func TestConfig_SetGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	tio := newTestIO(t, "")

	require.NoError(t, tio.run("config", "set", "ui.theme", "light"))
	cfg, err := config.LoadFromPath(filepath.Join(home, ".cryptodesk", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)

	err = tio.run("config", "set", "ui.default_algorithm", "dsa")
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	tio.stdout.Reset()
	require.NoError(t, tio.run("config", "get", "service.base_url"))
	assert.Equal(t, api.DefaultBaseURL+"\n", tio.stdout.String())

	tio.stdout.Reset()
	require.NoError(t, tio.run("config", "path"))
	assert.Equal(t, filepath.Join(home, ".cryptodesk", "config.toml")+"\n", tio.stdout.String())
}

func TestConfig_Init(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	tio := newTestIO(t, "")

	require.NoError(t, tio.run("config", "init"))
	assert.FileExists(t, filepath.Join(home, ".cryptodesk", "config.toml"))

	require.Error(t, tio.run("config", "init"))
	require.NoError(t, tio.run("config", "init", "--force"))
}

func TestVersion(t *testing.T) {
	tio := newTestIO(t, "")
	require.NoError(t, tio.run("version", "--json"))
	_, data := decodeJSON(t, tio.stdout.String())
	assert.Equal(t, Version, data["version"])
}

func TestRun_ArgsError(t *testing.T) {
	tio := newTestIO(t, "")
	err := tio.run("frobnicate")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"usage", NewUsageError("bad"), ExitUsageError},
		{"not found", &NotFoundError{Resource: "certificate", ID: "x"}, ExitNotFoundError},
		{"ledger not found", storage.ErrNotFound, ExitNotFoundError},
		{"config", config.ValidateErrors{{Field: "ui.theme", Message: "bad"}}, ExitConfigError},
		{"connection", &api.Error{Type: api.ErrTypeConnection}, ExitNetworkError},
		{"canceled", &api.Error{Type: api.ErrTypeCanceled}, ExitTimeoutError},
		{"status", &api.Error{Type: api.ErrTypeStatus, Status: 500}, ExitBackendError},
		{"invalid signature", ErrSignatureInvalid, ExitInvalidSignature},
		{"other", NewCommandError("certs", "list", "boom", nil), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError_JSON(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, "encrypt", NewUsageError("nope"), true)
	resp, _ := decodeJSON(t, buf.String())
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "nope", *resp.Error)
}

func TestConfig_ShowPlainWhenPiped(t *testing.T) {
	tio := newTestIO(t, "")
	require.NoError(t, tio.run("config", "show"))

	var shown config.Config
	require.NoError(t, json.Unmarshal(tio.stdout.Bytes(), &shown))
	assert.Equal(t, tio.env.Config.Service.BaseURL, shown.Service.BaseURL)
}

func TestHighlight(t *testing.T) {
	src := `{"a": 1}`
	assert.Equal(t, src, highlight(src, "no-such-language"))
	out := highlight(src, "json")
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "1")
}
