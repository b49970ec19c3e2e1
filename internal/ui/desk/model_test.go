// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/storage"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/styles"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type sentCall struct {
	kind      operation.Kind
	algorithm operation.Algorithm
	input     operation.Input
}

type fakeTransport struct {
	mu     sync.Mutex
	calls  []sentCall
	result func(operation.Kind, operation.Input) api.Result
}

func (f *fakeTransport) Call(_ context.Context, kind operation.Kind, alg operation.Algorithm, in operation.Input) api.Result {
	f.mu.Lock()
	f.calls = append(f.calls, sentCall{kind: kind, algorithm: alg, input: in})
	f.mu.Unlock()
	if f.result != nil {
		return f.result(kind, in)
	}
	switch kind {
	case operation.KindVerifySignature:
		return api.Result{Output: operation.Output{Kind: kind, Valid: true}}
	case operation.KindIssueCertificate:
		return api.Result{Output: operation.Output{Kind: kind, Text: "-----BEGIN CERTIFICATE-----\nMIIB\n-----END CERTIFICATE-----\n"}}
	}
	return api.Result{Output: operation.Output{Kind: kind, Text: strings.ToUpper(string(kind)) + ":" + in.Message + in.CipherText}}
}

func (f *fakeTransport) sent() []sentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentCall(nil), f.calls...)
}

type fakeExporter struct {
	commonName string
	pem        string
}

func (f *fakeExporter) Export(commonName, pem string) (*storage.SavedCertificate, error) {
	f.commonName, f.pem = commonName, pem
	return &storage.SavedCertificate{CommonName: commonName, Path: "/tmp/" + commonName + ".pem"}, nil
}

func newTestModel(t *testing.T, transport workflow.Transport, opts ...Option) Model {
	t.Helper()
	opts = append([]Option{WithTheme(styles.NewTheme("dark"))}, opts...)
	m := New(transport, opts...)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return next.(Model)
}

// send applies msg and returns the model plus the messages produced by the
// command it returned. Timer commands are not run.
func send(t *testing.T, m Model, msg tea.Msg) (Model, []tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), drain(cmd)
}

func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// apply feeds the app's own messages back in, as the runtime would.
func apply(t *testing.T, m Model, msgs []tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		switch msg.(type) {
		case completionMsg, certSavedMsg, clipboardMsg:
			m, _ = send(t, m, msg)
		}
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, []tea.Msg) {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: k})
}

func tabs(t *testing.T, m Model, n int) Model {
	t.Helper()
	for i := 0; i < n; i++ {
		m, _ = press(t, m, tea.KeyTab)
	}
	return m
}

func hasToast(m Model, level workflow.Level, text string) bool {
	for _, toast := range m.Toasts() {
		if toast.Level == level && strings.Contains(toast.Text, text) {
			return true
		}
	}
	return false
}

// =============================================================================
// TESTS
// =============================================================================

func TestEncryptRunsThroughCommand(t *testing.T) {
	transport := &fakeTransport{}
	m := newTestModel(t, transport)

	m = typeText(t, m, "hello")
	m, msgs := press(t, m, tea.KeyEnter)

	assert.True(t, m.Page("encrypt").Slot(workflow.SlotEncrypt).Pending(), "slot should be pending until the completion is applied")
	assert.Contains(t, m.View(), "Encrypting...")

	m = apply(t, m, msgs)

	calls := transport.sent()
	require.Len(t, calls, 1)
	assert.Equal(t, operation.KindEncrypt, calls[0].kind)
	assert.Equal(t, operation.AlgorithmRSA, calls[0].algorithm)
	assert.Equal(t, "hello", calls[0].input.Message)

	out, ok := m.Page("encrypt").Slot(workflow.SlotEncrypt).Output()
	require.True(t, ok)
	assert.Equal(t, "ENCRYPT:hello", out.Text)
	assert.Contains(t, m.View(), "ENCRYPT:hello")
	assert.True(t, hasToast(m, workflow.LevelSuccess, "Message encrypted successfully"))
}

func TestEmptyDecryptNeverCallsService(t *testing.T) {
	transport := &fakeTransport{}
	m := newTestModel(t, transport)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
	require.Equal(t, "decrypt", m.ActivePage())

	m, msgs := press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)

	assert.Empty(t, transport.sent())
	assert.True(t, hasToast(m, workflow.LevelWarning, ""), "validation should raise a warning notice")
	assert.Equal(t, operation.StatusIdle, m.Page("decrypt").Slot(workflow.SlotDecrypt).Status())
}

func TestFailureShowsBackendDetail(t *testing.T) {
	transport := &fakeTransport{
		result: func(kind operation.Kind, _ operation.Input) api.Result {
			return api.Result{Err: &api.Error{Type: api.ErrTypeStatus, Status: 400, Detail: "bad key"}}
		},
	}
	m := newTestModel(t, transport)

	m = typeText(t, m, "hello")
	m, msgs := press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)

	slot := m.Page("encrypt").Slot(workflow.SlotEncrypt)
	assert.Equal(t, "bad key", slot.Err())
	_, ok := slot.Output()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "bad key")
	assert.True(t, hasToast(m, workflow.LevelError, "bad key"))
}

func TestAlgorithmToggleIsPerPageAndForwardOnly(t *testing.T) {
	transport := &fakeTransport{}
	m := newTestModel(t, transport)

	m = typeText(t, m, "hello")
	m, inflight := press(t, m, tea.KeyEnter)

	m, _ = press(t, m, tea.KeyCtrlA)
	assert.Equal(t, operation.AlgorithmElGamal, m.Page("encrypt").Algorithm().Get())
	assert.Equal(t, operation.AlgorithmRSA, m.Page("decrypt").Algorithm().Get())
	assert.Contains(t, m.View(), "ElGamal")

	m = apply(t, m, inflight)
	m = tabs(t, m, 1)
	m = typeText(t, m, "sign me")
	m, msgs := press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)

	calls := transport.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, operation.AlgorithmRSA, calls[0].algorithm, "in-flight call keeps its algorithm")
	assert.Equal(t, operation.AlgorithmElGamal, calls[1].algorithm)
	assert.Equal(t, operation.KindSign, calls[1].kind)
}

func TestCountryRejectsThirdKeystroke(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})

	// encrypt, sign, verify messages, then common name, then country.
	m = tabs(t, m, 4)
	for _, r := range "USA" {
		m = typeText(t, m, string(r))
	}

	assert.Equal(t, "US", m.Page("encrypt").Form().Value(operation.FieldCountry))
	assert.Equal(t, "US", m.current().focused().input.Value())
	assert.True(t, hasToast(m, workflow.LevelWarning, "Country code must be at most 2 characters"))
}

func TestVerifyReusesSignature(t *testing.T) {
	transport := &fakeTransport{}
	m := newTestModel(t, transport)

	m = tabs(t, m, 1)
	m = typeText(t, m, "m")
	m, msgs := press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)

	m = tabs(t, m, 1)
	m = typeText(t, m, "m")
	m, msgs = press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)

	calls := transport.sent()
	require.Len(t, calls, 2)
	assert.Equal(t, operation.KindVerifySignature, calls[1].kind)
	assert.Equal(t, "SIGN:m", calls[1].input.Signature)
	assert.Contains(t, m.View(), "Signature is valid")
}

func TestNegativeVerdictIsNotAFailure(t *testing.T) {
	transport := &fakeTransport{
		result: func(kind operation.Kind, _ operation.Input) api.Result {
			return api.Result{Output: operation.Output{Kind: kind, Valid: false}}
		},
	}
	m := newTestModel(t, transport)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3"), Alt: true})
	m = typeText(t, m, "m")
	m = tabs(t, m, 1)
	m = typeText(t, m, "s")
	m, msgs := press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)

	slot := m.Page("verify").Slot(workflow.SlotVerify)
	assert.Equal(t, operation.StatusSucceeded, slot.Status())
	assert.Empty(t, slot.Err())
	assert.Contains(t, m.View(), "Signature is invalid")
}

func TestNavigationModeSwitchesPages(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})

	m = typeText(t, m, "3")
	assert.Equal(t, "encrypt", m.ActivePage(), "digits type into a focused field")

	m, _ = press(t, m, tea.KeyEsc)
	m = typeText(t, m, "3")
	assert.Equal(t, "verify", m.ActivePage())

	m, _ = press(t, m, tea.KeyCtrlLeft)
	assert.Equal(t, "decrypt", m.ActivePage())
	m, _ = press(t, m, tea.KeyCtrlRight)
	assert.Equal(t, "verify", m.ActivePage())
}

func TestSaveCertificate(t *testing.T) {
	exporter := &fakeExporter{}
	m := newTestModel(t, &fakeTransport{}, WithExporter(exporter))

	m, _ = press(t, m, tea.KeyCtrlS)
	assert.True(t, hasToast(m, workflow.LevelWarning, "Generate a certificate before saving"))

	values := []string{"example.com", "US", "CA", "SF", "Acme", "Eng", "a@example.com"}
	m = tabs(t, m, 3)
	for i, v := range values {
		m = typeText(t, m, v)
		if i < len(values)-1 {
			m = tabs(t, m, 1)
		}
	}
	m, msgs := press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)
	_, ok := m.Page("encrypt").Slot(workflow.SlotCertificate).Output()
	require.True(t, ok)

	m, msgs = press(t, m, tea.KeyCtrlS)
	m = apply(t, m, msgs)

	assert.Equal(t, "example.com", exporter.commonName)
	assert.Contains(t, exporter.pem, "BEGIN CERTIFICATE")
	assert.True(t, hasToast(m, workflow.LevelSuccess, "/tmp/example.com.pem"))
}

func TestCopyOutput(t *testing.T) {
	var copied string
	m := newTestModel(t, &fakeTransport{}, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	m, _ = press(t, m, tea.KeyCtrlY)
	assert.True(t, hasToast(m, workflow.LevelWarning, "Nothing to copy"))

	m = typeText(t, m, "hi")
	m, msgs := press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)

	m, msgs = press(t, m, tea.KeyCtrlY)
	m = apply(t, m, msgs)
	assert.Equal(t, "ENCRYPT:hi", copied)
	assert.True(t, hasToast(m, workflow.LevelInfo, "Copied"))

	failing := newTestModel(t, &fakeTransport{}, WithClipboard(func(string) error {
		return errors.New("no clipboard")
	}))
	failing = typeText(t, failing, "hi")
	failing, msgs = press(t, failing, tea.KeyEnter)
	failing = apply(t, failing, msgs)
	failing, msgs = press(t, failing, tea.KeyCtrlY)
	failing = apply(t, failing, msgs)
	assert.True(t, hasToast(failing, workflow.LevelError, "no clipboard"))
}

func TestConfigReloadSwapsTransport(t *testing.T) {
	var hits int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		assert.Equal(t, "/rsa/encrypt", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"encryptedMessage":"from-server"}`))
	}))
	defer server.Close()

	old := &fakeTransport{}
	m := newTestModel(t, old)

	cfg := config.Default()
	cfg.Service.BaseURL = server.URL
	m, _ = send(t, m, ConfigReloadedMsg{Config: cfg})
	assert.True(t, hasToast(m, workflow.LevelInfo, "Configuration reloaded"))
	assert.Contains(t, m.View(), strings.TrimPrefix(server.URL, "http://"))

	m = typeText(t, m, "hello")
	m, msgs := press(t, m, tea.KeyEnter)
	m = apply(t, m, msgs)

	assert.Empty(t, old.sent())
	mu.Lock()
	assert.Equal(t, 1, hits)
	mu.Unlock()
	out, ok := m.Page("encrypt").Slot(workflow.SlotEncrypt).Output()
	require.True(t, ok)
	assert.Equal(t, "from-server", out.Text)

	m, _ = send(t, m, ConfigReloadedMsg{Err: errors.New("bad toml")})
	assert.True(t, hasToast(m, workflow.LevelWarning, "bad toml"))
}

func TestQuitDropsLateCompletions(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})

	m = typeText(t, m, "hello")
	m, inflight := press(t, m, tea.KeyEnter)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Page("encrypt").Closed())

	m = apply(t, m, inflight)
	assert.True(t, m.Page("encrypt").Slot(workflow.SlotEncrypt).Pending(), "completion after close is ignored")
}

func TestHelpOverlay(t *testing.T) {
	m := newTestModel(t, &fakeTransport{})

	m, _ = press(t, m, tea.KeyF1)
	assert.True(t, m.help.visible)
	assert.NotEmpty(t, m.View())

	m = typeText(t, m, "x")
	assert.Empty(t, m.current().focused().input.Value(), "keys do not reach fields while help is shown")

	m, _ = press(t, m, tea.KeyEsc)
	assert.False(t, m.help.visible)

	md := helpMarkdown(DefaultKeyMap())
	for _, group := range DefaultKeyMap().FullHelp() {
		for _, b := range group {
			assert.Contains(t, md, b.Help().Desc)
		}
	}
}

func TestStartPageOption(t *testing.T) {
	m := newTestModel(t, &fakeTransport{}, WithStartPage("verify"), WithAlgorithm(operation.AlgorithmElGamal))
	assert.Equal(t, "verify", m.ActivePage())
	assert.Equal(t, operation.AlgorithmElGamal, m.Page("decrypt").Algorithm().Get())
}

func TestPageIndex(t *testing.T) {
	assert.Equal(t, 0, pageIndex("1"))
	assert.Equal(t, 2, pageIndex("alt+3"))
	assert.Equal(t, -1, pageIndex("x"))
	assert.Equal(t, -1, pageIndex(""))
}

func TestClipLines(t *testing.T) {
	assert.Equal(t, "a\nb", clipLines("a\nb\nc", 2))
	assert.Equal(t, "a", clipLines("a", 5))
	assert.Equal(t, "", clipLines("a", 0))
}
