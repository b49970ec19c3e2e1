// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package desk

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/storage"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/components"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/ui/styles"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// CertificateExporter saves an issued certificate.
type CertificateExporter interface {
	Export(commonName, pem string) (*storage.SavedCertificate, error)
}

// Model is the root Bubble Tea model.
type Model struct {
	theme  *styles.Theme
	keys   KeyMap
	header *components.Header
	status *components.StatusBar
	toasts *components.ToastManager
	help   *helpOverlay

	pages  []*pageView
	active int

	exporter CertificateExporter
	copy     func(string) error
	ctx      context.Context
	now      func() time.Time

	width  int
	height int
}

// Option configures a Model.
type Option func(*options)

type options struct {
	theme     *styles.Theme
	algorithm operation.Algorithm
	startPage string
	baseURL   string
	exporter  CertificateExporter
	copy      func(string) error
	ctx       context.Context
	now       func() time.Time
}

// WithTheme sets the theme.
func WithTheme(t *styles.Theme) Option {
	return func(o *options) { o.theme = t }
}

// WithAlgorithm sets the initial algorithm of every page.
func WithAlgorithm(a operation.Algorithm) Option {
	return func(o *options) { o.algorithm = a }
}

// WithStartPage selects the page shown first, by name.
func WithStartPage(name string) Option {
	return func(o *options) { o.startPage = name }
}

// WithBaseURL sets the service URL shown in the header.
func WithBaseURL(url string) Option {
	return func(o *options) { o.baseURL = url }
}

// WithExporter enables saving issued certificates.
func WithExporter(e CertificateExporter) Option {
	return func(o *options) { o.exporter = e }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(copy func(string) error) Option {
	return func(o *options) { o.copy = copy }
}

// WithContext sets the context network calls run under.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithClock overrides time.Now for spinners and toasts.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates the model with one tab per built-in page, all sending
// operations through transport.
func New(transport workflow.Transport, opts ...Option) Model {
	o := options{
		algorithm: operation.AlgorithmRSA,
		copy:      clipboard.WriteAll,
		ctx:       context.Background(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.theme == nil {
		o.theme = styles.NewTheme("auto")
	}

	m := Model{
		theme:    o.theme,
		keys:     DefaultKeyMap(),
		header:   components.NewHeader(o.theme),
		status:   components.NewStatusBar(o.theme),
		toasts:   components.NewToastManager(),
		help:     &helpOverlay{},
		exporter: o.exporter,
		copy:     o.copy,
		ctx:      o.ctx,
		now:      o.now,
	}
	m.status.Shortcuts = shortcuts(m.keys.ShortHelp())

	toasts, status := m.toasts, m.status
	notifier := workflow.NotifierFunc(func(n workflow.Notice) {
		toasts.Notify(n)
		status.SetMessage(n.Text)
	})

	titles := make([]string, 0, 3)
	for i, cfg := range workflow.PageConfigs() {
		page := workflow.NewPage(cfg, transport,
			workflow.WithAlgorithm(o.algorithm),
			workflow.WithNotifier(notifier),
			workflow.WithClock(o.now),
		)
		pv := newPageView(page)
		m.pages = append(m.pages, pv)
		titles = append(titles, cfg.Title)
		if cfg.Name == o.startPage {
			m.active = i
		}
	}
	m.current().setFocus(0)

	m.header.SetPages(titles, m.active)
	m.header.SetAlgorithm(o.algorithm)
	m.header.SetBaseURL(o.baseURL)
	return m
}

func shortcuts(bindings []key.Binding) []components.Shortcut {
	out := make([]components.Shortcut, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		out = append(out, components.Shortcut{Key: h.Key, Desc: h.Desc})
	}
	return out
}

// Init starts the cursor blink and the toast clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.current().refocus(), components.ToastTickCmd())
}

// current returns the visible page.
func (m Model) current() *pageView {
	return m.pages[m.active]
}

// Page returns the controller of the page called name, or nil.
func (m Model) Page(name string) *workflow.Page {
	if pv := m.pageView(name); pv != nil {
		return pv.page
	}
	return nil
}

// ActivePage returns the name of the visible page.
func (m Model) ActivePage() string {
	return m.current().page.Name()
}

// Toasts returns the visible notices, newest first.
func (m Model) Toasts() []components.Toast {
	return m.toasts.Toasts()
}

// SetTransport switches every page to t for operations started from now
// on.
func (m Model) SetTransport(t workflow.Transport) {
	for _, pv := range m.pages {
		pv.page.SetTransport(t)
	}
}

// Close tears every page down. Late completions are dropped.
func (m Model) Close() {
	for _, pv := range m.pages {
		pv.page.Close()
	}
}

func (m Model) pageView(name string) *pageView {
	for _, pv := range m.pages {
		if pv.page.Name() == name {
			return pv
		}
	}
	return nil
}

func (m Model) pending() int {
	n := 0
	for _, pv := range m.pages {
		n += pv.pending()
	}
	return n
}
