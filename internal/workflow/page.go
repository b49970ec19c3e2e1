// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
)

// =============================================================================
// PAGE CONFIGURATION
// =============================================================================

// SlotSpec declares one slot on a page.
type SlotSpec struct {
	// Name identifies the slot within its page.
	Name string

	// Kind is the operation the slot runs.
	Kind operation.Kind

	// SignatureFrom names a sibling slot whose last successful output is
	// used as the signature, instead of one supplied by the user.
	SignatureFrom string

	// InvalidMessage replaces the default validation message.
	InvalidMessage string
}

// PageConfig is the ordered set of slots shown on a page.
type PageConfig struct {
	Name  string
	Title string
	Slots []SlotSpec
}

// Slot names shared by the built-in pages.
const (
	SlotEncrypt     = "encrypt"
	SlotDecrypt     = "decrypt"
	SlotSign        = "sign"
	SlotVerify      = "verify"
	SlotCertificate = "certificate"
)

// EncryptPage encrypts and signs a message, verifies it against the
// signature just produced and issues certificates.
var EncryptPage = PageConfig{
	Name:  "encrypt",
	Title: "Encrypt",
	Slots: []SlotSpec{
		{Name: SlotEncrypt, Kind: operation.KindEncrypt},
		{Name: SlotSign, Kind: operation.KindSign},
		{
			Name:           SlotVerify,
			Kind:           operation.KindVerifySignature,
			SignatureFrom:  SlotSign,
			InvalidMessage: "Please enter a valid message and signature to verify",
		},
		{Name: SlotCertificate, Kind: operation.KindIssueCertificate},
	},
}

// DecryptPage decrypts cipher text and verifies a pasted signature.
var DecryptPage = PageConfig{
	Name:  "decrypt",
	Title: "Decrypt",
	Slots: []SlotSpec{
		{Name: SlotDecrypt, Kind: operation.KindDecrypt},
		{Name: SlotVerify, Kind: operation.KindVerifySignature},
	},
}

// VerifyPage only verifies a pasted signature.
var VerifyPage = PageConfig{
	Name:  "verify",
	Title: "Verify",
	Slots: []SlotSpec{
		{Name: SlotVerify, Kind: operation.KindVerifySignature},
	},
}

// PageConfigs returns the built-in pages in navigation order.
func PageConfigs() []PageConfig {
	return []PageConfig{EncryptPage, DecryptPage, VerifyPage}
}

// LookupPage returns the built-in page called name.
func LookupPage(name string) (PageConfig, bool) {
	for _, cfg := range PageConfigs() {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return PageConfig{}, false
}

// =============================================================================
// PAGE
// =============================================================================

// Page is the controller behind one page: its algorithm selection, its
// slots and its certificate form.
type Page struct {
	config PageConfig
	env    *env
	slots  map[string]*Slot
	specs  map[string]SlotSpec
	order  []*Slot
	form   *operation.CertificateForm
}

// PageOption is a functional option for NewPage.
type PageOption func(*Page)

// WithAlgorithm sets the initial algorithm selection.
func WithAlgorithm(a operation.Algorithm) PageOption {
	return func(p *Page) {
		p.env.algorithm.Set(a)
	}
}

// WithNotifier sets the notice receiver.
func WithNotifier(n Notifier) PageOption {
	return func(p *Page) {
		p.env.notifier = n
	}
}

// WithClock overrides time.Now for operation timestamps.
func WithClock(now func() time.Time) PageOption {
	return func(p *Page) {
		p.env.now = now
	}
}

// NewPage builds the controller for cfg. A config with duplicate slot names
// or a SignatureFrom naming no slot is a programming error and panics.
func NewPage(cfg PageConfig, transport Transport, opts ...PageOption) *Page {
	p := &Page{
		config: cfg,
		env: &env{
			algorithm: NewAlgorithmContext(operation.AlgorithmRSA),
			transport: transport,
			notifier:  discard{},
			now:       time.Now,
		},
		slots: make(map[string]*Slot, len(cfg.Slots)),
		specs: make(map[string]SlotSpec, len(cfg.Slots)),
		form:  operation.NewCertificateForm(),
	}

	for _, spec := range cfg.Slots {
		if !spec.Kind.Valid() {
			panic(fmt.Sprintf("workflow: page %q slot %q has unknown kind %q", cfg.Name, spec.Name, spec.Kind))
		}
		if _, dup := p.slots[spec.Name]; dup {
			panic(fmt.Sprintf("workflow: page %q has duplicate slot %q", cfg.Name, spec.Name))
		}
		s := &Slot{name: spec.Name, kind: spec.Kind, invalid: spec.InvalidMessage, env: p.env}
		p.slots[spec.Name] = s
		p.specs[spec.Name] = spec
		p.order = append(p.order, s)
	}
	for _, spec := range cfg.Slots {
		if spec.SignatureFrom == "" {
			continue
		}
		if _, ok := p.slots[spec.SignatureFrom]; !ok {
			panic(fmt.Sprintf("workflow: page %q slot %q reads signature from unknown slot %q",
				cfg.Name, spec.Name, spec.SignatureFrom))
		}
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the page name.
func (p *Page) Name() string { return p.config.Name }

// Title returns the page title.
func (p *Page) Title() string { return p.config.Title }

// Config returns the configuration the page was built from.
func (p *Page) Config() PageConfig { return p.config }

// Algorithm returns the page's algorithm selection.
func (p *Page) Algorithm() *AlgorithmContext { return p.env.algorithm }

// Form returns the page's certificate form.
func (p *Page) Form() *operation.CertificateForm { return p.form }

// Slot returns the slot called name, or nil.
func (p *Page) Slot(name string) *Slot { return p.slots[name] }

// Slots returns the slots in declaration order.
func (p *Page) Slots() []*Slot { return p.order }

// Spec returns the declaration of the slot called name.
func (p *Page) Spec(name string) (SlotSpec, bool) {
	spec, ok := p.specs[name]
	return spec, ok
}

// SetTransport replaces the transport for operations started from now on.
// Calls already started keep the transport they were started with.
func (p *Page) SetTransport(t Transport) {
	p.env.transport = t
}

// SetNotifier replaces the notice receiver.
func (p *Page) SetNotifier(n Notifier) {
	if n == nil {
		n = discard{}
	}
	p.env.notifier = n
}

// UpdateCertificateField edits one certificate field. A country longer than
// two characters is rejected in place with a warning notice.
func (p *Page) UpdateCertificateField(field operation.Field, value string) error {
	err := p.form.Update(field, value)
	if errors.Is(err, operation.ErrCountryTooLong) {
		p.env.notify(Notice{
			Level: LevelWarning,
			Slot:  SlotCertificate,
			Kind:  operation.KindIssueCertificate,
			Text:  "Country code must be at most 2 characters",
		})
	}
	return err
}

// Input completes in for the slot called name: the certificate slot reads
// the page form and a slot with SignatureFrom reads its source's output.
func (p *Page) Input(name string, in operation.Input) operation.Input {
	spec, ok := p.specs[name]
	if !ok {
		return in
	}
	if spec.Kind == operation.KindIssueCertificate {
		in.Certificate = p.form.Payload()
	}
	if spec.SignatureFrom != "" {
		in.Signature = ""
		if out, ok := p.slots[spec.SignatureFrom].Output(); ok {
			in.Signature = out.Text
		}
	}
	return in
}

// CanSubmit reports whether the trigger control for the slot is enabled.
func (p *Page) CanSubmit(name string, in operation.Input) bool {
	s := p.slots[name]
	return s != nil && s.CanStart(p.Input(name, in))
}

// Submit starts the slot called name with in completed by Input.
func (p *Page) Submit(name string, in operation.Input) (*Call, error) {
	s := p.slots[name]
	if s == nil {
		return nil, fmt.Errorf("page %q has no slot %q", p.config.Name, name)
	}
	return s.Start(p.Input(name, in))
}

// Finish routes a completion to its slot. Completions arriving after Close
// or for an unknown slot are dropped.
func (p *Page) Finish(c Completion) bool {
	s := p.slots[c.Slot]
	if s == nil {
		return false
	}
	return s.Finish(c)
}

// Run submits, performs and finishes one operation synchronously.
func (p *Page) Run(ctx context.Context, name string, in operation.Input) error {
	call, err := p.Submit(name, in)
	if err != nil {
		return err
	}
	return p.slots[name].result(call.Do(ctx))
}

// Close tears the page down. Pending operations are not canceled; their
// completions are ignored.
func (p *Page) Close() {
	p.env.closed = true
}

// Closed reports whether Close has been called.
func (p *Page) Closed() bool {
	return p.env.closed
}
