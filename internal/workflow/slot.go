// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
)

var (
	// ErrBusy is returned when a slot is asked to start while its previous
	// operation is still pending. Nothing is queued.
	ErrBusy = errors.New("operation already in progress")

	// ErrPageClosed is returned when starting an operation on a closed page.
	ErrPageClosed = errors.New("page closed")
)

// Transport performs one operation against the service. *api.Client
// satisfies it.
type Transport interface {
	Call(ctx context.Context, kind operation.Kind, algorithm operation.Algorithm, in operation.Input) api.Result
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, kind operation.Kind, algorithm operation.Algorithm, in operation.Input) api.Result

// Call calls f.
func (f TransportFunc) Call(ctx context.Context, kind operation.Kind, algorithm operation.Algorithm, in operation.Input) api.Result {
	return f(ctx, kind, algorithm, in)
}

// OperationError is returned by Run when the service call failed. Message
// is the translated, user-facing text.
type OperationError struct {
	Kind    operation.Kind
	Message string
	Cause   *api.Error
}

func (e *OperationError) Error() string {
	return e.Message
}

func (e *OperationError) Unwrap() error {
	if e.Cause == nil {
		return nil
	}
	return e.Cause
}

// env is the state a page shares with its slots.
type env struct {
	algorithm *AlgorithmContext
	transport Transport
	notifier  Notifier
	now       func() time.Time
	closed    bool
}

func (e *env) notify(n Notice) {
	if e.notifier != nil {
		e.notifier.Notify(n)
	}
}

// =============================================================================
// SLOT
// =============================================================================

// Slot is a single-flight runner for one operation kind on a page. It keeps
// the most recent operation so the front end can render its status, output
// or error.
type Slot struct {
	name    string
	kind    operation.Kind
	invalid string
	env     *env
	op      *operation.Operation
}

// Name returns the slot name.
func (s *Slot) Name() string { return s.name }

// Kind returns the operation kind this slot runs.
func (s *Slot) Kind() operation.Kind { return s.kind }

// Status returns the status of the latest operation, or StatusIdle.
func (s *Slot) Status() operation.Status {
	if s.op == nil {
		return operation.StatusIdle
	}
	return s.op.Status
}

// Pending reports whether an operation is in flight.
func (s *Slot) Pending() bool {
	return s.Status() == operation.StatusPending
}

// Operation returns a copy of the latest operation, or nil before the first
// run.
func (s *Slot) Operation() *operation.Operation {
	if s.op == nil {
		return nil
	}
	op := *s.op
	if s.op.Output != nil {
		out := *s.op.Output
		op.Output = &out
	}
	return &op
}

// Output returns the latest output when the last operation succeeded.
func (s *Slot) Output() (operation.Output, bool) {
	if s.op == nil || s.op.Status != operation.StatusSucceeded || s.op.Output == nil {
		return operation.Output{}, false
	}
	return *s.op.Output, true
}

// Err returns the user-facing error of a failed operation, or "".
func (s *Slot) Err() string {
	if s.op == nil || s.op.Status != operation.StatusFailed {
		return ""
	}
	return s.op.Error
}

// CanStart reports whether the trigger control for this slot is enabled.
func (s *Slot) CanStart(in operation.Input) bool {
	return !s.env.closed && !s.Pending() && operation.CanSubmit(s.kind, in)
}

// Start validates in and marks the slot pending. The returned Call performs
// the request and may be run off the owning goroutine.
//
// A pending slot refuses with ErrBusy and no notice. Invalid input raises a
// warning notice and returns the *operation.ValidationError; the slot is
// left as it was.
func (s *Slot) Start(in operation.Input) (*Call, error) {
	if s.env.closed {
		return nil, ErrPageClosed
	}
	if s.Pending() {
		return nil, ErrBusy
	}
	if err := s.validate(in); err != nil {
		s.env.notify(Notice{Level: LevelWarning, Slot: s.name, Kind: s.kind, Text: err.Error()})
		return nil, err
	}

	var algorithm operation.Algorithm
	if s.kind.UsesAlgorithm() {
		algorithm = s.env.algorithm.Get()
	}
	s.op = &operation.Operation{
		ID:        uuid.NewString(),
		Kind:      s.kind,
		Algorithm: algorithm,
		Input:     in,
		Status:    operation.StatusPending,
		StartedAt: s.env.now(),
	}
	return &Call{
		Slot:      s.name,
		OpID:      s.op.ID,
		Kind:      s.kind,
		Algorithm: algorithm,
		Input:     in,
		transport: s.env.transport,
	}, nil
}

func (s *Slot) validate(in operation.Input) error {
	err := operation.Validate(s.kind, in)
	if err == nil || s.invalid == "" {
		return err
	}
	var verr *operation.ValidationError
	if errors.As(err, &verr) {
		return &operation.ValidationError{Kind: verr.Kind, Message: s.invalid, Fields: verr.Fields}
	}
	return err
}

// Finish applies a completion produced by a Call from this slot. It returns
// false and changes nothing when the page is closed or the completion does
// not belong to the pending operation.
func (s *Slot) Finish(c Completion) bool {
	if s.env.closed || s.op == nil || s.op.ID != c.OpID || s.op.Status != operation.StatusPending {
		return false
	}
	s.op.EndedAt = s.env.now()

	if c.Result.OK() {
		out := c.Result.Output
		s.op.Output = &out
		s.op.Status = operation.StatusSucceeded
		level, text := LevelSuccess, successText(s.kind)
		if out.Verdict() == operation.VerdictInvalid {
			level, text = LevelWarning, out.Display()
		} else if out.Verdict() == operation.VerdictValid {
			text = out.Display()
		}
		s.env.notify(Notice{Level: level, Slot: s.name, Kind: s.kind, Text: text})
		return true
	}

	s.op.Status = operation.StatusFailed
	s.op.Error = Translate(s.kind, c.Result.Err)
	s.env.notify(Notice{Level: LevelError, Slot: s.name, Kind: s.kind, Text: s.op.Error})
	return true
}

// Run starts, performs and finishes one operation on the calling goroutine.
// It returns nil on success, including a negative verification verdict.
func (s *Slot) Run(ctx context.Context, in operation.Input) error {
	call, err := s.Start(in)
	if err != nil {
		return err
	}
	return s.result(call.Do(ctx))
}

func (s *Slot) result(c Completion) error {
	if !s.Finish(c) {
		return ErrPageClosed
	}
	if c.Result.OK() {
		return nil
	}
	return &OperationError{Kind: s.kind, Message: s.op.Error, Cause: c.Result.Err}
}

// =============================================================================
// CALL
// =============================================================================

// Call is a started operation waiting to be sent. It carries everything the
// request needs; the algorithm is fixed at Start.
type Call struct {
	Slot      string
	OpID      string
	Kind      operation.Kind
	Algorithm operation.Algorithm
	Input     operation.Input
	transport Transport
}

// Completion is the outcome of a Call, delivered back to the owning slot.
type Completion struct {
	Slot   string
	OpID   string
	Result api.Result
}

// Do sends the request and returns its completion. It reads no slot state.
func (c *Call) Do(ctx context.Context) Completion {
	ctx = api.WithRequestID(ctx, c.OpID)
	return Completion{
		Slot:   c.Slot,
		OpID:   c.OpID,
		Result: c.transport.Call(ctx, c.Kind, c.Algorithm, c.Input),
	}
}
