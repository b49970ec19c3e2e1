// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeInvalidRequest
	ErrTypeConnection
	ErrTypeCanceled
	ErrTypeStatus
	ErrTypeInvalidResponse
	ErrTypeTooLarge
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeInvalidRequest:
		return "invalid_request"
	case ErrTypeConnection:
		return "connection"
	case ErrTypeCanceled:
		return "canceled"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeTooLarge:
		return "too_large"
	}
	return "unknown"
}

// Error is a transport or backend failure.
//
// Detail holds the server-supplied "detail" string when the error body had
// one; it is shown to the user verbatim.
type Error struct {
	Type    ErrorType
	Status  int
	Detail  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HasDetail reports whether the server supplied a detail string.
func (e *Error) HasDetail() bool {
	return e != nil && e.Detail != ""
}

// AsError extracts an *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr, true
	}
	return nil, false
}

// DetailOf returns the server detail carried by err, or "".
func DetailOf(err error) string {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Detail
	}
	return ""
}
