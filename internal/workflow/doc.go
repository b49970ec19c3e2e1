// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package workflow orchestrates operations for one page of the front end.
//
// A Page owns an AlgorithmContext, a set of named Slots and a certificate
// form. Each Slot runs at most one operation at a time:
//
//	call, err := page.Submit("encrypt", operation.Input{Message: "hello"})
//	if err != nil {
//	    return // ErrBusy, ErrPageClosed or *operation.ValidationError
//	}
//	completion := call.Do(ctx) // safe off the UI goroutine
//	page.Finish(completion)    // back on the owning goroutine
//
// Start and Finish mutate slot state and must run on the goroutine that owns
// the page (the Bubble Tea update loop or the CLI goroutine). Call.Do touches
// no slot state and may run anywhere.
package workflow
