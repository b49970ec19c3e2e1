// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package workflow

import (
	"fmt"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
)

// AlgorithmContext is the page's current algorithm selection. It is read
// when an operation starts; changing it never affects a running operation.
type AlgorithmContext struct {
	current operation.Algorithm
}

// NewAlgorithmContext returns a context selecting initial, or RSA when
// initial is empty.
func NewAlgorithmContext(initial operation.Algorithm) *AlgorithmContext {
	c := &AlgorithmContext{current: operation.AlgorithmRSA}
	if initial != "" {
		c.Set(initial)
	}
	return c
}

// Get returns the current algorithm.
func (c *AlgorithmContext) Get() operation.Algorithm {
	return c.current
}

// Set selects a. Values outside the closed set are a programming error;
// parse user text with operation.ParseAlgorithm first.
func (c *AlgorithmContext) Set(a operation.Algorithm) {
	if !a.Valid() {
		panic(fmt.Sprintf("workflow: invalid algorithm %q", a))
	}
	c.current = a
}

// Toggle flips between RSA and ElGamal and returns the new selection.
func (c *AlgorithmContext) Toggle() operation.Algorithm {
	if c.current == operation.AlgorithmRSA {
		c.current = operation.AlgorithmElGamal
	} else {
		c.current = operation.AlgorithmRSA
	}
	return c.current
}
