// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package types holds the small shared value types used across the swap protocol:
// swap identifiers, end states, and status tags.
package types

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

// SwapID is the opaque, unique identifier assigned to one swap instance (spec.md §3).
// It is stable across restarts and is the persistence store's top-level key.
type SwapID [32]byte

// NewSwapID generates a fresh, random SwapID.
func NewSwapID() (SwapID, error) {
	var id SwapID
	if _, err := rand.Read(id[:]); err != nil {
		return SwapID{}, fmt.Errorf("failed to generate swap id: %w", err)
	}
	return id, nil
}

func (id SwapID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText implements encoding.TextMarshaler so SwapID can be used as a map key and
// round-trips through JSON without losing bytes.
func (id SwapID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *SwapID) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid swap id: %w", err)
	}
	if len(b) != len(id) {
		return errors.New("invalid swap id length")
	}
	copy(id[:], b)
	return nil
}

// ParseSwapID parses a hex-encoded SwapID.
func ParseSwapID(s string) (SwapID, error) {
	var id SwapID
	err := id.UnmarshalText([]byte(s))
	return id, err
}
