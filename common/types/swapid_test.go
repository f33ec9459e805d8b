// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSwapID_TextRoundTrip(t *testing.T) {
	id, err := NewSwapID()
	require.NoError(t, err)

	text, err := id.MarshalText()
	require.NoError(t, err)

	var got SwapID
	require.NoError(t, got.UnmarshalText(text))
	require.Equal(t, id, got)
}

func TestParseSwapID(t *testing.T) {
	id, err := NewSwapID()
	require.NoError(t, err)

	parsed, err := ParseSwapID(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseSwapID_InvalidLength(t *testing.T) {
	_, err := ParseSwapID("abcd")
	require.Error(t, err)
}

func TestParseSwapID_InvalidHex(t *testing.T) {
	_, err := ParseSwapID("zz")
	require.Error(t, err)
}

func TestNewSwapID_Unique(t *testing.T) {
	a, err := NewSwapID()
	require.NoError(t, err)
	b, err := NewSwapID()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
