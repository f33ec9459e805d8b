// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEndState_TagRoundTrip(t *testing.T) {
	states := []EndState{SafelyAborted, BtcRedeemed, XmrRefunded, BtcPunished, XmrRedeemed, BtcRefunded}
	for _, s := range states {
		got, ok := EndStateFromTag(s.Tag())
		require.True(t, ok)
		require.Equal(t, s, got)
	}
}

func TestEndStateFromTag_Unknown(t *testing.T) {
	_, ok := EndStateFromTag("NotARealState")
	require.False(t, ok)
}
