// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
)

func TestStatus_MarshalRoundTrip_Ongoing(t *testing.T) {
	b, err := json.Marshal(Ongoing)
	require.NoError(t, err)

	var got Status
	require.NoError(t, json.Unmarshal(b, &got))
	require.True(t, got.IsOngoing())
}

func TestStatus_MarshalRoundTrip_Ended(t *testing.T) {
	s := Ended(types.BtcPunished)

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var got Status
	require.NoError(t, json.Unmarshal(b, &got))
	require.False(t, got.IsOngoing())
	require.Equal(t, types.BtcPunished, got.EndState())
}

func TestInfo_MarshalRoundTrip_PreservesStatus(t *testing.T) {
	id, err := types.NewSwapID()
	require.NoError(t, err)

	info := Info{SwapID: id, Status: Ended(types.XmrRedeemed)}

	b, err := json.Marshal(info)
	require.NoError(t, err)

	var got Info
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, info.Status, got.Status)
}
