// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
)

func newHandshakingPair(t *testing.T) (*AliceState3, *BobState3) {
	swapID, err := types.NewSwapID()
	require.NoError(t, err)
	amounts := common.SwapAmounts{BTC: 100_000, XMR: 1_500_000_000_000}
	params := common.RegtestParams()

	s0, err := AliceNewState0(swapID, amounts, params, "bcrt1qalicerefund")
	require.NoError(t, err)
	s2, bobHandshake, err := BobNewState2(swapID, amounts, params, "bcrt1qbobrefund")
	require.NoError(t, err)

	s3, aliceHandshake, err := HandshakeAlice(s0, bobHandshake)
	require.NoError(t, err)
	bs3, err := HandshakeBob(s2, aliceHandshake)
	require.NoError(t, err)

	return s3, bs3
}

func TestAliceState3_MarshalRoundTrip(t *testing.T) {
	s3, _ := newHandshakingPair(t)

	b, err := json.Marshal(s3)
	require.NoError(t, err)

	var got AliceState3
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, *s3, got)
}

func TestBobState3_MarshalRoundTrip(t *testing.T) {
	_, bs3 := newHandshakingPair(t)

	b, err := json.Marshal(bs3)
	require.NoError(t, err)

	var got BobState3
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, *bs3, got)
}

func TestBobState4And5_MarshalRoundTrip(t *testing.T) {
	s3, bs3 := newHandshakingPair(t)

	bs4, encSig, err := EncryptSignature(bs3)
	require.NoError(t, err)
	b, err := json.Marshal(bs4)
	require.NoError(t, err)
	var gotS4 BobState4
	require.NoError(t, json.Unmarshal(b, &gotS4))
	require.Equal(t, *bs4, gotS4)

	encB, err := json.Marshal(encSig)
	require.NoError(t, err)
	var gotEnc EncSig
	require.NoError(t, json.Unmarshal(encB, &gotEnc))
	require.Equal(t, *encSig, gotEnc)

	decrypted := DecryptSignature(s3, encSig)
	require.NotZero(t, decrypted)
}

func TestAliceState0_MarshalRoundTrip(t *testing.T) {
	swapID, err := types.NewSwapID()
	require.NoError(t, err)
	s0, err := AliceNewState0(swapID, common.SwapAmounts{BTC: 1, XMR: 1}, common.RegtestParams(), "addr")
	require.NoError(t, err)

	b, err := json.Marshal(s0)
	require.NoError(t, err)
	var got AliceState0
	require.NoError(t, json.Unmarshal(b, &got))
	require.Equal(t, *s0, got)
}
