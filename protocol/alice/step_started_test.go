// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
)

func TestStepStarted_ValidHandshakeAdvancesToNegotiated(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps := newTestSwap(t, ctrl, common.RegtestParams())
	sw := deps.sw

	_, bobMsg, err := swapcrypto.BobNewState2(sw.info.SwapID, sw.state.S0.Amounts, sw.backend.Params(), "bcrt1qbobrefund")
	require.NoError(t, err)

	deps.transport.EXPECT().
		SendSwapMessage(gomock.Any(), sw.bob, gomock.Any()).
		Return(nil)

	sw.Deliver(handshakeToWire(sw.info.SwapID, bobMsg))

	next, trigger, err := sw.stepStarted(context.Background())
	require.NoError(t, err)
	require.Equal(t, Negotiated, next.Kind)
	require.Equal(t, types.TriggerPeerMessage, trigger)
	require.NotNil(t, next.S3)
}

func TestStepStarted_WrongMessageTypeErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps := newTestSwap(t, ctrl, common.RegtestParams())
	sw := deps.sw

	sw.Deliver(&mismatchedMessage{})

	_, _, err := sw.stepStarted(context.Background())
	require.Error(t, err)
}

func TestStepStarted_TimesOutWhenBobNeverResponds(t *testing.T) {
	ctrl := gomock.NewController(t)
	params := common.RegtestParams()
	params.BobTimeToAct = 10 * time.Millisecond
	deps := newTestSwap(t, ctrl, params)
	sw := deps.sw

	next, trigger, err := sw.stepStarted(context.Background())
	require.NoError(t, err)
	require.Equal(t, Done, next.Kind)
	require.Equal(t, types.SafelyAborted, next.End)
	require.Equal(t, types.TriggerTimelockExpired, trigger)
}
