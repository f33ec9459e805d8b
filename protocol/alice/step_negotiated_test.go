// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

func TestStepNegotiated_LockAnnouncedAndConfirmedAdvancesToBtcLocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps := newTestSwap(t, ctrl, common.RegtestParams())
	sw := deps.sw
	sw.state = &State{Kind: Negotiated}

	lockTx := wire.NewMsgTx(wire.TxVersion)
	txid := lockTx.TxHash()

	deps.btc.EXPECT().GetRawTransaction(gomock.Any(), &txid).Return(lockTx, nil)
	deps.btc.EXPECT().WaitConfirmed(gomock.Any(), &txid, sw.backend.Params().BitcoinFinalityConfirmations).Return(nil)

	sw.Deliver(&message.NotifyBtcLock{SwapID: sw.info.SwapID, TxID: txid.String(), Height: 100})

	next, trigger, err := sw.stepNegotiated(context.Background())
	require.NoError(t, err)
	require.Equal(t, BtcLocked, next.Kind)
	require.Equal(t, types.TriggerChainEvent, trigger)
	require.Equal(t, uint32(100), next.LockHeight)
	require.Equal(t, lockTx.TxHash(), next.BobLockTx.TxHash())
}

func TestStepNegotiated_InvalidTxIDErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps := newTestSwap(t, ctrl, common.RegtestParams())
	sw := deps.sw
	sw.state = &State{Kind: Negotiated}

	sw.Deliver(&message.NotifyBtcLock{SwapID: sw.info.SwapID, TxID: "not-a-txid", Height: 1})

	_, _, err := sw.stepNegotiated(context.Background())
	require.Error(t, err)
}

func TestStepNegotiated_ContextCancelledWhileWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps := newTestSwap(t, ctrl, common.RegtestParams())
	sw := deps.sw

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := sw.stepNegotiated(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
