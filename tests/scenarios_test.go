// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package tests

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	swapnet "github.com/basalt-labs/xmr-btc-swap/net"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
	"github.com/basalt-labs/xmr-btc-swap/protocol/alice"
	"github.com/basalt-labs/xmr-btc-swap/protocol/bob"
	pswap "github.com/basalt-labs/xmr-btc-swap/protocol/swap"
)

// TestHappyPath_AliceRedeemsBtc_BobRedeemsXmr drives a real alice.Swap and bob.Swap
// concurrently to completion (spec.md §8, happy path): Bob locks BTC, Alice locks XMR,
// Bob hands Alice his encrypted signature, Alice redeems the BTC, and Bob uses the
// disclosed scalar to sweep the XMR. Grounded on the teacher family's
// tests/integration_test.go, which drives a maker and a taker to completion
// concurrently via goroutines and a sync.WaitGroup; here pairedTransport stands in for
// the live libp2p connection between them.
func TestHappyPath_AliceRedeemsBtc_BobRedeemsXmr(t *testing.T) {
	ctrl := gomock.NewController(t)
	params := common.RegtestParams()
	amounts := testAmounts()

	aliceID := types.PeerID("alice-peer")
	bobID := types.PeerID("bob-peer")

	aliceTransport := &pairedTransport{self: aliceID}
	bobTransport := &pairedTransport{self: bobID}

	aliceBackend, aliceBtc, aliceXmr := newTestBackend(t, ctrl, params, aliceTransport)
	bobBackend, bobBtc, _ := newTestBackend(t, ctrl, params, bobTransport)

	aliceSwap, err := alice.NewSwap(aliceBackend, amounts, bobID, "bcrt1qalicerefund")
	require.NoError(t, err)
	swapID := aliceSwap.ID()

	bobS2, bobHandshakeMsg, err := swapcrypto.BobNewState2(swapID, amounts, params, "bcrt1qbobrefund")
	require.NoError(t, err)
	bobSwap, err := bob.NewSwap(bobBackend, bobS2, amounts, aliceID)
	require.NoError(t, err)

	aliceTransport.peer = bobSwap
	bobTransport.peer = aliceSwap

	// lockTx and redeemTx bridge Alice's and Bob's independently mocked Bitcoin
	// chains: each is written by whichever side publishes it and read by the other
	// only after the notifying message has travelled through Deliver's channel send,
	// so the Go memory model's happens-before guarantee makes the read safe without
	// an explicit mutex.
	var bobLockTx, redeemTx *wire.MsgTx

	bobBtc.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *wire.MsgTx) (*chainhash.Hash, error) {
			bobLockTx = tx
			h := tx.TxHash()
			return &h, nil
		})
	bobBtc.EXPECT().WaitConfirmed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	bobBtc.EXPECT().Tip(gomock.Any()).Return(uint32(600), nil)
	bobBtc.EXPECT().WatchUntilTimelock(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(blockUntilCancelled).AnyTimes()
	bobBtc.EXPECT().GetRawTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *chainhash.Hash) (*wire.MsgTx, error) { return redeemTx, nil })

	aliceBtc.EXPECT().GetRawTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *chainhash.Hash) (*wire.MsgTx, error) { return bobLockTx, nil })
	aliceBtc.EXPECT().WaitConfirmed(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	aliceBtc.EXPECT().WatchUntilTimelock(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(blockUntilCancelled).AnyTimes()
	aliceBtc.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *wire.MsgTx) (*chainhash.Hash, error) {
			redeemTx = tx
			h := tx.TxHash()
			return &h, nil
		})
	aliceXmr.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any()).Return("alice-xmr-tx", nil)
	aliceXmr.EXPECT().WaitConfirmed(gomock.Any(), "alice-xmr-tx", gomock.Any()).Return(nil)

	// mirrors protocol/orchestrator/orchestrator.go, which delivers Bob's initial
	// handshake message to Alice outside either Swap's own Run loop.
	aliceSwap.Deliver(toHandshakeWire(swapID, bobHandshakeMsg))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	var aliceEnd, bobEnd types.EndState
	var aliceErr, bobErr error
	wg.Add(2)
	go func() { defer wg.Done(); aliceEnd, aliceErr = aliceSwap.Run(ctx) }()
	go func() { defer wg.Done(); bobEnd, bobErr = bobSwap.Run(ctx) }()
	wg.Wait()

	require.NoError(t, aliceErr)
	require.NoError(t, bobErr)
	require.Equal(t, types.BtcRedeemed, aliceEnd)
	require.Equal(t, types.XmrRedeemed, bobEnd)
}

// TestCancelRefund_BobRefundsImmediately resumes a bob.Swap straight into BtcCancelled
// and confirms he publishes his refund without ever calling WatchUntilTimelock
// (spec.md §4.5, BtcCancelled -> Done(BtcRefunded)): that call is Bob's punish
// timelock, which gates Alice's path, not his. Regression coverage for the bug where
// stepBtcCancelled waited out the punish timelock before refunding, handing Alice the
// exact window meant to punish him instead.
func TestCancelRefund_BobRefundsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	params := common.RegtestParams()
	amounts := testAmounts()
	swapID, err := types.NewSwapID()
	require.NoError(t, err)

	_, bobS3 := newHandshakePair(t, swapID, amounts, params)
	bobS4, _, err := swapcrypto.EncryptSignature(bobS3)
	require.NoError(t, err)

	dummyLockTx := wire.NewMsgTx(wire.TxVersion)
	cancelTx := swapcrypto.BuildBTCCancel(dummyLockTx)

	st := bob.State{Kind: bob.BtcCancelled, S3: bobS3, S4: bobS4, CancelTx: cancelTx, CancelHeight: 321}
	checkpoint, err := json.Marshal(st)
	require.NoError(t, err)

	aliceID := types.PeerID("alice-peer")
	transport := swapnet.NewMockTransport(ctrl)
	transport.EXPECT().SendSwapMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	b, btcChain, _ := newTestBackend(t, ctrl, params, transport)

	info := &pswap.Info{
		SwapID: swapID, IsAlice: false, PeerID: aliceID, Amounts: amounts,
		Status: pswap.Ongoing, StartTime: time.Now(), Checkpoint: checkpoint,
	}
	sw, err := bob.ResumeSwap(b, info)
	require.NoError(t, err)

	btcChain.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *wire.MsgTx) (*chainhash.Hash, error) {
			h := tx.TxHash()
			return &h, nil
		})
	// No WatchUntilTimelock expectation is set: a call to it here is unexpected and
	// fails the test, which is exactly what catches a regression of the timing bug.

	end, err := sw.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.BtcRefunded, end)
}

// TestCancelRefund_AliceRecoversXmrFromBobsRefund resumes an alice.Swap into
// BtcCancelled with Bob's refund already queued, so the message branch of her
// refund-vs-punish race wins deterministically (spec.md §4.5,
// BtcCancelled -> BtcRefunded -> Done(XmrRefunded)).
func TestCancelRefund_AliceRecoversXmrFromBobsRefund(t *testing.T) {
	ctrl := gomock.NewController(t)
	params := common.RegtestParams()
	amounts := testAmounts()
	swapID, err := types.NewSwapID()
	require.NoError(t, err)

	aliceS3, bobS3 := newHandshakePair(t, swapID, amounts, params)
	bobS4, _, err := swapcrypto.EncryptSignature(bobS3)
	require.NoError(t, err)

	dummyLockTx := wire.NewMsgTx(wire.TxVersion)
	cancelTx := swapcrypto.BuildBTCCancel(dummyLockTx)
	refundTx := swapcrypto.BuildBTCRefund(bobS4, cancelTx)

	st := alice.State{Kind: alice.BtcCancelled, S3: aliceS3, CancelTx: cancelTx, CancelHeight: 777}
	checkpoint, err := json.Marshal(st)
	require.NoError(t, err)

	bobID := types.PeerID("bob-peer")
	transport := swapnet.NewMockTransport(ctrl)
	b, btcChain, xmrChain := newTestBackend(t, ctrl, params, transport)

	info := &pswap.Info{
		SwapID: swapID, IsAlice: true, PeerID: bobID, Amounts: amounts,
		Status: pswap.Ongoing, StartTime: time.Now(), Checkpoint: checkpoint,
	}
	sw, err := alice.ResumeSwap(b, info)
	require.NoError(t, err)

	// deliver the refund before Run starts: since it is already buffered, the race
	// in stepBtcCancelled resolves to the message branch the instant it runs, while
	// the timelock branch stays blocked until the step itself cancels its watch.
	btcChain.EXPECT().WatchUntilTimelock(gomock.Any(), uint32(777), params.BitcoinPunishTimelock).
		DoAndReturn(blockUntilCancelled)
	btcChain.EXPECT().GetRawTransaction(gomock.Any(), gomock.Any()).Return(refundTx, nil)
	xmrChain.EXPECT().CreateFromKeys(gomock.Any(), gomock.Any(), uint64(0)).Return(nil)

	sw.Deliver(&message.NotifyBtcRefunded{SwapID: swapID, TxID: refundTx.TxHash().String()})

	end, err := sw.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.XmrRefunded, end)
}

// TestPunish_AliceBtcPunishedWhenBobNeverRefunds resumes an alice.Swap into
// BtcCancelled with no refund ever delivered, so the punish timelock branch wins
// (spec.md §4.5, BtcCancelled -> BtcPunishable -> Done(BtcPunished); spec.md §8,
// "exactly one refunded / never both punished").
func TestPunish_AliceBtcPunishedWhenBobNeverRefunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	params := common.RegtestParams()
	amounts := testAmounts()
	swapID, err := types.NewSwapID()
	require.NoError(t, err)

	aliceS3, _ := newHandshakePair(t, swapID, amounts, params)

	dummyLockTx := wire.NewMsgTx(wire.TxVersion)
	cancelTx := swapcrypto.BuildBTCCancel(dummyLockTx)

	st := alice.State{Kind: alice.BtcCancelled, S3: aliceS3, CancelTx: cancelTx, CancelHeight: 999}
	checkpoint, err := json.Marshal(st)
	require.NoError(t, err)

	bobID := types.PeerID("bob-peer")
	transport := swapnet.NewMockTransport(ctrl)
	b, btcChain, _ := newTestBackend(t, ctrl, params, transport)

	info := &pswap.Info{
		SwapID: swapID, IsAlice: true, PeerID: bobID, Amounts: amounts,
		Status: pswap.Ongoing, StartTime: time.Now(), Checkpoint: checkpoint,
	}
	sw, err := alice.ResumeSwap(b, info)
	require.NoError(t, err)

	btcChain.EXPECT().WatchUntilTimelock(gomock.Any(), uint32(999), params.BitcoinPunishTimelock).Return(nil)
	btcChain.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *wire.MsgTx) (*chainhash.Hash, error) {
			h := tx.TxHash()
			return &h, nil
		})

	end, err := sw.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.BtcPunished, end)
}

// TestTimeout_AliceSafelyAbortsWhenBobNeverHandshakes confirms Alice gives up cleanly
// if Bob never answers her Started handshake within BobTimeToAct (spec.md §4.5,
// Started -> Done(SafelyAborted)).
func TestTimeout_AliceSafelyAbortsWhenBobNeverHandshakes(t *testing.T) {
	ctrl := gomock.NewController(t)
	params := shortBobTimeToAct(common.RegtestParams())
	amounts := testAmounts()

	bobID := types.PeerID("bob-peer")
	transport := swapnet.NewMockTransport(ctrl)
	b, _, _ := newTestBackend(t, ctrl, params, transport)

	sw, err := alice.NewSwap(b, amounts, bobID, "bcrt1qalicerefund")
	require.NoError(t, err)

	end, err := sw.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.SafelyAborted, end)
}

// TestTimeout_BobSafelyAbortsWhenAliceNeverHandshakes mirrors the above for Bob's
// Negotiated -> Done(SafelyAborted) timeout.
func TestTimeout_BobSafelyAbortsWhenAliceNeverHandshakes(t *testing.T) {
	ctrl := gomock.NewController(t)
	params := shortBobTimeToAct(common.RegtestParams())
	amounts := testAmounts()
	swapID, err := types.NewSwapID()
	require.NoError(t, err)

	aliceID := types.PeerID("alice-peer")
	transport := swapnet.NewMockTransport(ctrl)
	b, _, _ := newTestBackend(t, ctrl, params, transport)

	s2, _, err := swapcrypto.BobNewState2(swapID, amounts, params, "bcrt1qbobrefund")
	require.NoError(t, err)
	sw, err := bob.NewSwap(b, s2, amounts, aliceID)
	require.NoError(t, err)

	end, err := sw.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.SafelyAborted, end)
}

// TestCrashResume_AliceResumesFromBtcLockedToBtcRedeemed reconstructs an alice.Swap
// from a checkpoint taken mid-protocol and confirms it finishes correctly, the
// property spec.md §4.6 calls resuming "from any state" (distinct from the
// cancel-path resumes above, which all start at BtcCancelled).
func TestCrashResume_AliceResumesFromBtcLockedToBtcRedeemed(t *testing.T) {
	ctrl := gomock.NewController(t)
	params := common.RegtestParams()
	amounts := testAmounts()
	swapID, err := types.NewSwapID()
	require.NoError(t, err)

	aliceS3, bobS3 := newHandshakePair(t, swapID, amounts, params)
	bobLockTx := swapcrypto.BuildBTCLockBob(bobS3)

	st := alice.State{Kind: alice.BtcLocked, S3: aliceS3, BobLockTx: bobLockTx, LockHeight: 222}
	checkpoint, err := json.Marshal(st)
	require.NoError(t, err)

	bobID := types.PeerID("bob-peer")
	transport := swapnet.NewMockTransport(ctrl)
	transport.EXPECT().SendSwapMessage(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	b, btcChain, xmrChain := newTestBackend(t, ctrl, params, transport)

	info := &pswap.Info{
		SwapID: swapID, IsAlice: true, PeerID: bobID, Amounts: amounts,
		Status: pswap.Ongoing, StartTime: time.Now(), Checkpoint: checkpoint,
	}
	sw, err := alice.ResumeSwap(b, info)
	require.NoError(t, err)

	xmrChain.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any()).Return("alice-xmr-tx", nil)
	xmrChain.EXPECT().WaitConfirmed(gomock.Any(), "alice-xmr-tx", gomock.Any()).Return(nil)
	btcChain.EXPECT().WatchUntilTimelock(gomock.Any(), uint32(222), params.BitcoinCancelTimelock).
		DoAndReturn(blockUntilCancelled)
	btcChain.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, tx *wire.MsgTx) (*chainhash.Hash, error) {
			h := tx.TxHash()
			return &h, nil
		})

	_, encSig, err := swapcrypto.EncryptSignature(bobS3)
	require.NoError(t, err)
	sw.Deliver(&message.NotifyReady{SwapID: swapID, EncKey: encSig.Bytes()})

	end, err := sw.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.BtcRedeemed, end)
}
