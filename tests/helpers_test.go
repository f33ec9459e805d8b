// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package tests drives full protocol/alice and protocol/bob Swap.Run() sequences
// end to end against mocked chain and transport façades, covering spec.md §8's
// scenario catalogue (happy path, cancel/refund, punish, timeout, crash-resume) at a
// level the per-step unit tests in protocol/alice and protocol/bob do not reach.
// Grounded on the teacher family's tests/integration_test.go, which drives full
// maker/taker runs against live daemons; here the daemons are replaced by gomock
// façades since no bitcoind/monerod is available in this harness.
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/require"

	"github.com/basalt-labs/xmr-btc-swap/chain/bitcoin"
	"github.com/basalt-labs/xmr-btc-swap/chain/monero"
	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	swapnet "github.com/basalt-labs/xmr-btc-swap/net"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
	"github.com/basalt-labs/xmr-btc-swap/protocol/backend"
	pswap "github.com/basalt-labs/xmr-btc-swap/protocol/swap"
)

// deliverer is the subset of *alice.Swap and *bob.Swap this package needs to wire a
// counterparty's outbound messages back in, without importing either package's
// unexported Swap internals.
type deliverer interface {
	Deliver(message.Message)
}

// pairedTransport bridges two concurrently running Swap instances by forwarding
// SendSwapMessage straight to the counterpart's Deliver, playing the role net.Host's
// stream handlers play for a real libp2p connection (net/host.go). Negotiation is not
// exercised here: both roles already carry an agreed SwapID and crypto state by the
// time a scenario test constructs them.
type pairedTransport struct {
	self peer.ID
	peer deliverer
}

var _ swapnet.Transport = (*pairedTransport)(nil)

func (t *pairedTransport) SendNegotiationRequest(
	context.Context, peer.ID, *message.AmountsFromBtc,
) (*message.Amounts, error) {
	panic("pairedTransport does not support negotiation; scenario tests start post-negotiation")
}

func (t *pairedTransport) SendSwapMessage(_ context.Context, _ peer.ID, msg message.Message) error {
	t.peer.Deliver(msg)
	return nil
}

func (t *pairedTransport) PeerID() peer.ID { return t.self }

// newTestBackend wires a backend.Backend to mocked bitcoin.Chain/monero.Chain façades
// and transport, backed by an in-memory swap.Manager, mirroring the fixture
// protocol/alice and protocol/bob use for their own step-level tests.
func newTestBackend(
	t *testing.T,
	ctrl *gomock.Controller,
	params common.ExecutionParams,
	transport swapnet.Transport,
) (backend.Backend, *bitcoin.MockChain, *monero.MockChain) {
	t.Helper()

	btcChain := bitcoin.NewMockChain(ctrl)
	xmrChain := monero.NewMockChain(ctrl)

	mockDB := pswap.NewMockDatabase(ctrl)
	mockDB.EXPECT().GetAllSwaps().Return(nil, nil)
	mockDB.EXPECT().PutSwap(gomock.Any()).Return(nil).AnyTimes()
	manager, err := pswap.NewManager(mockDB)
	require.NoError(t, err)

	b := backend.NewBackend(backend.Config{
		Ctx:     context.Background(),
		Env:     common.Development,
		Params:  params,
		Bitcoin: btcChain,
		Monero:  xmrChain,
		Net:     transport,
		Manager: manager,
	})

	return b, btcChain, xmrChain
}

// toHandshakeWire mirrors protocol/alice's and protocol/bob's unexported
// handshakeToWire, which scenario tests need to hand-deliver a simulated
// counterparty's handshake the way protocol/orchestrator does for a freshly
// constructed bob.Swap (protocol/orchestrator/orchestrator.go).
func toHandshakeWire(swapID types.SwapID, m *swapcrypto.HandshakeMessage) *message.Handshake {
	return &message.Handshake{
		SwapID:             swapID,
		SpendKeyCommitment: m.SpendKeyCommitment,
		ViewKey:            [32]byte(m.ViewKey),
		Proof:              m.Proof,
		Secp256k1PubBytes:  m.Secp256k1PubBytes,
		BtcRefundAddr:      m.BtcRefundAddr,
	}
}

// testAmounts is the swap size shared across scenario tests.
func testAmounts() common.SwapAmounts {
	return common.SwapAmounts{BTC: common.BtcToSatoshi(1), XMR: common.XmrToPiconero(16)}
}

// newHandshakePair runs a real handshake between a simulated Alice and Bob, so a
// scenario test can build a checkpoint starting at any later state without replaying
// Started/Negotiated itself.
func newHandshakePair(
	t *testing.T,
	swapID types.SwapID,
	amounts common.SwapAmounts,
	params common.ExecutionParams,
) (*swapcrypto.AliceState3, *swapcrypto.BobState3) {
	t.Helper()

	s0, err := swapcrypto.AliceNewState0(swapID, amounts, params, "bcrt1qalicerefund")
	require.NoError(t, err)
	s2, bobMsg, err := swapcrypto.BobNewState2(swapID, amounts, params, "bcrt1qbobrefund")
	require.NoError(t, err)

	aliceS3, aliceMsg, err := swapcrypto.HandshakeAlice(s0, bobMsg)
	require.NoError(t, err)
	bobS3, err := swapcrypto.HandshakeBob(s2, aliceMsg)
	require.NoError(t, err)

	return aliceS3, bobS3
}

// blockUntilCancelled simulates a WatchUntilTimelock call on a timelock that never
// expires within the test's lifetime, so a scenario test can deterministically force
// a step's race to resolve via its message branch instead.
func blockUntilCancelled(ctx context.Context, _, _ uint32) error {
	<-ctx.Done()
	return ctx.Err()
}

// shortBobTimeToAct returns params with BobTimeToAct shortened so timeout scenario
// tests don't have to wait out a real 30s regtest deadline.
func shortBobTimeToAct(params common.ExecutionParams) common.ExecutionParams {
	params.BobTimeToAct = 20 * time.Millisecond
	return params
}
