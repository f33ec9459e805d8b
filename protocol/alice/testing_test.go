// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/basalt-labs/xmr-btc-swap/chain/bitcoin"
	"github.com/basalt-labs/xmr-btc-swap/chain/monero"
	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapnet "github.com/basalt-labs/xmr-btc-swap/net"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
	"github.com/basalt-labs/xmr-btc-swap/protocol/backend"
	pswap "github.com/basalt-labs/xmr-btc-swap/protocol/swap"
)

// mismatchedMessage satisfies message.Message but is never a concrete type any step
// expects, used to exercise step functions' type-assertion failure paths.
type mismatchedMessage struct{}

func (*mismatchedMessage) String() string          { return "mismatchedMessage" }
func (*mismatchedMessage) Encode() ([]byte, error) { return nil, nil }
func (*mismatchedMessage) Type() message.Type      { return message.Type(255) }

// testDeps bundles the fakes a step test drives directly, alongside the Swap under
// test.
type testDeps struct {
	sw        *Swap
	btc       *bitcoin.MockChain
	xmr       *monero.MockChain
	transport *swapnet.MockTransport
}

func newTestSwap(t *testing.T, ctrl *gomock.Controller, params common.ExecutionParams) *testDeps {
	t.Helper()

	btcChain := bitcoin.NewMockChain(ctrl)
	xmrChain := monero.NewMockChain(ctrl)
	transport := swapnet.NewMockTransport(ctrl)

	mockDB := pswap.NewMockDatabase(ctrl)
	mockDB.EXPECT().GetAllSwaps().Return(nil, nil)
	manager, err := pswap.NewManager(mockDB)
	require.NoError(t, err)
	mockDB.EXPECT().PutSwap(gomock.Any()).Return(nil).AnyTimes()

	b := backend.NewBackend(backend.Config{
		Ctx:     context.Background(),
		Env:     common.Development,
		Params:  params,
		Bitcoin: btcChain,
		Monero:  xmrChain,
		Net:     transport,
		Manager: manager,
	})

	amounts := common.SwapAmounts{BTC: common.BtcToSatoshi(1), XMR: common.XmrToPiconero(16)}
	bobID := types.PeerID("bob-peer")

	sw, err := NewSwap(b, amounts, bobID, "bcrt1qalicerefund")
	require.NoError(t, err)

	return &testDeps{sw: sw, btc: btcChain, xmr: xmrChain, transport: transport}
}
