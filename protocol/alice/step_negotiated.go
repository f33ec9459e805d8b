// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepNegotiated waits for Bob's BTC lock transaction to be announced and reach
// finality (spec.md §4.5, Negotiated -> BtcLocked).
func (sw *Swap) stepNegotiated(ctx context.Context) (*State, types.TriggerType, error) {
	var notif *message.NotifyBtcLock
	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	case m := <-sw.inbound:
		n, ok := m.(*message.NotifyBtcLock)
		if !ok {
			return nil, "", fmt.Errorf("expected btc lock notification, got %T", m)
		}
		notif = n
	}

	txid, err := chainhash.NewHashFromStr(notif.TxID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid btc lock txid: %w", err)
	}

	params := sw.backend.Params()

	lockTx, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (*wire.MsgTx, error) {
		return sw.backend.Bitcoin().GetRawTransaction(ctx, txid)
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch btc lock transaction: %w", err)
	}

	if _, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (struct{}, error) {
		return struct{}{}, sw.backend.Bitcoin().WaitConfirmed(ctx, txid, params.BitcoinFinalityConfirmations)
	}); err != nil {
		return nil, "", fmt.Errorf("failed waiting for btc lock finality: %w", err)
	}

	return &State{Kind: BtcLocked, S3: sw.state.S3, BobLockTx: lockTx, LockHeight: notif.Height}, types.TriggerChainEvent, nil
}
