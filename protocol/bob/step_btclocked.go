// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package bob

import (
	"context"
	"fmt"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepBtcLocked races Alice's xmr lock against the cancel timelock (spec.md §4.5,
// BtcLocked -> one of {XmrLocked, CancelTimelockExpired}; the timelock-based condition
// takes priority on a tie).
func (sw *Swap) stepBtcLocked(ctx context.Context) (*State, types.TriggerType, error) {
	params := sw.backend.Params()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	timelockCh := make(chan error, 1)
	go func() {
		timelockCh <- sw.backend.Bitcoin().WatchUntilTimelock(watchCtx, sw.state.LockHeight, params.BitcoinCancelTimelock)
	}()

	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()

	case err := <-timelockCh:
		if err != nil {
			return nil, "", fmt.Errorf("failed watching cancel timelock: %w", err)
		}
		return &State{
			Kind:       CancelTimelockExpired,
			S3:         sw.state.S3,
			LockTx:     sw.state.LockTx,
			LockHeight: sw.state.LockHeight,
		}, types.TriggerTimelockExpired, nil

	case m := <-sw.inbound:
		notif, ok := m.(*message.NotifyXmrLock)
		if !ok {
			return nil, "", fmt.Errorf("expected xmr lock notification, got %T", m)
		}

		select {
		case err := <-timelockCh:
			if err != nil {
				return nil, "", fmt.Errorf("failed watching cancel timelock: %w", err)
			}
			return &State{
				Kind:       CancelTimelockExpired,
				S3:         sw.state.S3,
				LockTx:     sw.state.LockTx,
				LockHeight: sw.state.LockHeight,
			}, types.TriggerTimelockExpired, nil
		default:
		}

		if _, err := common.Retry(ctx, params.MoneroAvgBlockTime, func() (struct{}, error) {
			return struct{}{}, sw.backend.Monero().WaitConfirmed(ctx, notif.TxID, params.MoneroFinalityConfirmations)
		}); err != nil {
			return nil, "", fmt.Errorf("failed waiting for xmr lock finality: %w", err)
		}

		return &State{
			Kind:       XmrLocked,
			S3:         sw.state.S3,
			LockTx:     sw.state.LockTx,
			LockHeight: sw.state.LockHeight,
			XmrTxID:    notif.TxID,
		}, types.TriggerPeerMessage, nil
	}
}
