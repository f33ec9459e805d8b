// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepXmrLocked races Bob's encrypted signature against the cancel timelock
// (spec.md §4.5, XmrLocked -> one of {EncSigLearned, CancelTimelockExpired}; the
// timelock-based condition takes priority on a tie).
func (sw *Swap) stepXmrLocked(ctx context.Context) (*State, types.TriggerType, error) {
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
			BobLockTx:  sw.state.BobLockTx,
			LockHeight: sw.state.LockHeight,
		}, types.TriggerTimelockExpired, nil

	case m := <-sw.inbound:
		ready, ok := m.(*message.NotifyReady)
		if !ok {
			return nil, "", fmt.Errorf("expected ready notification, got %T", m)
		}
		// the timelock goroutine may also have fired by now; prefer it on a tie
		select {
		case err := <-timelockCh:
			if err != nil {
				return nil, "", fmt.Errorf("failed watching cancel timelock: %w", err)
			}
			return &State{
				Kind:       CancelTimelockExpired,
				S3:         sw.state.S3,
				BobLockTx:  sw.state.BobLockTx,
				LockHeight: sw.state.LockHeight,
			}, types.TriggerTimelockExpired, nil
		default:
		}

		return &State{
			Kind:       EncSigLearned,
			S3:         sw.state.S3,
			BobLockTx:  sw.state.BobLockTx,
			LockHeight: sw.state.LockHeight,
			EncSig:     swapcrypto.EncSigFromBytes(ready.EncKey),
		}, types.TriggerPeerMessage, nil
	}
}
