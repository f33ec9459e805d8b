// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepBtcCancelled races Bob's refund against the punish timelock (spec.md §4.5,
// BtcCancelled -> one of {BtcRefunded, BtcPunishable}; the timelock-based condition
// takes priority on a tie).
func (sw *Swap) stepBtcCancelled(ctx context.Context) (*State, types.TriggerType, error) {
	params := sw.backend.Params()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()

	timelockCh := make(chan error, 1)
	go func() {
		timelockCh <- sw.backend.Bitcoin().WatchUntilTimelock(watchCtx, sw.state.CancelHeight, params.BitcoinPunishTimelock)
	}()

	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()

	case err := <-timelockCh:
		if err != nil {
			return nil, "", fmt.Errorf("failed watching punish timelock: %w", err)
		}
		return &State{
			Kind:         BtcPunishable,
			S3:           sw.state.S3,
			CancelTx:     sw.state.CancelTx,
			CancelHeight: sw.state.CancelHeight,
		}, types.TriggerTimelockExpired, nil

	case m := <-sw.inbound:
		refund, ok := m.(*message.NotifyBtcRefunded)
		if !ok {
			return nil, "", fmt.Errorf("expected btc refund notification, got %T", m)
		}
		// the timelock goroutine may also have fired by now; prefer it on a tie
		select {
		case err := <-timelockCh:
			if err != nil {
				return nil, "", fmt.Errorf("failed watching punish timelock: %w", err)
			}
			return &State{
				Kind:         BtcPunishable,
				S3:           sw.state.S3,
				CancelTx:     sw.state.CancelTx,
				CancelHeight: sw.state.CancelHeight,
			}, types.TriggerTimelockExpired, nil
		default:
		}

		return sw.observeBtcRefund(ctx, refund)
	}
}

// observeBtcRefund fetches Bob's refund transaction and extracts the joint monero
// spend key it discloses (spec.md §6, extract_monero_spend_key).
func (sw *Swap) observeBtcRefund(ctx context.Context, refund *message.NotifyBtcRefunded) (*State, types.TriggerType, error) {
	txid, err := chainhash.NewHashFromStr(refund.TxID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid btc refund txid: %w", err)
	}

	refundTx, err := sw.backend.Bitcoin().GetRawTransaction(ctx, txid)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch btc refund transaction: %w", err)
	}

	spendKey, err := swapcrypto.ExtractMoneroSpendKey(refundTx, sw.state.S3)
	if err != nil {
		return nil, "", fmt.Errorf("failed to extract monero spend key: %w", err)
	}

	return &State{
		Kind:         BtcRefunded,
		S3:           sw.state.S3,
		CancelTx:     sw.state.CancelTx,
		CancelHeight: sw.state.CancelHeight,
		SpendKey:     &spendKey,
	}, types.TriggerPeerMessage, nil
}
