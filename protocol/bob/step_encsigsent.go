// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package bob

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepEncSigSent races Alice's btc redeem against the cancel timelock (spec.md §4.5,
// EncSigSent -> one of {BtcRedeemed, CancelTimelockExpired}; the timelock-based
// condition takes priority on a tie).
func (sw *Swap) stepEncSigSent(ctx context.Context) (*State, types.TriggerType, error) {
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
			S4:         sw.state.S4,
			LockTx:     sw.state.LockTx,
			LockHeight: sw.state.LockHeight,
		}, types.TriggerTimelockExpired, nil

	case m := <-sw.inbound:
		redeemed, ok := m.(*message.NotifyBtcRedeemed)
		if !ok {
			return nil, "", fmt.Errorf("expected btc redeemed notification, got %T", m)
		}

		select {
		case err := <-timelockCh:
			if err != nil {
				return nil, "", fmt.Errorf("failed watching cancel timelock: %w", err)
			}
			return &State{
				Kind:       CancelTimelockExpired,
				S3:         sw.state.S3,
				S4:         sw.state.S4,
				LockTx:     sw.state.LockTx,
				LockHeight: sw.state.LockHeight,
			}, types.TriggerTimelockExpired, nil
		default:
		}

		return sw.observeBtcRedeem(ctx, redeemed)
	}
}

// observeBtcRedeem fetches Alice's redeem transaction and extracts the joint monero
// spend key it discloses (spec.md §6, extract_monero_spend_key_from_redeem).
func (sw *Swap) observeBtcRedeem(ctx context.Context, redeemed *message.NotifyBtcRedeemed) (*State, types.TriggerType, error) {
	txid, err := chainhash.NewHashFromStr(redeemed.TxID)
	if err != nil {
		return nil, "", fmt.Errorf("invalid btc redeem txid: %w", err)
	}

	redeemTx, err := sw.backend.Bitcoin().GetRawTransaction(ctx, txid)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch btc redeem transaction: %w", err)
	}

	s5, spendKey, err := swapcrypto.ExtractMoneroSpendKeyFromRedeem(redeemTx, sw.state.S4)
	if err != nil {
		return nil, "", fmt.Errorf("failed to extract monero spend key: %w", err)
	}

	return &State{
		Kind:     BtcRedeemed,
		S3:       sw.state.S3,
		S4:       sw.state.S4,
		S5:       s5,
		SpendKey: &spendKey,
	}, types.TriggerPeerMessage, nil
}
