// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepCancelTimelockExpired publishes the cancel transaction (spec.md §4.5,
// CancelTimelockExpired -> BtcCancelled). Publishing is idempotent: whoever
// broadcasts second just observes the already-confirmed txid (spec.md §4.6).
func (sw *Swap) stepCancelTimelockExpired(ctx context.Context) (*State, types.TriggerType, error) {
	params := sw.backend.Params()

	cancelTx := swapcrypto.BuildBTCCancel(sw.state.BobLockTx)

	txid, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (*chainhash.Hash, error) {
		return sw.backend.Bitcoin().Publish(ctx, cancelTx)
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to publish btc cancel: %w", err)
	}

	if _, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (struct{}, error) {
		return struct{}{}, sw.backend.Bitcoin().WaitConfirmed(ctx, txid, params.BitcoinFinalityConfirmations)
	}); err != nil {
		return nil, "", fmt.Errorf("failed waiting for btc cancel finality: %w", err)
	}

	cancelHeight, err := sw.backend.Bitcoin().Tip(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch chain tip after cancel: %w", err)
	}

	if err := sw.backend.Net().SendSwapMessage(ctx, sw.bob, &message.NotifyBtcCancelled{
		SwapID: sw.info.SwapID,
		TxID:   txid.String(),
	}); err != nil {
		log.Warnf("swap %s: failed to notify bob of btc cancel: %s", sw.info.SwapID, err)
	}

	return &State{
		Kind:         BtcCancelled,
		S3:           sw.state.S3,
		BobLockTx:    sw.state.BobLockTx,
		LockHeight:   sw.state.LockHeight,
		CancelTx:     cancelTx,
		CancelHeight: cancelHeight,
	}, types.TriggerChainEvent, nil
}
