// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package bob

import (
	"context"
	"fmt"

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

	cancelTx := swapcrypto.BuildBTCCancel(sw.state.LockTx)
	cancelTxHash := cancelTx.TxHash()

	if _, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (struct{}, error) {
		_, err := sw.backend.Bitcoin().Publish(ctx, cancelTx)
		return struct{}{}, err
	}); err != nil {
		return nil, "", fmt.Errorf("failed to publish btc cancel: %w", err)
	}

	if _, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (struct{}, error) {
		return struct{}{}, sw.backend.Bitcoin().WaitConfirmed(ctx, &cancelTxHash, params.BitcoinFinalityConfirmations)
	}); err != nil {
		return nil, "", fmt.Errorf("failed waiting for btc cancel finality: %w", err)
	}

	cancelHeight, err := sw.backend.Bitcoin().Tip(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch chain tip after cancel: %w", err)
	}

	if err := sw.backend.Net().SendSwapMessage(ctx, sw.alice, &message.NotifyBtcCancelled{
		SwapID: sw.info.SwapID,
		TxID:   cancelTxHash.String(),
	}); err != nil {
		log.Warnf("swap %s: failed to notify alice of btc cancel: %s", sw.info.SwapID, err)
	}

	return &State{
		Kind:         BtcCancelled,
		S3:           sw.state.S3,
		S4:           sw.state.S4,
		CancelTx:     cancelTx,
		CancelHeight: cancelHeight,
	}, types.TriggerChainEvent, nil
}
