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

// stepBtcCancelled publishes Bob's refund transaction as soon as the cancel tx has
// confirmed (spec.md §4.5, BtcCancelled -> Done(BtcRefunded)): the cancel output's
// refund path is spendable immediately, unlike Alice's punish path, which is gated on
// BitcoinPunishTimelock. Waiting here would hand Alice that exact window to punish
// instead (spec.md §8, "exactly one refunded / never both punished").
func (sw *Swap) stepBtcCancelled(ctx context.Context) (*State, types.TriggerType, error) {
	params := sw.backend.Params()

	refundTx := swapcrypto.BuildBTCRefund(sw.state.S4, sw.state.CancelTx)

	if _, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (struct{}, error) {
		_, err := sw.backend.Bitcoin().Publish(ctx, refundTx)
		return struct{}{}, err
	}); err != nil {
		return nil, "", fmt.Errorf("failed to publish btc refund: %w", err)
	}

	if err := sw.backend.Net().SendSwapMessage(ctx, sw.alice, &message.NotifyBtcRefunded{
		SwapID: sw.info.SwapID,
		TxID:   refundTx.TxHash().String(),
	}); err != nil {
		log.Warnf("swap %s: failed to notify alice of btc refund: %s", sw.info.SwapID, err)
	}

	return &State{Kind: Done, End: types.BtcRefunded}, types.TriggerChainEvent, nil
}
