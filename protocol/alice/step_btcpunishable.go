// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
)

// stepBtcPunishable punishes Bob for failing to refund before the punish timelock
// expired (spec.md §4.5, BtcPunishable -> Done(BtcPunished)).
func (sw *Swap) stepBtcPunishable(ctx context.Context) (*State, types.TriggerType, error) {
	params := sw.backend.Params()

	punishTx := swapcrypto.BuildBTCPunish(sw.state.S3, sw.state.CancelTx)

	if _, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (struct{}, error) {
		_, err := sw.backend.Bitcoin().Publish(ctx, punishTx)
		return struct{}{}, err
	}); err != nil {
		return nil, "", fmt.Errorf("failed to publish btc punish: %w", err)
	}

	return &State{Kind: Done, End: types.BtcPunished}, types.TriggerChainEvent, nil
}
