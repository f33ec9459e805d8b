// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package bob

import (
	"context"
	"fmt"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
)

// stepBtcRedeemed sweeps the locked monero using Alice's disclosed spend key share
// (spec.md §4.5, BtcRedeemed -> Done(XmrRedeemed)).
func (sw *Swap) stepBtcRedeemed(ctx context.Context) (*State, types.TriggerType, error) {
	keys := &swapcrypto.PrivateKeyPair{
		Spend: *sw.state.SpendKey,
		View:  sw.state.S3.JointPrivateViewKey(),
	}

	if err := sw.backend.Monero().CreateFromKeys(ctx, keys, 0); err != nil {
		return nil, "", fmt.Errorf("failed to recover monero wallet: %w", err)
	}

	return &State{Kind: Done, End: types.XmrRedeemed}, types.TriggerChainEvent, nil
}
