// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
)

// stepBtcRefunded recovers Alice's locked monero using Bob's disclosed spend key
// share (spec.md §4.5, BtcRefunded -> Done(XmrRefunded)).
func (sw *Swap) stepBtcRefunded(ctx context.Context) (*State, types.TriggerType, error) {
	keys := &swapcrypto.PrivateKeyPair{
		Spend: *sw.state.SpendKey,
		View:  sw.state.S3.JointPrivateViewKey(),
	}

	if err := sw.backend.Monero().CreateFromKeys(ctx, keys, 0); err != nil {
		return nil, "", fmt.Errorf("failed to recover monero wallet: %w", err)
	}

	return &State{Kind: Done, End: types.XmrRefunded}, types.TriggerChainEvent, nil
}
