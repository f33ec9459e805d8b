// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package bob

import (
	"context"
	"fmt"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepXmrLocked produces Bob's adaptor-encrypted signature over the BTC redeem and
// sends it to Alice (spec.md §4.5, XmrLocked -> EncSigSent).
func (sw *Swap) stepXmrLocked(ctx context.Context) (*State, types.TriggerType, error) {
	s4, encSig, err := swapcrypto.EncryptSignature(sw.state.S3)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encrypt signature: %w", err)
	}

	if err := sw.backend.Net().SendSwapMessage(ctx, sw.alice, &message.NotifyReady{
		SwapID: sw.info.SwapID,
		EncKey: encSig.Bytes(),
	}); err != nil {
		return nil, "", fmt.Errorf("failed to send encrypted signature: %w", err)
	}

	return &State{
		Kind:       EncSigSent,
		S3:         sw.state.S3,
		S4:         s4,
		LockTx:     sw.state.LockTx,
		LockHeight: sw.state.LockHeight,
		XmrTxID:    sw.state.XmrTxID,
	}, types.TriggerPeerMessage, nil
}
