// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepEncSigLearned decrypts Bob's adaptor signature, redeems the BTC lock, and
// notifies Bob (spec.md §4.5, EncSigLearned -> Done(BtcRedeemed)).
func (sw *Swap) stepEncSigLearned(ctx context.Context) (*State, types.TriggerType, error) {
	params := sw.backend.Params()

	decrypted := swapcrypto.DecryptSignature(sw.state.S3, sw.state.EncSig)
	redeemTx := swapcrypto.BuildBTCRedeem(sw.state.S3, sw.state.BobLockTx, decrypted)

	txid, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (string, error) {
		hash, err := sw.backend.Bitcoin().Publish(ctx, redeemTx)
		if err != nil {
			return "", err
		}
		return hash.String(), nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to publish btc redeem: %w", err)
	}

	if err := sw.backend.Net().SendSwapMessage(ctx, sw.bob, &message.NotifyBtcRedeemed{
		SwapID: sw.info.SwapID,
		TxID:   txid,
	}); err != nil {
		log.Warnf("swap %s: failed to notify bob of btc redeem: %s", sw.info.SwapID, err)
	}

	return &State{Kind: Done, End: types.BtcRedeemed}, types.TriggerChainEvent, nil
}
