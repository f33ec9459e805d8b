// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepBtcLocked publishes and confirms the XMR lock, then notifies Bob
// (spec.md §4.5, BtcLocked -> XmrLocked; invariant: "Alice never publishes XMR lock
// before observing BTC lock confirmed").
func (sw *Swap) stepBtcLocked(ctx context.Context) (*State, types.TriggerType, error) {
	params := sw.backend.Params()

	destAddr, amount := swapcrypto.BuildXMRLock(sw.state.S3, sw.backend.Env())

	if qr, err := qrcode.New(string(destAddr), qrcode.Medium); err == nil {
		log.Infof("swap %s: %s\n%s", sw.info.SwapID, color.YellowString("locking %s to %s", amount, destAddr), qr.ToString(false))
	}

	txID, err := common.Retry(ctx, params.MoneroAvgBlockTime, func() (string, error) {
		return sw.backend.Monero().Transfer(ctx, destAddr, amount)
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to publish xmr lock: %w", err)
	}

	if _, err := common.Retry(ctx, params.MoneroAvgBlockTime, func() (struct{}, error) {
		return struct{}{}, sw.backend.Monero().WaitConfirmed(ctx, txID, params.MoneroFinalityConfirmations)
	}); err != nil {
		return nil, "", fmt.Errorf("failed waiting for xmr lock finality: %w", err)
	}

	if err := sw.backend.Net().SendSwapMessage(ctx, sw.bob, &message.NotifyXmrLock{
		SwapID: sw.info.SwapID,
		TxID:   txID,
	}); err != nil {
		return nil, "", fmt.Errorf("failed to notify bob of xmr lock: %w", err)
	}

	return &State{
		Kind:       XmrLocked,
		S3:         sw.state.S3,
		BobLockTx:  sw.state.BobLockTx,
		LockHeight: sw.state.LockHeight,
		XmrTxID:    txID,
	}, types.TriggerChainEvent, nil
}
