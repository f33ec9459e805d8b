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

// stepNegotiated waits for Alice's handshake response, builds and publishes Bob's BTC
// lock transaction, and notifies Alice (spec.md §4.5, Negotiated -> BtcLocked).
func (sw *Swap) stepNegotiated(ctx context.Context) (*State, types.TriggerType, error) {
	ctx, cancel := context.WithTimeout(ctx, sw.backend.Params().BobTimeToAct)
	defer cancel()

	var aliceMsg *message.Handshake
	select {
	case <-ctx.Done():
		return &State{Kind: Done, End: types.SafelyAborted}, types.TriggerTimelockExpired, nil
	case m := <-sw.inbound:
		hs, ok := m.(*message.Handshake)
		if !ok {
			return nil, "", fmt.Errorf("expected handshake message, got %T", m)
		}
		aliceMsg = hs
	}

	s3, err := swapcrypto.HandshakeBob(sw.state.S2, handshakeFromWire(aliceMsg))
	if err != nil {
		return &State{Kind: Done, End: types.SafelyAborted}, types.TriggerPeerMessage,
			fmt.Errorf("handshake verification failed: %w", err)
	}

	params := sw.backend.Params()
	lockTx := swapcrypto.BuildBTCLockBob(s3)
	lockTxHash := lockTx.TxHash()

	if _, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (struct{}, error) {
		_, err := sw.backend.Bitcoin().Publish(ctx, lockTx)
		return struct{}{}, err
	}); err != nil {
		return nil, "", fmt.Errorf("failed to publish btc lock: %w", err)
	}

	if _, err := common.Retry(ctx, params.BitcoinAvgBlockTime, func() (struct{}, error) {
		return struct{}{}, sw.backend.Bitcoin().WaitConfirmed(ctx, &lockTxHash, params.BitcoinFinalityConfirmations)
	}); err != nil {
		return nil, "", fmt.Errorf("failed waiting for btc lock finality: %w", err)
	}

	lockHeight, err := sw.backend.Bitcoin().Tip(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch chain tip after btc lock: %w", err)
	}

	if err := sw.backend.Net().SendSwapMessage(ctx, sw.alice, &message.NotifyBtcLock{
		SwapID: sw.info.SwapID,
		TxID:   lockTxHash.String(),
		Height: lockHeight,
	}); err != nil {
		return nil, "", fmt.Errorf("failed to notify alice of btc lock: %w", err)
	}

	return &State{Kind: BtcLocked, S3: s3, LockTx: lockTx, LockHeight: lockHeight}, types.TriggerPeerMessage, nil
}

func handshakeFromWire(m *message.Handshake) *swapcrypto.HandshakeMessage {
	return &swapcrypto.HandshakeMessage{
		SpendKeyCommitment: m.SpendKeyCommitment,
		ViewKey:            swapcrypto.PrivateViewKey(m.ViewKey),
		Proof:              m.Proof,
		Secp256k1PubBytes:  m.Secp256k1PubBytes,
		BtcRefundAddr:      m.BtcRefundAddr,
	}
}
