// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package alice

import (
	"context"
	"fmt"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

// stepStarted waits for Bob's handshake message, advances the crypto façade from S0
// to S3, and replies with her own handshake message (spec.md §4.5, Started -> Negotiated).
func (sw *Swap) stepStarted(ctx context.Context) (*State, types.TriggerType, error) {
	ctx, cancel := context.WithTimeout(ctx, sw.backend.Params().BobTimeToAct)
	defer cancel()

	var bobMsg *message.Handshake
	select {
	case <-ctx.Done():
		return &State{Kind: Done, End: types.SafelyAborted}, types.TriggerTimelockExpired, nil
	case m := <-sw.inbound:
		hs, ok := m.(*message.Handshake)
		if !ok {
			return nil, "", fmt.Errorf("expected handshake message, got %T", m)
		}
		bobMsg = hs
	}

	s3, aliceMsg, err := swapcrypto.HandshakeAlice(sw.state.S0, handshakeFromWire(bobMsg))
	if err != nil {
		return &State{Kind: Done, End: types.SafelyAborted}, types.TriggerPeerMessage,
			fmt.Errorf("handshake verification failed: %w", err)
	}

	if err := sw.backend.Net().SendSwapMessage(ctx, sw.bob, handshakeToWire(sw.info.SwapID, aliceMsg)); err != nil {
		return nil, "", fmt.Errorf("failed to send handshake response: %w", err)
	}

	return &State{Kind: Negotiated, S3: s3}, types.TriggerPeerMessage, nil
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

func handshakeToWire(swapID types.SwapID, m *swapcrypto.HandshakeMessage) *message.Handshake {
	return &message.Handshake{
		SwapID:             swapID,
		SpendKeyCommitment: m.SpendKeyCommitment,
		ViewKey:            [32]byte(m.ViewKey),
		Proof:              m.Proof,
		Secp256k1PubBytes:  m.Secp256k1PubBytes,
		BtcRefundAddr:      m.BtcRefundAddr,
	}
}
