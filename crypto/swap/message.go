// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import "github.com/btcsuite/btcd/btcec/v2"

// HandshakeMessage is the opaque key-commitment/partial-signature payload carried on
// the handshake sub-protocol (spec.md §6: "key commitments, partial signatures").
// Its wire encoding lives in net/message; this package only defines its cryptographic
// content.
type HandshakeMessage struct {
	SpendKeyCommitment [32]byte
	ViewKey            PrivateViewKey
	Proof              []byte
	Secp256k1PubBytes  []byte
	BtcRefundAddr      string
}

func (m *HandshakeMessage) secp256k1PublicKey() (*btcec.PublicKey, error) {
	return btcec.ParsePubKey(m.Secp256k1PubBytes)
}
