// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import (
	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
)

// AliceState0 is Alice's crypto session before the handshake completes (spec.md §3,
// Alice's S0). It holds her own freshly generated secret and nothing about Bob yet.
type AliceState0 struct {
	SwapID     types.SwapID
	Amounts    common.SwapAmounts
	Params     common.ExecutionParams
	RefundAddr string

	secret  Scalar
	viewKey PrivateViewKey
}

// AliceState3 is Alice's crypto session once the handshake has completed (spec.md §3,
// Alice's S3): it carries her own secret plus everything learned about Bob, and is the
// only state the rest of her driver ever touches again.
type AliceState3 struct {
	SwapID  types.SwapID
	Amounts common.SwapAmounts
	Params  common.ExecutionParams

	ownSecret  Scalar
	ownViewKey PrivateViewKey

	bobCommitment [32]byte
	bobViewKey    PrivateViewKey
	bobSecp256k1  *btcec.PublicKey
	bobRefundAddr string
}

// JointMoneroKeys returns the public key pair for the locked monero output.
func (s *AliceState3) JointMoneroKeys() *PublicKeyPair {
	own := PrivateKeyPair{Spend: PrivateSpendKey(s.ownSecret), View: s.ownViewKey}
	ownPub := own.PublicKeyPair()
	bobPub := &PublicKeyPair{SpendPub: s.bobCommitment, ViewPub: s.bobViewKey.MoneroCommitment()}
	return SumSpendAndViewKeys(ownPub, bobPub)
}

// JointPrivateViewKey returns the sum of both parties' view key shares, which either
// side can compute on their own since view keys are exchanged in the clear during the
// handshake (spec.md §6, extract_monero_spend_key's companion view key).
func (s *AliceState3) JointPrivateViewKey() PrivateViewKey {
	return SumPrivateViewKeys(s.ownViewKey, s.bobViewKey)
}

// OwnSecp256k1PrivateKey returns Alice's own secp256k1 signing key for the lock/cancel
// scripts.
func (s *AliceState3) OwnSecp256k1PrivateKey() *btcec.PrivateKey {
	return s.ownSecret.Secp256k1PrivateKey()
}

// BobSecp256k1PublicKey returns Bob's secp256k1 public key as learned during the
// handshake.
func (s *AliceState3) BobSecp256k1PublicKey() *btcec.PublicKey {
	return s.bobSecp256k1
}
