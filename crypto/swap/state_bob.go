// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import (
	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
)

// BobState2 is Bob's crypto session before the handshake completes (spec.md §3, Bob's
// S2).
type BobState2 struct {
	SwapID     types.SwapID
	Amounts    common.SwapAmounts
	Params     common.ExecutionParams
	RefundAddr string

	secret  Scalar
	viewKey PrivateViewKey
}

// BobState3 is Bob's crypto session once the handshake has completed (spec.md §3,
// Bob's S3).
type BobState3 struct {
	SwapID  types.SwapID
	Amounts common.SwapAmounts
	Params  common.ExecutionParams

	ownSecret  Scalar
	ownViewKey PrivateViewKey

	aliceCommitment [32]byte
	aliceViewKey    PrivateViewKey
	aliceSecp256k1  *btcec.PublicKey
	aliceRefundAddr string
}

// BobState4 is Bob's crypto session after he has sent his encrypted signature over the
// BTC redeem transaction (spec.md §3, Bob's S4): it additionally remembers the
// encryption key so he can later recover Alice's secret from her redeem broadcast.
type BobState4 struct {
	BobState3
	encKey Scalar
}

// BobState5 is Bob's crypto session after extracting Alice's revealed spend key from
// her redeem transaction (spec.md §3, Bob's S5).
type BobState5 struct {
	BobState4
	aliceSecret Scalar
}

// JointMoneroKeys returns the public key pair for the locked monero output.
func (s *BobState3) JointMoneroKeys() *PublicKeyPair {
	own := PrivateKeyPair{Spend: PrivateSpendKey(s.ownSecret), View: s.ownViewKey}
	ownPub := own.PublicKeyPair()
	alicePub := &PublicKeyPair{SpendPub: s.aliceCommitment, ViewPub: s.aliceViewKey.MoneroCommitment()}
	return SumSpendAndViewKeys(alicePub, ownPub)
}

// JointPrivateViewKey returns the sum of both parties' view key shares, which either
// side can compute on their own since view keys are exchanged in the clear during the
// handshake.
func (s *BobState3) JointPrivateViewKey() PrivateViewKey {
	return SumPrivateViewKeys(s.ownViewKey, s.aliceViewKey)
}

// OwnSecp256k1PrivateKey returns Bob's own secp256k1 signing key for the lock/cancel
// scripts.
func (s *BobState3) OwnSecp256k1PrivateKey() *btcec.PrivateKey {
	return s.ownSecret.Secp256k1PrivateKey()
}

// AliceSecp256k1PublicKey returns Alice's secp256k1 public key as learned during the
// handshake.
func (s *BobState3) AliceSecp256k1PublicKey() *btcec.PublicKey {
	return s.aliceSecp256k1
}
