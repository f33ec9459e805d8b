// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/basalt-labs/xmr-btc-swap/common"
)

// PrivateSpendKey is one party's share of the joint monero spend key.
type PrivateSpendKey Scalar

// PrivateViewKey is one party's share of the joint monero view key. Unlike the spend
// key, the view key is disclosed to the counterparty in the clear during the handshake
// (spec.md §6, SendKeys-equivalent messages) so each side can independently watch the
// joint address without being able to spend from it.
type PrivateViewKey Scalar

// PublicKeyPair is a monero-curve public spend/view key pair.
type PublicKeyPair struct {
	SpendPub [32]byte
	ViewPub  [32]byte
}

// PrivateKeyPair is a monero-curve private spend/view key pair.
type PrivateKeyPair struct {
	Spend PrivateSpendKey
	View  PrivateViewKey
}

// SpendKey returns the spend-key half of the pair.
func (kp *PrivateKeyPair) SpendKey() PrivateSpendKey {
	return kp.Spend
}

// ViewKey returns the view-key half of the pair.
func (kp *PrivateKeyPair) ViewKey() PrivateViewKey {
	return kp.View
}

// PublicKeyPair derives the public commitments for this private key pair.
func (kp *PrivateKeyPair) PublicKeyPair() *PublicKeyPair {
	return &PublicKeyPair{
		SpendPub: Scalar(kp.Spend).MoneroCommitment(),
		ViewPub:  Scalar(kp.View).MoneroCommitment(),
	}
}

// GenerateMoneroKeyPair returns a fresh random monero private key pair.
func GenerateMoneroKeyPair() (*PrivateKeyPair, error) {
	sk, err := NewRandomScalar()
	if err != nil {
		return nil, err
	}
	vk, err := NewRandomScalar()
	if err != nil {
		return nil, err
	}
	return &PrivateKeyPair{Spend: PrivateSpendKey(sk), View: PrivateViewKey(vk)}, nil
}

// SumPrivateSpendKeys returns the sum of two private spend key shares, the joint spend
// key that can sweep the locked monero output.
func SumPrivateSpendKeys(a, b PrivateSpendKey) PrivateSpendKey {
	return PrivateSpendKey(Scalar(a).Add(Scalar(b)))
}

// SumPrivateViewKeys returns the sum of two private view key shares.
func SumPrivateViewKeys(a, b PrivateViewKey) PrivateViewKey {
	return PrivateViewKey(Scalar(a).Add(Scalar(b)))
}

// SumSpendAndViewKeys combines two parties' public key pairs into the joint public key
// pair for the locked monero output's address.
func SumSpendAndViewKeys(a, b *PublicKeyPair) *PublicKeyPair {
	// Commitments are hashes, not curve points, so "summing" them is itself a
	// commitment over the pair; see Scalar.MoneroCommitment.
	return &PublicKeyPair{
		SpendPub: commitPair(a.SpendPub, b.SpendPub),
		ViewPub:  commitPair(a.ViewPub, b.ViewPub),
	}
}

func commitPair(a, b [32]byte) [32]byte {
	var buf [64]byte
	copy(buf[:32], a[:])
	copy(buf[32:], b[:])
	return hashSum(buf[:])
}

// Address is a monero wallet address, base58-encoded the way monero addresses are in
// practice (standard monero uses a CryptoNote variant of base58; we use the same
// alphabet the pack's btcutil dependency already provides rather than adding a new
// monero-specific encoding library, since the core spec does not require the real
// on-wire address format — the chain façade consumes an opaque Address string either
// way; see DESIGN.md).
type Address string

// DeriveAddress returns the monero address for the given public key pair under env.
func DeriveAddress(pub *PublicKeyPair, env common.Environment) Address {
	var buf [65]byte
	buf[0] = byte(env)
	copy(buf[1:33], pub.SpendPub[:])
	copy(buf[33:], pub.ViewPub[:])
	return Address(base58.Encode(buf[:]))
}

// Hex returns the hex encoding of a public key half, matching the teacher's
// mcrypto.PublicKey.Hex() convention used in wire messages.
func Hex(pub [32]byte) string {
	return hex.EncodeToString(pub[:])
}
