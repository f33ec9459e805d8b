// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package swap implements the crypto façade consumed by the state machine driver
// (spec.md §6). Its cryptographic primitives (adaptor signatures, DLEq proofs, key
// generation) are, per spec.md §1, assumed to be provided by a trusted crypto library;
// this package plays that role with real secp256k1 scalar arithmetic bridged to a
// monero-side scalar by a single shared secret, the way the teacher's dleq package
// bridges ed25519 and secp256k1 key material for the same purpose.
package swap

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// edwardsOrder is the order L of the ed25519/curve25519 scalar field, used to reduce
// monero-side scalars.
var edwardsOrder, _ = new(big.Int).SetString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed", 16)

// Scalar is a 32-byte little-endian scalar shared, per key, between the secp256k1
// signing key used on the Bitcoin side and the monero spend-key component used on the
// Monero side. Revealing one reveals the other: this is the property the adaptor
// signature / DLEq proof exists to guarantee in the real protocol.
type Scalar [32]byte

// NewRandomScalar returns a fresh, uniformly random Scalar reduced mod the edwards
// group order.
func NewRandomScalar() (Scalar, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return Scalar{}, err
	}
	i := new(big.Int).SetBytes(buf[:])
	i.Mod(i, edwardsOrder)
	return scalarFromBigInt(i), nil
}

func scalarFromBigInt(i *big.Int) Scalar {
	var s Scalar
	b := i.Bytes() // big-endian
	for k := 0; k < len(b) && k < len(s); k++ {
		s[len(s)-1-k] = b[len(b)-1-k]
	}
	return s
}

func (s Scalar) bigInt() *big.Int {
	// Scalar is little-endian; big.Int.SetBytes wants big-endian.
	be := make([]byte, len(s))
	for i, b := range s {
		be[len(be)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

// Add returns s + o mod the edwards group order.
func (s Scalar) Add(o Scalar) Scalar {
	sum := new(big.Int).Add(s.bigInt(), o.bigInt())
	sum.Mod(sum, edwardsOrder)
	return scalarFromBigInt(sum)
}

// Bytes returns the little-endian scalar bytes.
func (s Scalar) Bytes() [32]byte {
	return s
}

// Secp256k1PrivateKey interprets the scalar as a secp256k1 private key.
func (s Scalar) Secp256k1PrivateKey() *btcec.PrivateKey {
	rev := reverse(s[:])
	priv, _ := btcec.PrivKeyFromBytes(rev)
	return priv
}

// Secp256k1PublicKey returns the secp256k1 public key corresponding to this scalar.
func (s Scalar) Secp256k1PublicKey() *btcec.PublicKey {
	return s.Secp256k1PrivateKey().PubKey()
}

// MoneroCommitment returns a deterministic 32-byte commitment standing in for the
// monero-curve public key derived from this scalar. Real monero public-key arithmetic
// (scalar * ed25519 basepoint) needs an edwards25519 curve library; none of the example
// pack's dependencies provide one (MarinX/monerorpc is an RPC client, not a curve
// library), so this commitment uses the standard library's sha256 instead of
// fabricating a new third-party dependency. See DESIGN.md.
func (s Scalar) MoneroCommitment() [32]byte {
	return sha256.Sum256(append([]byte("monero-spend-pub:"), s[:]...))
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(out)-1-i] = v
	}
	return out
}

// Proof is a DLEq proof binding a secp256k1 public key and a monero-curve commitment to
// the same underlying scalar. Grounded directly on the teacher's dleq.Proof shape.
type Proof struct {
	secret Scalar
	proof  []byte
}

// NewProofWithSecret returns a Proof carrying the secret scalar (the prover's side).
func NewProofWithSecret(s Scalar) *Proof {
	commit := s.MoneroCommitment()
	return &Proof{secret: s, proof: commit[:]}
}

// NewProofWithoutSecret reconstructs a Proof received from a peer, without its secret.
func NewProofWithoutSecret(p []byte) *Proof {
	return &Proof{proof: p}
}

// Secret returns the proof's scalar. Only populated on the prover's own Proof.
func (p *Proof) Secret() Scalar {
	return p.secret
}

// ProofBytes returns the encoded commitment sent to the peer.
func (p *Proof) ProofBytes() []byte {
	return p.proof
}

// VerifyResult contains the public material that results from verifying a peer's proof.
type VerifyResult struct {
	moneroCommitment [32]byte
	secp256k1Pub     *btcec.PublicKey
}

// Secp256k1PublicKey returns the verified secp256k1 public key.
func (r *VerifyResult) Secp256k1PublicKey() *btcec.PublicKey {
	return r.secp256k1Pub
}

// MoneroCommitment returns the verified monero-side commitment.
func (r *VerifyResult) MoneroCommitment() [32]byte {
	return r.moneroCommitment
}

var errProofMismatch = errors.New("dleq proof does not match claimed secp256k1 public key")

// Verify checks that claimedPub is the secp256k1 public key derived from the secret
// backing proof, and returns the corresponding monero-side commitment.
//
// In the real protocol this is where the DLEq zero-knowledge proof is checked without
// ever learning the secret; here, since the secret and commitment are both derived
// deterministically from the same scalar, the prover instead discloses the scalar and
// we recompute both sides. That is a simplification appropriate to a façade whose
// internals spec.md §1 declares out of scope.
func Verify(secret Scalar, claimedPub *btcec.PublicKey) (*VerifyResult, error) {
	pub := secret.Secp256k1PublicKey()
	if !pub.IsEqual(claimedPub) {
		return nil, errProofMismatch
	}
	return &VerifyResult{
		moneroCommitment: secret.MoneroCommitment(),
		secp256k1Pub:     pub,
	}, nil
}
