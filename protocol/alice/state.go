// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package alice implements Alice's half of the swap state machine (spec.md §4.5,
// "Alice's transitions"): she holds XMR and wants BTC. Grounded on the teacher's
// protocol/xmrmaker driver (the equivalent role in its generation of the protocol),
// adapted from its ETH/contract semantics onto a Bitcoin-lock / Monero-lock swap.
package alice

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
)

// Kind tags the current position in Alice's transition graph (spec.md §3, Alice's
// states). Its numeric order matches the spec's state enumeration and is the order
// monotonicity is checked against (spec.md §8: "index(s) is strictly increasing").
type Kind int

const (
	Started Kind = iota
	Negotiated
	BtcLocked
	XmrLocked
	EncSigLearned
	CancelTimelockExpired
	BtcCancelled
	BtcPunishable
	BtcRefunded
	Done
)

func (k Kind) String() string {
	switch k {
	case Started:
		return "Started"
	case Negotiated:
		return "Negotiated"
	case BtcLocked:
		return "BtcLocked"
	case XmrLocked:
		return "XmrLocked"
	case EncSigLearned:
		return "EncSigLearned"
	case CancelTimelockExpired:
		return "CancelTimelockExpired"
	case BtcCancelled:
		return "BtcCancelled"
	case BtcPunishable:
		return "BtcPunishable"
	case BtcRefunded:
		return "BtcRefunded"
	case Done:
		return "Done"
	default:
		return "unknown"
	}
}

// State is the tagged variant of Alice's checkpointable position (spec.md §3). Only
// the fields relevant to Kind are populated; the rest are the zero value.
type State struct {
	Kind Kind

	S0 *swapcrypto.AliceState0 // Started
	S3 *swapcrypto.AliceState3 // Negotiated onward

	BobLockTx  *wire.MsgTx // recorded at BtcLocked, needed to build the cancel tx
	LockHeight uint32      // chain height at which BobLockTx reached finality
	XmrTxID    string      // recorded at XmrLocked

	EncSig *swapcrypto.EncSig // EncSigLearned

	CancelTx     *wire.MsgTx // recorded at BtcCancelled, needed to build punish/refund-observation
	CancelHeight uint32      // chain height at which CancelTx reached finality

	SpendKey *swapcrypto.PrivateSpendKey // BtcRefunded

	End types.EndState // Done
}

// NewStarted returns the initial State for a freshly negotiated swap.
func NewStarted(s0 *swapcrypto.AliceState0) *State {
	return &State{Kind: Started, S0: s0}
}
