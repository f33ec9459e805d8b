// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package bob implements Bob's half of the swap state machine (spec.md §4.5, "Bob's
// transitions"): he holds BTC and wants XMR. Mirrors protocol/alice's shape, grounded
// additionally on the teacher family's xmrtaker/protocol.go (the equivalent role in
// its generation of the protocol).
package bob

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
)

// Kind tags the current position in Bob's transition graph (spec.md §3, Bob's states).
type Kind int

const (
	Negotiated Kind = iota
	BtcLocked
	XmrLocked
	EncSigSent
	BtcRedeemed
	CancelTimelockExpired
	BtcCancelled
	Done
)

func (k Kind) String() string {
	switch k {
	case Negotiated:
		return "Negotiated"
	case BtcLocked:
		return "BtcLocked"
	case XmrLocked:
		return "XmrLocked"
	case EncSigSent:
		return "EncSigSent"
	case BtcRedeemed:
		return "BtcRedeemed"
	case CancelTimelockExpired:
		return "CancelTimelockExpired"
	case BtcCancelled:
		return "BtcCancelled"
	case Done:
		return "Done"
	default:
		return "unknown"
	}
}

// State is the tagged variant of Bob's checkpointable position (spec.md §3). Only the
// fields relevant to Kind are populated; the rest are the zero value.
type State struct {
	Kind Kind

	S2 *swapcrypto.BobState2 // Negotiated, before handshake response arrives
	S3 *swapcrypto.BobState3 // handshake complete onward
	S4 *swapcrypto.BobState4 // EncSigSent onward
	S5 *swapcrypto.BobState5 // BtcRedeemed onward

	LockTx       *wire.MsgTx // Bob's own BTC lock, recorded at BtcLocked
	LockHeight   uint32      // chain height at which LockTx reached finality
	XmrTxID      string      // recorded at XmrLocked, Alice's xmr lock txid
	CancelTx     *wire.MsgTx // recorded at BtcCancelled
	CancelHeight uint32      // chain height at which CancelTx reached finality

	SpendKey *swapcrypto.PrivateSpendKey // BtcRedeemed

	End types.EndState // Done
}

// NewNegotiated returns the initial State for a freshly negotiated swap.
func NewNegotiated(s2 *swapcrypto.BobState2) *State {
	return &State{Kind: Negotiated, S2: s2}
}
