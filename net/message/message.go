// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package message implements the canonical tagged wire encoding used by the
// negotiation and handshake sub-protocols (spec.md §6: "canonical binary tagged
// encoding (variant index + length-prefixed payload)"). Grounded on the teacher
// family's net/message package, whose tag-byte-then-JSON scheme we keep unchanged;
// only the message catalogue changes to match the BTC/XMR swap protocol.
package message

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
)

// Type identifies the concrete payload a Message carries.
type Type byte

const (
	AmountsFromBtcType Type = iota
	AmountsType
	HandshakeType
	NotifyBtcLockType
	NotifyXmrLockType
	NotifyReadyType
	NotifyBtcRedeemedType
	NotifyBtcCancelledType
	NotifyBtcRefundedType
)

func (t Type) String() string {
	switch t {
	case AmountsFromBtcType:
		return "AmountsFromBtc"
	case AmountsType:
		return "Amounts"
	case HandshakeType:
		return "Handshake"
	case NotifyBtcLockType:
		return "NotifyBtcLock"
	case NotifyXmrLockType:
		return "NotifyXmrLock"
	case NotifyReadyType:
		return "NotifyReady"
	case NotifyBtcRedeemedType:
		return "NotifyBtcRedeemed"
	case NotifyBtcCancelledType:
		return "NotifyBtcCancelled"
	case NotifyBtcRefundedType:
		return "NotifyBtcRefunded"
	default:
		return "unknown"
	}
}

// ProtocolVersion is the semver this build speaks; negotiation aborts before any lock
// if the counterparty advertises an incompatible major version (spec.md §4.3).
var ProtocolVersion = semver.MustParse("1.0.0")

// Message must be implemented by every value exchanged over the swap sub-protocols.
type Message interface {
	String() string
	Encode() ([]byte, error)
	Type() Type
}

var errInvalidMessage = errors.New("invalid message bytes")
var errUnknownMessageType = errors.New("unknown message type")

// DecodeMessage decodes b, which must begin with a one-byte Type tag followed by a
// JSON-encoded payload, into the concrete Message it tags.
func DecodeMessage(b []byte) (Message, error) {
	if len(b) == 0 {
		return nil, errInvalidMessage
	}

	switch Type(b[0]) {
	case AmountsFromBtcType:
		var m AmountsFromBtc
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	case AmountsType:
		var m Amounts
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	case HandshakeType:
		var m Handshake
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	case NotifyBtcLockType:
		var m NotifyBtcLock
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	case NotifyXmrLockType:
		var m NotifyXmrLock
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	case NotifyReadyType:
		var m NotifyReady
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	case NotifyBtcRedeemedType:
		var m NotifyBtcRedeemed
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	case NotifyBtcCancelledType:
		var m NotifyBtcCancelled
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	case NotifyBtcRefundedType:
		var m NotifyBtcRefunded
		if err := json.Unmarshal(b[1:], &m); err != nil {
			return nil, err
		}
		return &m, nil
	default:
		return nil, errUnknownMessageType
	}
}

func encode(t Type, m any) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(t)}, b...), nil
}

// AmountsFromBtc is Bob's opening negotiation request: "I want to give you this much
// BTC" (spec.md §4.3, BobToAlice::AmountsFromBtc).
type AmountsFromBtc struct {
	SwapID          types.SwapID
	BtcAmount       uint64
	ProtocolVersion string
}

func (m *AmountsFromBtc) String() string {
	return fmt.Sprintf("AmountsFromBtc SwapID=%s BtcAmount=%d", m.SwapID, m.BtcAmount)
}

// Encode implements Message.
func (m *AmountsFromBtc) Encode() ([]byte, error) { return encode(AmountsFromBtcType, m) }

// Type implements Message.
func (m *AmountsFromBtc) Type() Type { return AmountsFromBtcType }

// Amounts is Alice's negotiation response, quoting the XMR amount owed at her rate
// (spec.md §4.3, AliceToBob::Amounts).
type Amounts struct {
	SwapID          types.SwapID
	BtcAmount       uint64
	XmrAmount       uint64
	ProtocolVersion string
}

func (m *Amounts) String() string {
	return fmt.Sprintf("Amounts SwapID=%s BtcAmount=%d XmrAmount=%d", m.SwapID, m.BtcAmount, m.XmrAmount)
}

// Encode implements Message.
func (m *Amounts) Encode() ([]byte, error) { return encode(AmountsType, m) }

// Type implements Message.
func (m *Amounts) Type() Type { return AmountsType }

// Handshake carries one side's HandshakeMessage payload (spec.md §6): key
// commitments and a partial signature, opaque to everything except the crypto façade.
type Handshake struct {
	SwapID             types.SwapID
	SpendKeyCommitment [32]byte
	ViewKey            [32]byte
	Proof              []byte
	Secp256k1PubBytes  []byte
	BtcRefundAddr      string
}

func (m *Handshake) String() string {
	return fmt.Sprintf("Handshake SwapID=%s", m.SwapID)
}

// Encode implements Message.
func (m *Handshake) Encode() ([]byte, error) { return encode(HandshakeType, m) }

// Type implements Message.
func (m *Handshake) Type() Type { return HandshakeType }

// NotifyBtcLock is sent once the sender's BTC lock transaction is confirmed
// (spec.md §4.5, the message that moves the peer from Negotiated to BtcLocked).
type NotifyBtcLock struct {
	SwapID types.SwapID
	TxID   string
	Height uint32
}

func (m *NotifyBtcLock) String() string {
	return fmt.Sprintf("NotifyBtcLock SwapID=%s TxID=%s", m.SwapID, m.TxID)
}

// Encode implements Message.
func (m *NotifyBtcLock) Encode() ([]byte, error) { return encode(NotifyBtcLockType, m) }

// Type implements Message.
func (m *NotifyBtcLock) Type() Type { return NotifyBtcLockType }

// NotifyXmrLock is sent by Bob to Alice once his XMR lock transaction is confirmed
// (spec.md §4.5, BtcLocked -> XmrLocked for Alice).
type NotifyXmrLock struct {
	SwapID types.SwapID
	TxID   string
}

func (m *NotifyXmrLock) String() string {
	return fmt.Sprintf("NotifyXmrLock SwapID=%s TxID=%s", m.SwapID, m.TxID)
}

// Encode implements Message.
func (m *NotifyXmrLock) Encode() ([]byte, error) { return encode(NotifyXmrLockType, m) }

// Type implements Message.
func (m *NotifyXmrLock) Type() Type { return NotifyXmrLockType }

// NotifyReady is sent by Bob to Alice once his encrypted signature has been sent and
// he is ready for her to redeem (spec.md §4.5, Bob's EncSigSent).
type NotifyReady struct {
	SwapID types.SwapID
	EncKey [32]byte
}

func (m *NotifyReady) String() string {
	return fmt.Sprintf("NotifyReady SwapID=%s", m.SwapID)
}

// Encode implements Message.
func (m *NotifyReady) Encode() ([]byte, error) { return encode(NotifyReadyType, m) }

// Type implements Message.
func (m *NotifyReady) Type() Type { return NotifyReadyType }

// NotifyBtcRedeemed is sent by Alice to Bob after she redeems the bitcoin, so Bob does
// not need to watch the chain himself to learn the decrypted signature (spec.md §4.5).
type NotifyBtcRedeemed struct {
	SwapID types.SwapID
	TxID   string
}

func (m *NotifyBtcRedeemed) String() string {
	return fmt.Sprintf("NotifyBtcRedeemed SwapID=%s TxID=%s", m.SwapID, m.TxID)
}

// Encode implements Message.
func (m *NotifyBtcRedeemed) Encode() ([]byte, error) { return encode(NotifyBtcRedeemedType, m) }

// Type implements Message.
func (m *NotifyBtcRedeemed) Type() Type { return NotifyBtcRedeemedType }

// NotifyBtcCancelled is sent by whichever party broadcasts the cancel transaction
// first (spec.md §4.5, CancelTimelockExpired -> BtcCancelled).
type NotifyBtcCancelled struct {
	SwapID types.SwapID
	TxID   string
}

func (m *NotifyBtcCancelled) String() string {
	return fmt.Sprintf("NotifyBtcCancelled SwapID=%s TxID=%s", m.SwapID, m.TxID)
}

// Encode implements Message.
func (m *NotifyBtcCancelled) Encode() ([]byte, error) { return encode(NotifyBtcCancelledType, m) }

// Type implements Message.
func (m *NotifyBtcCancelled) Type() Type { return NotifyBtcCancelledType }

// NotifyBtcRefunded is sent by Bob after he refunds, so Alice can extract his spend
// key without having to watch the bitcoin chain herself (spec.md §4.5, BtcRefunded).
type NotifyBtcRefunded struct {
	SwapID types.SwapID
	TxID   string
}

func (m *NotifyBtcRefunded) String() string {
	return fmt.Sprintf("NotifyBtcRefunded SwapID=%s TxID=%s", m.SwapID, m.TxID)
}

// Encode implements Message.
func (m *NotifyBtcRefunded) Encode() ([]byte, error) { return encode(NotifyBtcRefundedType, m) }

// Type implements Message.
func (m *NotifyBtcRefunded) Type() Type { return NotifyBtcRefundedType }

// CompatibleVersion reports whether a counterparty-advertised semver is compatible
// with ours: same major version (spec.md's negotiation abort-on-mismatch behavior).
func CompatibleVersion(theirs string) (bool, error) {
	v, err := semver.NewVersion(theirs)
	if err != nil {
		return false, fmt.Errorf("invalid protocol version %q: %w", theirs, err)
	}
	return v.Major() == ProtocolVersion.Major(), nil
}
