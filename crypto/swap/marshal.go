// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
)

// The session types in this package carry their own secret scalars as unexported
// fields so callers outside the crypto façade can never read them directly; each type
// below defines its own JSON encoding so the orchestrator's persisted checkpoints
// (spec.md §4.4, §8 "persistence round-trip") still capture that secret state.

type aliceState0JSON struct {
	SwapID     types.SwapID
	Amounts    common.SwapAmounts
	Params     common.ExecutionParams
	RefundAddr string
	Secret     Scalar
	ViewKey    PrivateViewKey
}

// MarshalJSON implements json.Marshaler.
func (s *AliceState0) MarshalJSON() ([]byte, error) {
	return json.Marshal(aliceState0JSON{
		SwapID: s.SwapID, Amounts: s.Amounts, Params: s.Params, RefundAddr: s.RefundAddr,
		Secret: s.secret, ViewKey: s.viewKey,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *AliceState0) UnmarshalJSON(b []byte) error {
	var j aliceState0JSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*s = AliceState0{
		SwapID: j.SwapID, Amounts: j.Amounts, Params: j.Params, RefundAddr: j.RefundAddr,
		secret: j.Secret, viewKey: j.ViewKey,
	}
	return nil
}

type aliceState3JSON struct {
	SwapID        types.SwapID
	Amounts       common.SwapAmounts
	Params        common.ExecutionParams
	OwnSecret     Scalar
	OwnViewKey    PrivateViewKey
	BobCommitment [32]byte
	BobViewKey    PrivateViewKey
	BobSecp256k1  []byte
	BobRefundAddr string
}

// MarshalJSON implements json.Marshaler.
func (s *AliceState3) MarshalJSON() ([]byte, error) {
	return json.Marshal(aliceState3JSON{
		SwapID: s.SwapID, Amounts: s.Amounts, Params: s.Params,
		OwnSecret: s.ownSecret, OwnViewKey: s.ownViewKey,
		BobCommitment: s.bobCommitment, BobViewKey: s.bobViewKey,
		BobSecp256k1:  s.bobSecp256k1.SerializeCompressed(),
		BobRefundAddr: s.bobRefundAddr,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *AliceState3) UnmarshalJSON(b []byte) error {
	var j aliceState3JSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	pub, err := btcec.ParsePubKey(j.BobSecp256k1)
	if err != nil {
		return fmt.Errorf("failed to decode bob secp256k1 key: %w", err)
	}
	*s = AliceState3{
		SwapID: j.SwapID, Amounts: j.Amounts, Params: j.Params,
		ownSecret: j.OwnSecret, ownViewKey: j.OwnViewKey,
		bobCommitment: j.BobCommitment, bobViewKey: j.BobViewKey,
		bobSecp256k1:  pub,
		bobRefundAddr: j.BobRefundAddr,
	}
	return nil
}

type bobState2JSON struct {
	SwapID     types.SwapID
	Amounts    common.SwapAmounts
	Params     common.ExecutionParams
	RefundAddr string
	Secret     Scalar
	ViewKey    PrivateViewKey
}

// MarshalJSON implements json.Marshaler.
func (s *BobState2) MarshalJSON() ([]byte, error) {
	return json.Marshal(bobState2JSON{
		SwapID: s.SwapID, Amounts: s.Amounts, Params: s.Params, RefundAddr: s.RefundAddr,
		Secret: s.secret, ViewKey: s.viewKey,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *BobState2) UnmarshalJSON(b []byte) error {
	var j bobState2JSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*s = BobState2{
		SwapID: j.SwapID, Amounts: j.Amounts, Params: j.Params, RefundAddr: j.RefundAddr,
		secret: j.Secret, viewKey: j.ViewKey,
	}
	return nil
}

type bobState3JSON struct {
	SwapID          types.SwapID
	Amounts         common.SwapAmounts
	Params          common.ExecutionParams
	OwnSecret       Scalar
	OwnViewKey      PrivateViewKey
	AliceCommitment [32]byte
	AliceViewKey    PrivateViewKey
	AliceSecp256k1  []byte
	AliceRefundAddr string
}

func (s *BobState3) toJSON() bobState3JSON {
	return bobState3JSON{
		SwapID: s.SwapID, Amounts: s.Amounts, Params: s.Params,
		OwnSecret: s.ownSecret, OwnViewKey: s.ownViewKey,
		AliceCommitment: s.aliceCommitment, AliceViewKey: s.aliceViewKey,
		AliceSecp256k1:  s.aliceSecp256k1.SerializeCompressed(),
		AliceRefundAddr: s.aliceRefundAddr,
	}
}

func bobState3FromJSON(j bobState3JSON) (BobState3, error) {
	pub, err := btcec.ParsePubKey(j.AliceSecp256k1)
	if err != nil {
		return BobState3{}, fmt.Errorf("failed to decode alice secp256k1 key: %w", err)
	}
	return BobState3{
		SwapID: j.SwapID, Amounts: j.Amounts, Params: j.Params,
		ownSecret: j.OwnSecret, ownViewKey: j.OwnViewKey,
		aliceCommitment: j.AliceCommitment, aliceViewKey: j.AliceViewKey,
		aliceSecp256k1:  pub,
		aliceRefundAddr: j.AliceRefundAddr,
	}, nil
}

// MarshalJSON implements json.Marshaler.
func (s *BobState3) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.toJSON())
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *BobState3) UnmarshalJSON(b []byte) error {
	var j bobState3JSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	st, err := bobState3FromJSON(j)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

type bobState4JSON struct {
	BobState3 bobState3JSON
	EncKey    Scalar
}

// MarshalJSON implements json.Marshaler.
func (s *BobState4) MarshalJSON() ([]byte, error) {
	return json.Marshal(bobState4JSON{BobState3: s.BobState3.toJSON(), EncKey: s.encKey})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *BobState4) UnmarshalJSON(b []byte) error {
	var j bobState4JSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	base, err := bobState3FromJSON(j.BobState3)
	if err != nil {
		return err
	}
	*s = BobState4{BobState3: base, encKey: j.EncKey}
	return nil
}

type bobState5JSON struct {
	BobState4   bobState4JSON
	AliceSecret Scalar
}

// MarshalJSON implements json.Marshaler.
func (s *BobState5) MarshalJSON() ([]byte, error) {
	return json.Marshal(bobState5JSON{
		BobState4:   bobState4JSON{BobState3: s.BobState3.toJSON(), EncKey: s.encKey},
		AliceSecret: s.aliceSecret,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *BobState5) UnmarshalJSON(b []byte) error {
	var j bobState5JSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	base3, err := bobState3FromJSON(j.BobState4.BobState3)
	if err != nil {
		return err
	}
	*s = BobState5{
		BobState4:   BobState4{BobState3: base3, encKey: j.BobState4.EncKey},
		aliceSecret: j.AliceSecret,
	}
	return nil
}

type encSigJSON struct {
	EncKey Scalar
}

// MarshalJSON implements json.Marshaler.
func (e *EncSig) MarshalJSON() ([]byte, error) {
	return json.Marshal(encSigJSON{EncKey: e.encKey})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EncSig) UnmarshalJSON(b []byte) error {
	var j encSigJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*e = EncSig{encKey: j.EncKey}
	return nil
}
