// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import (
	"encoding/json"
	"time"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
)

// Status is the coarse lifecycle stage of a persisted swap: still running, or
// finished with some types.EndState.
type Status struct {
	ongoing  bool
	endState types.EndState
}

// Ongoing is the Status of a swap that has not yet reached a terminal state.
var Ongoing = Status{ongoing: true}

// Ended returns the Status for a swap that finished in end.
func Ended(end types.EndState) Status {
	return Status{ongoing: false, endState: end}
}

// IsOngoing reports whether the swap has not yet reached a terminal state.
func (s Status) IsOngoing() bool {
	return s.ongoing
}

// EndState returns the terminal outcome; only meaningful when !IsOngoing().
func (s Status) EndState() types.EndState {
	return s.endState
}

type statusJSON struct {
	Ongoing  bool
	EndState types.EndState
}

// MarshalJSON implements json.Marshaler. Status carries unexported fields, which
// encoding/json would otherwise silently drop, corrupting the persisted Info record
// (spec.md §4.6).
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(statusJSON{Ongoing: s.ongoing, EndState: s.endState})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(b []byte) error {
	var j statusJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	*s = Status{ongoing: j.Ongoing, endState: j.EndState}
	return nil
}

// Info is the persisted checkpoint for one swap (spec.md §4.4, §4.6): enough to
// resume the driver's state machine from any point after a crash, indexed by SwapID
// in the Database.
type Info struct {
	SwapID    types.SwapID
	IsAlice   bool
	PeerID    types.PeerID
	Amounts   common.SwapAmounts
	Status    Status
	StartTime time.Time
	EndTime   *time.Time

	// Checkpoint is the driver's own opaque, role-specific encoding of its current
	// AliceState or BobState variant plus crypto session (spec.md §4.4's tagged
	// Swap=Alice(AliceState)|Bob(BobState) encoding). Manager never interprets it;
	// only protocol/alice and protocol/bob do, on resume.
	Checkpoint []byte
}
