// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package bob

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	ilog "github.com/ipfs/go-log"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
	"github.com/basalt-labs/xmr-btc-swap/protocol/backend"
	pswap "github.com/basalt-labs/xmr-btc-swap/protocol/swap"
)

var log = ilog.Logger("protocol/bob")

// Swap drives one running instance of Bob's state machine to completion
// (spec.md §4.6, the per-swap task the orchestrator runs).
type Swap struct {
	backend backend.Backend
	info    *pswap.Info
	state   *State
	alice   types.PeerID

	inbound chan message.Message
}

// NewSwap begins a freshly negotiated swap with Alice, s2 and amounts having already
// been agreed during the negotiation sub-protocol.
func NewSwap(
	b backend.Backend,
	s2 *swapcrypto.BobState2,
	amounts common.SwapAmounts,
	alice types.PeerID,
) (*Swap, error) {
	info := &pswap.Info{
		SwapID:    s2.SwapID,
		IsAlice:   false,
		PeerID:    alice,
		Amounts:   amounts,
		Status:    pswap.Ongoing,
		StartTime: time.Now(),
	}

	sw := &Swap{
		backend: b,
		info:    info,
		state:   NewNegotiated(s2),
		alice:   alice,
		inbound: make(chan message.Message, 8),
	}

	stateBytes, err := json.Marshal(sw.state)
	if err != nil {
		return nil, err
	}
	info.Checkpoint = stateBytes
	if err := b.SwapManager().AddSwap(info); err != nil {
		return nil, fmt.Errorf("failed to persist new swap %s: %w", s2.SwapID, err)
	}
	return sw, nil
}

// ResumeSwap reconstructs a Swap from its persisted checkpoint (spec.md §4.6,
// "resumes from any state").
func ResumeSwap(b backend.Backend, info *pswap.Info) (*Swap, error) {
	if info.IsAlice {
		return nil, fmt.Errorf("swap %s is not a bob swap", info.SwapID)
	}
	var st State
	if err := json.Unmarshal(info.Checkpoint, &st); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint for swap %s: %w", info.SwapID, err)
	}
	return &Swap{
		backend: b,
		info:    info,
		state:   &st,
		alice:   info.PeerID,
		inbound: make(chan message.Message, 8),
	}, nil
}

// ID returns the swap's identifier.
func (sw *Swap) ID() types.SwapID { return sw.info.SwapID }

// Deliver routes an inbound handshake or notify message to this running swap
// (called by the net.Host dispatcher; spec.md §4.5's message-driven transitions).
func (sw *Swap) Deliver(msg message.Message) {
	select {
	case sw.inbound <- msg:
	default:
		log.Warnf("swap %s: dropped inbound message, channel full", sw.info.SwapID)
	}
}

// Run drives the state machine to a terminal Done state (spec.md §4.6).
func (sw *Swap) Run(ctx context.Context) (types.EndState, error) {
	for sw.state.Kind != Done {
		next, trigger, err := sw.step(ctx)
		if err != nil {
			return 0, fmt.Errorf("swap %s: step from %s failed: %w", sw.info.SwapID, sw.state.Kind, err)
		}
		prev := sw.state.Kind
		sw.state = next
		log.Infof("swap %s: %s -> %s (%s)", sw.info.SwapID, prev, sw.state.Kind, trigger)
		if err := sw.persist(trigger); err != nil {
			return 0, fmt.Errorf("swap %s: failed to persist state %s: %w", sw.info.SwapID, sw.state.Kind, err)
		}
	}
	return sw.state.End, sw.complete()
}

func (sw *Swap) step(ctx context.Context) (*State, types.TriggerType, error) {
	switch sw.state.Kind {
	case Negotiated:
		return sw.stepNegotiated(ctx)
	case BtcLocked:
		return sw.stepBtcLocked(ctx)
	case XmrLocked:
		return sw.stepXmrLocked(ctx)
	case EncSigSent:
		return sw.stepEncSigSent(ctx)
	case BtcRedeemed:
		return sw.stepBtcRedeemed(ctx)
	case CancelTimelockExpired:
		return sw.stepCancelTimelockExpired(ctx)
	case BtcCancelled:
		return sw.stepBtcCancelled(ctx)
	default:
		return nil, "", fmt.Errorf("no transition defined for state %s", sw.state.Kind)
	}
}

func (sw *Swap) persist(trigger types.TriggerType) error {
	b, err := json.Marshal(sw.state)
	if err != nil {
		return err
	}
	sw.info.Checkpoint = b
	if sw.state.Kind == Done {
		sw.info.Status = pswap.Ended(sw.state.End)
		return sw.backend.SwapManager().CompleteOngoingSwap(sw.info)
	}
	_ = trigger // logged above; kept as a parameter so every call site names its cause
	return sw.backend.SwapManager().WriteSwapToDB(sw.info)
}

func (sw *Swap) complete() error {
	log.Infof("swap %s: finished with %s", sw.info.SwapID, sw.state.End)
	return nil
}
