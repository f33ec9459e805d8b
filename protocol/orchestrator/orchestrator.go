// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package orchestrator ties the transport's net.Handler interface to running
// protocol/alice and protocol/bob state machines (spec.md §4.6): it answers
// negotiation requests, starts new swaps, routes inbound messages to the swap they
// name, and resumes any swap left ongoing by a prior run.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	ilog "github.com/ipfs/go-log"
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
	"github.com/basalt-labs/xmr-btc-swap/protocol/alice"
	"github.com/basalt-labs/xmr-btc-swap/protocol/backend"
	"github.com/basalt-labs/xmr-btc-swap/protocol/bob"
)

var log = ilog.Logger("protocol/orchestrator")

// runningSwap is satisfied by both protocol/alice.Swap and protocol/bob.Swap, letting
// the orchestrator dispatch inbound messages without caring which role is running.
type runningSwap interface {
	Deliver(msg message.Message)
	Run(ctx context.Context) (types.EndState, error)
	ID() types.SwapID
}

// Orchestrator implements net.Handler.
type Orchestrator struct {
	b          backend.Backend
	rate       *common.ExchangeRate
	refundAddr string

	mu    sync.Mutex
	swaps map[types.SwapID]runningSwap
	done  map[types.SwapID]chan swapResult
}

type swapResult struct {
	end types.EndState
	err error
}

// New returns an Orchestrator quoting incoming negotiation requests at rate and using
// refundAddr as the swap driver's refund address (bitcoin for Alice, monero-side for
// Bob).
func New(b backend.Backend, rate *common.ExchangeRate, refundAddr string) *Orchestrator {
	return &Orchestrator{
		b:          b,
		rate:       rate,
		refundAddr: refundAddr,
		swaps:      make(map[types.SwapID]runningSwap),
		done:       make(map[types.SwapID]chan swapResult),
	}
}

// Wait blocks until the swap identified by id reaches a terminal state, returning its
// outcome. It must be called after the swap is tracked (i.e. after StartBobSwap or
// HandleNegotiation returns, or after ResumeAll).
func (o *Orchestrator) Wait(ctx context.Context, id types.SwapID) (types.EndState, error) {
	o.mu.Lock()
	ch, ok := o.done[id]
	o.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("no tracked swap with id %s", id)
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res := <-ch:
		return res.end, res.err
	}
}

// HandleNegotiation implements net.Handler: Alice quotes the requested BTC amount and
// begins tracking the new swap (spec.md §4.3).
func (o *Orchestrator) HandleNegotiation(from peer.ID, req *message.AmountsFromBtc) (*message.Amounts, error) {
	if ok, err := message.CompatibleVersion(req.ProtocolVersion); err != nil || !ok {
		return nil, fmt.Errorf("incompatible protocol version %q", req.ProtocolVersion)
	}

	btc := common.BtcAmount(req.BtcAmount)
	xmr, err := o.rate.ToXMR(btc)
	if err != nil {
		return nil, fmt.Errorf("failed to quote swap: %w", err)
	}

	amounts := common.SwapAmounts{BTC: btc, XMR: xmr}
	sw, err := alice.NewSwap(o.b, amounts, from, o.refundAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start swap: %w", err)
	}

	o.track(sw)
	go o.run(sw)

	return &message.Amounts{
		SwapID:          sw.ID(),
		BtcAmount:       req.BtcAmount,
		XmrAmount:       xmr.Uint64(),
		ProtocolVersion: message.ProtocolVersion.String(),
	}, nil
}

// HandleSwapMessage implements net.Handler: routes msg to the running swap it names.
func (o *Orchestrator) HandleSwapMessage(_ peer.ID, swapID types.SwapID, msg message.Message) error {
	o.mu.Lock()
	sw, ok := o.swaps[swapID]
	o.mu.Unlock()
	if !ok {
		return fmt.Errorf("no running swap with id %s", swapID)
	}
	sw.Deliver(msg)
	return nil
}

// StartBobSwap negotiates with alice over btcAmount and, once she quotes it, starts
// Bob's side of the swap (spec.md §4.3, BobToAlice::AmountsFromBtc).
func (o *Orchestrator) StartBobSwap(ctx context.Context, aliceID peer.ID, btcAmount common.BtcAmount) (types.SwapID, error) {
	swapID, err := types.NewSwapID()
	if err != nil {
		return types.SwapID{}, err
	}

	resp, err := o.b.Net().SendNegotiationRequest(ctx, aliceID, &message.AmountsFromBtc{
		SwapID:          swapID,
		BtcAmount:       btcAmount.Uint64(),
		ProtocolVersion: message.ProtocolVersion.String(),
	})
	if err != nil {
		return types.SwapID{}, fmt.Errorf("negotiation failed: %w", err)
	}
	if resp.SwapID != swapID {
		return types.SwapID{}, fmt.Errorf("alice responded with a mismatched swap id")
	}

	amounts := common.SwapAmounts{BTC: common.BtcAmount(resp.BtcAmount), XMR: common.XmrAmount(resp.XmrAmount)}

	s2, handshakeMsg, err := swapcrypto.BobNewState2(swapID, amounts, o.b.Params(), o.refundAddr)
	if err != nil {
		return types.SwapID{}, err
	}

	sw, err := bob.NewSwap(o.b, s2, amounts, aliceID)
	if err != nil {
		return types.SwapID{}, err
	}

	if err := o.b.Net().SendSwapMessage(ctx, aliceID, handshakeToWire(swapID, handshakeMsg)); err != nil {
		return types.SwapID{}, fmt.Errorf("failed to send handshake: %w", err)
	}

	o.track(sw)
	go o.run(sw)

	return swapID, nil
}

// ResumeAll resumes every swap left ongoing by a prior run (spec.md §4.6, "resumes
// from any state").
func (o *Orchestrator) ResumeAll(_ context.Context) error {
	infos, err := o.b.SwapManager().GetOngoingSwaps()
	if err != nil {
		return fmt.Errorf("failed to list ongoing swaps: %w", err)
	}

	for _, info := range infos {
		var sw runningSwap
		var resumeErr error
		if info.IsAlice {
			sw, resumeErr = alice.ResumeSwap(o.b, info)
		} else {
			sw, resumeErr = bob.ResumeSwap(o.b, info)
		}
		if resumeErr != nil {
			log.Errorf("failed to resume swap %s: %s", info.SwapID, resumeErr)
			continue
		}
		o.track(sw)
		go o.run(sw)
	}
	return nil
}

func (o *Orchestrator) track(sw runningSwap) {
	o.mu.Lock()
	o.swaps[sw.ID()] = sw
	o.done[sw.ID()] = make(chan swapResult, 1)
	o.mu.Unlock()
}

func (o *Orchestrator) run(sw runningSwap) {
	end, err := sw.Run(o.b.Ctx())
	if err != nil {
		log.Errorf("swap %s: failed: %s", sw.ID(), err)
	} else {
		log.Infof("swap %s: finished with %s", sw.ID(), end)
	}

	o.mu.Lock()
	ch := o.done[sw.ID()]
	o.mu.Unlock()
	ch <- swapResult{end: end, err: err}
}

func handshakeToWire(swapID types.SwapID, m *swapcrypto.HandshakeMessage) *message.Handshake {
	return &message.Handshake{
		SwapID:             swapID,
		SpendKeyCommitment: m.SpendKeyCommitment,
		ViewKey:            [32]byte(m.ViewKey),
		Proof:              m.Proof,
		Secp256k1PubBytes:  m.Secp256k1PubBytes,
		BtcRefundAddr:      m.BtcRefundAddr,
	}
}
