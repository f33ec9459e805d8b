// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package backend bundles everything a swap driver needs to reach outside its own
// state: the chain façades, the transport, the persisted swap manager, and the
// negotiated execution parameters. Grounded on the teacher's protocol/backend.Backend,
// generalized from its Ethereum-specific surface (ETHClient, SwapCreatorAddr,
// NewTxSender) to the BTC/XMR façades this swap actually uses.
package backend

import (
	"context"

	"github.com/basalt-labs/xmr-btc-swap/chain/bitcoin"
	"github.com/basalt-labs/xmr-btc-swap/chain/monero"
	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	"github.com/basalt-labs/xmr-btc-swap/net"
	"github.com/basalt-labs/xmr-btc-swap/protocol/swap"
)

// Backend is the set of dependencies a running swap driver (protocol/alice,
// protocol/bob) needs beyond its own state.
type Backend interface {
	Ctx() context.Context
	Env() common.Environment
	Params() common.ExecutionParams

	Bitcoin() bitcoin.Chain
	Monero() monero.Chain
	Net() net.Transport

	SwapManager() swap.Manager

	// PeerID is our own identity on the transport, used to tag outgoing messages and
	// to recognize our own echoes.
	PeerID() types.PeerID
}

type backend struct {
	ctx    context.Context
	env    common.Environment
	params common.ExecutionParams

	btc  bitcoin.Chain
	xmr  monero.Chain
	host net.Transport

	manager swap.Manager
}

// Config constructs a Backend from its concrete dependencies; cmd/swapd is the only
// caller outside of tests.
type Config struct {
	Ctx     context.Context
	Env     common.Environment
	Params  common.ExecutionParams
	Bitcoin bitcoin.Chain
	Monero  monero.Chain
	Net     net.Transport
	Manager swap.Manager
}

// NewBackend returns a Backend wrapping cfg's dependencies.
func NewBackend(cfg Config) Backend {
	return &backend{
		ctx:     cfg.Ctx,
		env:     cfg.Env,
		params:  cfg.Params,
		btc:     cfg.Bitcoin,
		xmr:     cfg.Monero,
		host:    cfg.Net,
		manager: cfg.Manager,
	}
}

func (b *backend) Ctx() context.Context           { return b.ctx }
func (b *backend) Env() common.Environment        { return b.env }
func (b *backend) Params() common.ExecutionParams { return b.params }
func (b *backend) Bitcoin() bitcoin.Chain         { return b.btc }
func (b *backend) Monero() monero.Chain           { return b.xmr }
func (b *backend) Net() net.Transport             { return b.host }
func (b *backend) SwapManager() swap.Manager      { return b.manager }
func (b *backend) PeerID() types.PeerID           { return b.host.PeerID() }
