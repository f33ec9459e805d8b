// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package bitcoin defines the Bitcoin chain façade consumed by the swap drivers
// (spec.md §5): publishing transactions, waiting for confirmations, and watching a
// locking script until one of its timelocks expires. Only the façade's interface and
// an rpcclient-backed implementation live here; the wallet and full node themselves are
// out of scope (spec.md §1).
package bitcoin

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	ilog "github.com/ipfs/go-log"

	"github.com/basalt-labs/xmr-btc-swap/common"
)

var log = ilog.Logger("chain/bitcoin")

// Chain is the façade the swap drivers use to publish and observe bitcoin
// transactions (spec.md §5, Bitcoin façade).
//
//go:generate mockgen -destination=mock_chain.go -package=bitcoin . Chain
type Chain interface {
	// Publish broadcasts tx and returns its txid. Publishing a transaction whose txid
	// is already confirmed is a no-op that returns the existing txid (spec.md §4.6,
	// idempotent publish).
	Publish(ctx context.Context, tx *wire.MsgTx) (*chainhash.Hash, error)

	// WaitConfirmed blocks until txid has reached the network's finality confirmation
	// depth (common.ExecutionParams.BitcoinFinalityConfirmations).
	WaitConfirmed(ctx context.Context, txid *chainhash.Hash, confirmations uint32) error

	// Tip returns the current chain height, used to record a lock transaction's
	// confirmation height for later timelock arithmetic.
	Tip(ctx context.Context) (uint32, error)

	// WatchUntilTimelock blocks until the chain tip reaches lockHeight+timelock, or
	// returns early with ctx.Err() if ctx is cancelled first.
	WatchUntilTimelock(ctx context.Context, lockHeight, timelock uint32) error

	// GetRawTransaction fetches a previously published transaction by txid.
	GetRawTransaction(ctx context.Context, txid *chainhash.Hash) (*wire.MsgTx, error)
}

// Client is an rpcclient-backed Chain talking to a bitcoind full node.
type Client struct {
	rpc    *rpcclient.Client
	params *chaincfg.Params
}

// Config configures a Client's connection to its backing bitcoind node.
type Config struct {
	Endpoint string
	User     string
	Password string
	Env      common.Environment
}

// NewClient dials the bitcoind RPC endpoint described by cfg.
func NewClient(cfg Config) (*Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.Endpoint,
		User:         cfg.User,
		Pass:         cfg.Password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}
	rpc, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial bitcoind: %w", err)
	}
	params, err := cfg.Env.BtcChainParams()
	if err != nil {
		return nil, err
	}
	return &Client{rpc: rpc, params: params}, nil
}

// Publish implements Chain.
func (c *Client) Publish(_ context.Context, tx *wire.MsgTx) (*chainhash.Hash, error) {
	hash, err := c.rpc.SendRawTransaction(tx, false)
	if err != nil {
		if isAlreadyInChainErr(err) {
			h := tx.TxHash()
			return &h, nil
		}
		return nil, fmt.Errorf("failed to publish transaction: %w", err)
	}
	log.Infof("published transaction %s", hash)
	return hash, nil
}

// WaitConfirmed implements Chain, polling the node until the transaction has the
// requested confirmation depth.
func (c *Client) WaitConfirmed(ctx context.Context, txid *chainhash.Hash, confirmations uint32) error {
	for {
		info, err := c.rpc.GetTransaction(txid)
		if err == nil && info.Confirmations >= int64(confirmations) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pollInterval(ctx):
		}
	}
}

// Tip implements Chain.
func (c *Client) Tip(_ context.Context) (uint32, error) {
	height, err := c.rpc.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch chain tip: %w", err)
	}
	return uint32(height), nil
}

// WatchUntilTimelock implements Chain, polling the chain tip until it reaches
// lockHeight+timelock.
func (c *Client) WatchUntilTimelock(ctx context.Context, lockHeight, timelock uint32) error {
	target := int64(lockHeight) + int64(timelock)
	for {
		height, err := c.rpc.GetBlockCount()
		if err == nil && height >= target {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pollInterval(ctx):
		}
	}
}

// GetRawTransaction implements Chain.
func (c *Client) GetRawTransaction(_ context.Context, txid *chainhash.Hash) (*wire.MsgTx, error) {
	tx, err := c.rpc.GetRawTransaction(txid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", txid, err)
	}
	return tx.MsgTx(), nil
}

func isAlreadyInChainErr(err error) bool {
	// bitcoind returns "-27: transaction already in block chain" for a txid that is
	// already confirmed; treat republishing it as success (spec.md §4.6).
	return err != nil && (err.Error() == "-27: transaction already in block chain" ||
		err.Error() == "-27: Transaction already in block chain")
}
