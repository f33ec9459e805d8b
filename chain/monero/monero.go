// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package monero defines the Monero chain façade consumed by the swap drivers
// (spec.md §5): transferring to a derived joint address, waiting for confirmations,
// and sweeping from a recovered spend key via create-from-keys. Only the façade's
// interface and a monero-wallet-rpc-backed implementation live here; the wallet and
// full node themselves are out of scope (spec.md §1).
package monero

import (
	"context"
	"fmt"

	"github.com/MarinX/monerorpc"
	"github.com/MarinX/monerorpc/wallet"
	ilog "github.com/ipfs/go-log"

	"github.com/basalt-labs/xmr-btc-swap/common"
	swapcrypto "github.com/basalt-labs/xmr-btc-swap/crypto/swap"
)

var log = ilog.Logger("chain/monero")

// Chain is the façade the swap drivers use to move monero in and out of the joint
// address (spec.md §5, Monero façade).
//
//go:generate mockgen -destination=mock_chain.go -package=monero . Chain
type Chain interface {
	// Transfer sends amount to dest and returns once the transaction has been
	// relayed; WaitConfirmed must be called separately to observe finality.
	Transfer(ctx context.Context, dest swapcrypto.Address, amount common.XmrAmount) (txID string, err error)

	// WaitConfirmed blocks until txID has reached the network's finality confirmation
	// depth (common.ExecutionParams.MoneroFinalityConfirmations).
	WaitConfirmed(ctx context.Context, txID string, confirmations uint32) error

	// CreateFromKeys opens (creating if necessary) a view-only or spend-capable
	// wallet from a recovered key pair, the operation both BtcRefunded's Alice and
	// EncSigLearned's Bob-after-extraction use to sweep the joint output.
	CreateFromKeys(ctx context.Context, keys *swapcrypto.PrivateKeyPair, restoreHeight uint64) error
}

// Client is a monero-wallet-rpc-backed Chain.
type Client struct {
	rpc wallet.Wallet
	env common.Environment
}

// NewClient wraps an already-dialed monero-wallet-rpc JSON-RPC client.
func NewClient(endpoint string, env common.Environment) *Client {
	cli := monerorpc.New(monerorpc.NewClient(endpoint), nil)
	return &Client{rpc: cli.Wallet, env: env}
}

// Transfer implements Chain.
func (c *Client) Transfer(_ context.Context, dest swapcrypto.Address, amount common.XmrAmount) (string, error) {
	resp, err := c.rpc.Transfer(&wallet.RequestTransfer{
		Destinations: []wallet.Destination{
			{Address: string(dest), Amount: amount.Uint64()},
		},
		Priority: wallet.PriorityDefault,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transfer monero: %w", err)
	}
	log.Infof("transferred %s to %s in tx %s", amount, dest, resp.TxHash)
	return resp.TxHash, nil
}

// WaitConfirmed implements Chain, polling the wallet until the transfer is confirmed
// to the requested depth.
func (c *Client) WaitConfirmed(ctx context.Context, txID string, confirmations uint32) error {
	for {
		resp, err := c.rpc.GetTransferByTxID(&wallet.RequestGetTransferByTxID{TxID: txID})
		if err == nil && resp.Transfer.Confirmations >= uint64(confirmations) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pollInterval(ctx):
		}
	}
}

// CreateFromKeys implements Chain, generating a wallet from a recovered spend/view
// key pair so its funds can subsequently be swept.
func (c *Client) CreateFromKeys(_ context.Context, keys *swapcrypto.PrivateKeyPair, restoreHeight uint64) error {
	addr := swapcrypto.DeriveAddress(keys.PublicKeyPair(), c.env)
	spendBytes := swapcrypto.Scalar(keys.Spend).Bytes()
	viewBytes := swapcrypto.Scalar(keys.View).Bytes()
	_, err := c.rpc.GenerateFromKeys(&wallet.RequestGenerateFromKeys{
		Address:       string(addr),
		SpendKey:      swapcrypto.Hex(spendBytes),
		ViewKey:       swapcrypto.Hex(viewBytes),
		Password:      "",
		RestoreHeight: restoreHeight,
		Filename:      string(addr),
	})
	if err != nil {
		return fmt.Errorf("failed to create wallet from recovered keys: %w", err)
	}
	return nil
}
