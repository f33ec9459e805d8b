// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package main provides the entrypoint of swapd, the long-running daemon that drives
// BTC/XMR atomic swaps to completion (spec.md §1, §4.6).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	ilog "github.com/ipfs/go-log"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/urfave/cli/v2"

	"github.com/basalt-labs/xmr-btc-swap/chain/bitcoin"
	"github.com/basalt-labs/xmr-btc-swap/chain/monero"
	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/db"
	"github.com/basalt-labs/xmr-btc-swap/net"
	"github.com/basalt-labs/xmr-btc-swap/protocol/backend"
	"github.com/basalt-labs/xmr-btc-swap/protocol/orchestrator"
	pswap "github.com/basalt-labs/xmr-btc-swap/protocol/swap"
)

var log = ilog.Logger("cmd/swapd")

const (
	flagDataDir       = "data-dir"
	flagEnv           = "env"
	flagBtcEndpoint   = "btc-endpoint"
	flagBtcUser       = "btc-user"
	flagBtcPassword   = "btc-password"
	flagXmrEndpoint   = "xmr-endpoint"
	flagLibp2pPort    = "libp2p-port"
	flagLibp2pKeyPass = "libp2p-key-passphrase"
	flagBootnodes     = "bootnodes"
	flagExchangeRate  = "exchange-rate"
	flagRefundAddr    = "refund-addr"
	flagPeer          = "peer"
	flagBtcAmount     = "btc-amount"
)

const protocolID = "/basalt-labs/xmr-btc-swap"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagDataDir, Usage: "Path to store swap state and the node key", Value: "./swapd-data"},
		&cli.StringFlag{Name: flagEnv, Usage: "Network: mainnet, testnet, or dev", Value: "dev"},
		&cli.StringFlag{Name: flagBtcEndpoint, Usage: "bitcoind RPC endpoint", Value: "127.0.0.1:18443"},
		&cli.StringFlag{Name: flagBtcUser, Usage: "bitcoind RPC username"},
		&cli.StringFlag{Name: flagBtcPassword, Usage: "bitcoind RPC password"},
		&cli.StringFlag{Name: flagXmrEndpoint, Usage: "monero-wallet-rpc endpoint", Value: "127.0.0.1:18083/json_rpc"},
		&cli.UintFlag{Name: flagLibp2pPort, Usage: "libp2p listening port", Value: 9934},
		&cli.StringFlag{Name: flagLibp2pKeyPass, Usage: "passphrase protecting the node's identity key at rest"},
		&cli.StringSliceFlag{Name: flagBootnodes, Usage: "libp2p multiaddrs of peers to connect to on startup"},
		&cli.StringFlag{Name: flagRefundAddr, Usage: "address used for our role's on-chain refund path", Required: true},
	}
}

func newApp() *cli.App {
	serveFlags := append(commonFlags(),
		&cli.Float64Flag{Name: flagExchangeRate, Usage: "XMR per BTC quoted to counterparties as Alice", Value: 16.0},
	)
	makeFlags := append(commonFlags(),
		&cli.StringFlag{Name: flagPeer, Usage: "multiaddr of the Alice peer to swap with", Required: true},
		&cli.Float64Flag{Name: flagBtcAmount, Usage: "BTC amount to offer", Required: true},
	)

	return &cli.App{
		Name:  "swapd",
		Usage: "Daemon for executing BTC/XMR atomic swaps",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run as Alice: listen for negotiation requests and quote incoming swaps",
				Flags:  serveFlags,
				Action: runServe,
			},
			{
				Name:   "make",
				Usage:  "Run as Bob: negotiate with a peer and execute one swap to completion",
				Flags:  makeFlags,
				Action: runMake,
			},
		},
	}
}

type daemon struct {
	b    backend.Backend
	o    *orchestrator.Orchestrator
	host *net.Host
	stop func() error
}

func newDaemon(c *cli.Context, ctx context.Context, rate *common.ExchangeRate) (*daemon, error) {
	env, err := common.EnvironmentFromString(c.String(flagEnv))
	if err != nil {
		return nil, err
	}
	params, err := common.GetExecutionParams(env)
	if err != nil {
		return nil, err
	}

	dataDir := c.String(flagDataDir)
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	btcClient, err := bitcoin.NewClient(bitcoin.Config{
		Endpoint: c.String(flagBtcEndpoint),
		User:     c.String(flagBtcUser),
		Password: c.String(flagBtcPassword),
		Env:      env,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bitcoind: %w", err)
	}

	xmrClient := monero.NewClient(c.String(flagXmrEndpoint), env)

	database, err := db.NewDatabase(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	manager, err := pswap.NewManager(database)
	if err != nil {
		database.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to load swap manager: %w", err)
	}

	host, err := net.NewHost(&net.Config{
		Ctx:           ctx,
		DataDir:       dataDir,
		Port:          uint16(c.Uint(flagLibp2pPort)),
		KeyFile:       filepath.Join(dataDir, "node.key"),
		KeyPassphrase: c.String(flagLibp2pKeyPass),
		Bootnodes:     c.StringSlice(flagBootnodes),
		ProtocolID:    protocolID,
		ListenIP:      "0.0.0.0",
	})
	if err != nil {
		database.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to start libp2p host: %w", err)
	}

	b := backend.NewBackend(backend.Config{
		Ctx:     ctx,
		Env:     env,
		Params:  params,
		Bitcoin: btcClient,
		Monero:  xmrClient,
		Net:     host,
		Manager: manager,
	})

	o := orchestrator.New(b, rate, c.String(flagRefundAddr))
	host.SetHandler(o)

	if err := o.ResumeAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to resume ongoing swaps: %w", err)
	}

	log.Infof(color.GreenString("listening on peer id %s", peer.ID(b.PeerID())))

	return &daemon{b: b, o: o, host: host, stop: func() error {
		host.Stop() //nolint:errcheck
		return database.Close()
	}}, nil
}

func runServe(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rate, err := common.NewExchangeRate(c.Float64(flagExchangeRate))
	if err != nil {
		return err
	}

	d, err := newDaemon(c, ctx, rate)
	if err != nil {
		return err
	}
	defer d.stop() //nolint:errcheck

	<-ctx.Done()
	log.Infof("shutting down")
	return nil
}

func runMake(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Bob never answers negotiation requests himself, so the quoting rate is unused;
	// construct a harmless placeholder to satisfy newDaemon's shared setup.
	rate, err := common.NewExchangeRate(1)
	if err != nil {
		return err
	}

	d, err := newDaemon(c, ctx, rate)
	if err != nil {
		return err
	}
	defer d.stop() //nolint:errcheck

	aliceInfo, err := peer.AddrInfoFromString(c.String(flagPeer))
	if err != nil {
		return fmt.Errorf("invalid peer multiaddr: %w", err)
	}
	if err := d.host.Connect(ctx, *aliceInfo); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", aliceInfo.ID, err)
	}

	btcAmount := common.BtcToSatoshi(c.Float64(flagBtcAmount))
	swapID, err := d.o.StartBobSwap(ctx, aliceInfo.ID, btcAmount)
	if err != nil {
		return fmt.Errorf("failed to start swap: %w", err)
	}

	log.Infof(color.CyanString("swap %s: started with %s", swapID, aliceInfo.ID))

	end, err := d.o.Wait(ctx, swapID)
	if err != nil {
		return fmt.Errorf("swap %s: failed: %w", swapID, err)
	}
	log.Infof(color.GreenString("swap %s: finished with %s", swapID, end))
	return nil
}
