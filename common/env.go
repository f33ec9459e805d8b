// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
)

// Environment is the network tag a swap runs under: Mainnet, Testnet, or Regtest
// (spec.md §4.1).
type Environment byte

const (
	// Mainnet is real-value bitcoin mainnet / monero mainnet.
	Mainnet Environment = iota
	// Testnet is bitcoin testnet3 / monero stagenet.
	Testnet
	// Development is a local regtest bitcoin node / monero regtest environment, used for
	// integration tests.
	Development
)

func (e Environment) String() string {
	switch e {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Development:
		return "regtest"
	default:
		return "unknown"
	}
}

// BtcChainParams returns the btcsuite chain parameters matching this environment.
func (e Environment) BtcChainParams() (*chaincfg.Params, error) {
	switch e {
	case Mainnet:
		return &chaincfg.MainNetParams, nil
	case Testnet:
		return &chaincfg.TestNet3Params, nil
	case Development:
		return &chaincfg.RegressionNetParams, nil
	default:
		return nil, fmt.Errorf("unknown environment %d", e)
	}
}

// EnvironmentFromString parses a network tag string as used by CLI flags.
func EnvironmentFromString(s string) (Environment, error) {
	switch s {
	case "mainnet":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	case "dev", "development", "regtest":
		return Development, nil
	default:
		return 0, fmt.Errorf("invalid environment %q", s)
	}
}
