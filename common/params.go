// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package common

import "time"

// ExecutionParams bundles the per-network constants that govern timelocks, finality
// waits, and the negotiation deadline (spec.md §4.1). Grounded on the original Rust
// implementation's execution_params.rs, which this struct mirrors field-for-field.
type ExecutionParams struct {
	// BobTimeToAct is the duration Bob may take to act before Alice considers the
	// negotiation or handshake stale.
	BobTimeToAct time.Duration

	BitcoinFinalityConfirmations uint32
	BitcoinAvgBlockTime          time.Duration
	BitcoinCancelTimelock        uint32 // T1
	BitcoinPunishTimelock        uint32 // T2
	BitcoinNetwork               Environment

	MoneroAvgBlockTime          time.Duration
	MoneroFinalityConfirmations uint32
	MoneroNetwork               Environment
}

// MainnetParams returns the canonical mainnet execution parameters.
func MainnetParams() ExecutionParams {
	return ExecutionParams{
		BobTimeToAct:                 10 * time.Minute,
		BitcoinFinalityConfirmations: 3,
		BitcoinAvgBlockTime:          10 * time.Minute,
		BitcoinCancelTimelock:        72,
		BitcoinPunishTimelock:        72,
		BitcoinNetwork:               Mainnet,
		MoneroAvgBlockTime:           2 * time.Minute,
		MoneroFinalityConfirmations:  15,
		MoneroNetwork:                Mainnet,
	}
}

// TestnetParams returns the canonical testnet execution parameters.
func TestnetParams() ExecutionParams {
	return ExecutionParams{
		BobTimeToAct:                 60 * time.Minute,
		BitcoinFinalityConfirmations: 1,
		BitcoinAvgBlockTime:          5 * time.Minute,
		BitcoinCancelTimelock:        12,
		BitcoinPunishTimelock:        6,
		BitcoinNetwork:               Testnet,
		MoneroAvgBlockTime:           2 * time.Minute,
		MoneroFinalityConfirmations:  10,
		MoneroNetwork:                Testnet,
	}
}

// RegtestParams returns the canonical regtest execution parameters, used by
// integration tests.
func RegtestParams() ExecutionParams {
	return ExecutionParams{
		BobTimeToAct:                 30 * time.Second,
		BitcoinFinalityConfirmations: 1,
		BitcoinAvgBlockTime:          5 * time.Second,
		BitcoinCancelTimelock:        100,
		BitcoinPunishTimelock:        50,
		BitcoinNetwork:               Development,
		MoneroAvgBlockTime:           1 * time.Second,
		MoneroFinalityConfirmations:  10,
		MoneroNetwork:                Development,
	}
}

// GetExecutionParams returns the canonical ExecutionParams for the given environment.
func GetExecutionParams(env Environment) (ExecutionParams, error) {
	switch env {
	case Mainnet:
		return MainnetParams(), nil
	case Testnet:
		return TestnetParams(), nil
	case Development:
		return RegtestParams(), nil
	default:
		return ExecutionParams{}, errInvalidEnvironment
	}
}
