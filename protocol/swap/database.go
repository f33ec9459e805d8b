// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import "github.com/basalt-labs/xmr-btc-swap/common/types"

// Database is the persistence interface Manager is built on (spec.md §1: the
// persistence backend is consumed through an interface only; its implementation
// lives in package db).
//
//go:generate mockgen -destination=mock_database.go -package=swap . Database
type Database interface {
	PutSwap(info *Info) error
	GetSwap(id types.SwapID) (*Info, error)
	GetAllSwaps() ([]*Info, error)
}
