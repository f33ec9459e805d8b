// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package db implements the persistence backend consumed through
// protocol/swap.Database (spec.md §1: the persistence backend itself is out of
// scope, only its interface is consumed). Grounded on the teacher's use of
// ChainSafe/chaindb as its embedded key-value store.
package db

import (
	"encoding/json"
	"fmt"

	"github.com/ChainSafe/chaindb"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	"github.com/basalt-labs/xmr-btc-swap/protocol/swap"
)

var swapPrefix = []byte("swap-")

// Database is a chaindb-backed implementation of protocol/swap.Database.
type Database struct {
	db chaindb.Database
}

// NewDatabase opens (creating if necessary) a chaindb instance rooted at dataDir.
func NewDatabase(dataDir string) (*Database, error) {
	cdb, err := chaindb.NewBadgerDB(&chaindb.Config{
		DataDir: dataDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open swap database: %w", err)
	}
	return &Database{db: cdb}, nil
}

// Close flushes and closes the underlying store.
func (d *Database) Close() error {
	return d.db.Close()
}

func swapKey(id types.SwapID) []byte {
	return append(append([]byte{}, swapPrefix...), id[:]...)
}

// PutSwap implements protocol/swap.Database.
func (d *Database) PutSwap(info *swap.Info) error {
	b, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode swap info: %w", err)
	}
	return d.db.Put(swapKey(info.SwapID), b)
}

// GetSwap implements protocol/swap.Database.
func (d *Database) GetSwap(id types.SwapID) (*swap.Info, error) {
	b, err := d.db.Get(swapKey(id))
	if err != nil {
		return nil, err
	}
	var info swap.Info
	if err := json.Unmarshal(b, &info); err != nil {
		return nil, fmt.Errorf("failed to decode swap info: %w", err)
	}
	return &info, nil
}

// GetAllSwaps implements protocol/swap.Database.
func (d *Database) GetAllSwaps() ([]*swap.Info, error) {
	iter, err := d.db.NewIterator()
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Release()

	var swaps []*swap.Info
	for iter.First(); iter.Valid(); iter.Next() {
		key := iter.Key()
		if len(key) <= len(swapPrefix) {
			continue
		}
		var info swap.Info
		if err := json.Unmarshal(iter.Value(), &info); err != nil {
			return nil, fmt.Errorf("failed to decode swap info: %w", err)
		}
		swaps = append(swaps, &info)
	}
	return swaps, nil
}

var _ swap.Database = (*Database)(nil)
