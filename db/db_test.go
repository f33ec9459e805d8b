// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/basalt-labs/xmr-btc-swap/common"
	"github.com/basalt-labs/xmr-btc-swap/common/types"
	"github.com/basalt-labs/xmr-btc-swap/protocol/swap"
)

func newTestDatabase(t *testing.T) *Database {
	d, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() }) //nolint:errcheck
	return d
}

func TestDatabase_PutGetSwap_PreservesStatus(t *testing.T) {
	d := newTestDatabase(t)

	id, err := types.NewSwapID()
	require.NoError(t, err)

	info := &swap.Info{
		SwapID:     id,
		IsAlice:    true,
		Amounts:    common.SwapAmounts{BTC: 42, XMR: 4200},
		Status:     swap.Ongoing,
		StartTime:  time.Now(),
		Checkpoint: []byte(`{"foo":"bar"}`),
	}

	require.NoError(t, d.PutSwap(info))

	got, err := d.GetSwap(id)
	require.NoError(t, err)
	require.True(t, got.Status.IsOngoing())
	require.Equal(t, info.Checkpoint, got.Checkpoint)
}

func TestDatabase_PutGetSwap_PreservesEndedStatus(t *testing.T) {
	d := newTestDatabase(t)

	id, err := types.NewSwapID()
	require.NoError(t, err)

	info := &swap.Info{
		SwapID:    id,
		IsAlice:   false,
		Amounts:   common.SwapAmounts{BTC: 1, XMR: 1},
		Status:    swap.Ended(types.XmrRedeemed),
		StartTime: time.Now(),
	}

	require.NoError(t, d.PutSwap(info))

	got, err := d.GetSwap(id)
	require.NoError(t, err)
	require.False(t, got.Status.IsOngoing())
	require.Equal(t, types.XmrRedeemed, got.Status.EndState())
}

func TestDatabase_GetAllSwaps(t *testing.T) {
	d := newTestDatabase(t)

	var ids []types.SwapID
	for i := 0; i < 3; i++ {
		id, err := types.NewSwapID()
		require.NoError(t, err)
		ids = append(ids, id)
		require.NoError(t, d.PutSwap(&swap.Info{
			SwapID:    id,
			Status:    swap.Ongoing,
			StartTime: time.Now(),
		}))
	}

	all, err := d.GetAllSwaps()
	require.NoError(t, err)
	require.Len(t, all, 3)
}
