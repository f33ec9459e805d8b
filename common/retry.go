// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"context"
	"time"
)

// Retry calls fn until it succeeds or ctx is done, backing off exponentially between
// attempts starting at 1s and capped at cap (spec.md §4.5 failure semantics:
// "transient chain-façade errors... retry with exponential backoff capped at
// btc_avg_block_time").
func Retry[T any](ctx context.Context, cap time.Duration, fn func() (T, error)) (T, error) {
	backoff := time.Second
	for {
		v, err := fn()
		if err == nil {
			return v, nil
		}

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > cap {
			backoff = cap
		}
	}
}
