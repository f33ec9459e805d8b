// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package monero

import (
	"context"
	"time"
)

const pollEvery = 5 * time.Second

// pollInterval returns a channel that fires once after pollEvery, or immediately when
// ctx is already done, so callers can select on it without leaking a timer across
// cancellation.
func pollInterval(ctx context.Context) <-chan time.Time {
	if ctx.Err() != nil {
		c := make(chan time.Time, 1)
		c <- time.Now()
		return c
	}
	return time.After(pollEvery)
}
