// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package swap

import "crypto/sha256"

func hashSum(b []byte) [32]byte {
	return sha256.Sum256(b)
}
