// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package types

import "github.com/libp2p/go-libp2p/core/peer"

// PeerID is the counterparty identity established by the transport layer (spec.md §3).
// We reuse libp2p's own identity type rather than wrapping it, since the transport
// is libp2p and the identity never needs to travel through any other representation.
type PeerID = peer.ID
