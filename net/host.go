// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

// Package net wires the swap's two sub-protocols onto a libp2p host: a request/response
// negotiation protocol (spec.md §4.3) and a fire-and-forget per-swap message stream
// carrying handshake and notify messages (spec.md §4.5). Grounded on the teacher
// family's net.Host/net.Config shape (see net/host_test.go), adapted from its
// maker/taker split onto the single SwapID-addressed handler this protocol needs.
package net

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	ilog "github.com/ipfs/go-log"
	libp2p "github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"

	"github.com/basalt-labs/xmr-btc-swap/common/types"
	"github.com/basalt-labs/xmr-btc-swap/net/message"
)

var log = ilog.Logger("net")

// negotiationTimeout bounds how long a BobToAlice::AmountsFromBtc request waits for
// Alice's AliceToBob::Amounts response (spec.md §4.3, "60s timeout").
const negotiationTimeout = 60 * time.Second

const (
	negotiationProtocolSuffix = "/negotiate/1"
	swapMessageProtocolSuffix = "/swap/1"
)

// Config configures a Host.
type Config struct {
	Ctx           context.Context
	DataDir       string
	Port          uint16
	KeyFile       string
	KeyPassphrase string
	Bootnodes     []string
	ProtocolID    string
	ListenIP      string
}

// Handler is implemented by whatever orchestrates swaps: it answers negotiation
// requests and dispatches post-negotiation swap messages to the right running swap.
type Handler interface {
	// HandleNegotiation answers a BobToAlice::AmountsFromBtc request with Alice's
	// quote, or an error if she declines (spec.md §4.3).
	HandleNegotiation(from peer.ID, req *message.AmountsFromBtc) (*message.Amounts, error)

	// HandleSwapMessage dispatches a handshake or notify message to the swap it
	// names by SwapID (spec.md §4.5).
	HandleSwapMessage(from peer.ID, swapID types.SwapID, msg message.Message) error
}

// Transport is the subset of Host the swap drivers depend on, letting
// protocol/alice and protocol/bob be tested against a fake in place of a real libp2p
// host.
//
//go:generate mockgen -destination=mock_transport.go -package=net . Transport
type Transport interface {
	SendNegotiationRequest(ctx context.Context, to peer.ID, req *message.AmountsFromBtc) (*message.Amounts, error)
	SendSwapMessage(ctx context.Context, to peer.ID, msg message.Message) error
	PeerID() peer.ID
}

var _ Transport = (*Host)(nil)

// Host is a libp2p-backed transport for the swap's negotiation and per-swap message
// sub-protocols.
type Host struct {
	ctx       context.Context
	h         host.Host
	negProto  protocol.ID
	swapProto protocol.ID
	handler   Handler
}

// NewHost constructs and starts listening on a libp2p host per cfg.
func NewHost(cfg *Config) (*Host, error) {
	priv, err := loadOrCreateKey(cfg.KeyFile, cfg.KeyPassphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load node key: %w", err)
	}

	listenAddr := fmt.Sprintf("/ip4/%s/tcp/%d", cfg.ListenIP, cfg.Port)
	h, err := libp2p.New(
		libp2p.ListenAddrStrings(listenAddr),
		libp2p.Identity(priv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create libp2p host: %w", err)
	}

	hs := &Host{
		ctx:       cfg.Ctx,
		h:         h,
		negProto:  protocol.ID(cfg.ProtocolID + negotiationProtocolSuffix),
		swapProto: protocol.ID(cfg.ProtocolID + swapMessageProtocolSuffix),
	}

	for _, addr := range cfg.Bootnodes {
		if err := hs.connect(addr); err != nil {
			log.Warnf("failed to connect to bootnode %s: %s", addr, err)
		}
	}

	return hs, nil
}

// SetHandler registers the Handler that answers negotiation and swap messages, and
// installs the libp2p stream handlers that dispatch to it.
func (hs *Host) SetHandler(handler Handler) {
	hs.handler = handler
	hs.h.SetStreamHandler(hs.negProto, hs.handleNegotiationStream)
	hs.h.SetStreamHandler(hs.swapProto, hs.handleSwapMessageStream)
}

// PeerID returns this host's own libp2p identity.
func (hs *Host) PeerID() peer.ID {
	return hs.h.ID()
}

// Stop shuts down the libp2p host.
func (hs *Host) Stop() error {
	return hs.h.Close()
}

func (hs *Host) connect(addr string) error {
	info, err := peer.AddrInfoFromString(addr)
	if err != nil {
		return err
	}
	return hs.h.Connect(hs.ctx, *info)
}

// Connect dials and adds info to the peerstore, used to reach a specific counterparty
// before starting a swap (spec.md §4.3, the request/response negotiation needs an open
// stream to send over).
func (hs *Host) Connect(ctx context.Context, info peer.AddrInfo) error {
	return hs.h.Connect(ctx, info)
}

// SendNegotiationRequest sends req to to and blocks up to negotiationTimeout for a
// response (spec.md §4.3).
func (hs *Host) SendNegotiationRequest(
	ctx context.Context,
	to peer.ID,
	req *message.AmountsFromBtc,
) (*message.Amounts, error) {
	ctx, cancel := context.WithTimeout(ctx, negotiationTimeout)
	defer cancel()

	stream, err := hs.h.NewStream(ctx, to, hs.negProto)
	if err != nil {
		return nil, fmt.Errorf("failed to open negotiation stream: %w", err)
	}
	defer stream.Close()

	if err := writeMessage(stream, req); err != nil {
		return nil, err
	}

	respMsg, err := readMessage(stream)
	if err != nil {
		return nil, err
	}
	resp, ok := respMsg.(*message.Amounts)
	if !ok {
		return nil, errors.New("unexpected response to negotiation request")
	}
	return resp, nil
}

func (hs *Host) handleNegotiationStream(stream network.Stream) {
	defer stream.Close()

	msg, err := readMessage(stream)
	if err != nil {
		log.Warnf("failed to read negotiation request: %s", err)
		return
	}
	req, ok := msg.(*message.AmountsFromBtc)
	if !ok {
		log.Warnf("unexpected negotiation request type %T", msg)
		return
	}

	resp, err := hs.handler.HandleNegotiation(stream.Conn().RemotePeer(), req)
	if err != nil {
		log.Warnf("negotiation declined: %s", err)
		return
	}

	if err := writeMessage(stream, resp); err != nil {
		log.Warnf("failed to write negotiation response: %s", err)
	}
}

// SendSwapMessage sends a handshake or notify message to to, without waiting for a
// response (spec.md §4.5 messages are notifications, not requests).
func (hs *Host) SendSwapMessage(ctx context.Context, to peer.ID, msg message.Message) error {
	stream, err := hs.h.NewStream(ctx, to, hs.swapProto)
	if err != nil {
		return fmt.Errorf("failed to open swap message stream: %w", err)
	}
	defer stream.Close()
	return writeMessage(stream, msg)
}

func (hs *Host) handleSwapMessageStream(stream network.Stream) {
	defer stream.Close()

	msg, err := readMessage(stream)
	if err != nil {
		log.Warnf("failed to read swap message: %s", err)
		return
	}

	swapID, err := swapIDOf(msg)
	if err != nil {
		log.Warnf("failed to route swap message: %s", err)
		return
	}

	if err := hs.handler.HandleSwapMessage(stream.Conn().RemotePeer(), swapID, msg); err != nil {
		log.Warnf("failed to handle swap message: %s", err)
	}
}

func swapIDOf(msg message.Message) (types.SwapID, error) {
	switch m := msg.(type) {
	case *message.Handshake:
		return m.SwapID, nil
	case *message.NotifyBtcLock:
		return m.SwapID, nil
	case *message.NotifyXmrLock:
		return m.SwapID, nil
	case *message.NotifyReady:
		return m.SwapID, nil
	case *message.NotifyBtcRedeemed:
		return m.SwapID, nil
	case *message.NotifyBtcCancelled:
		return m.SwapID, nil
	case *message.NotifyBtcRefunded:
		return m.SwapID, nil
	default:
		return types.SwapID{}, fmt.Errorf("message type %T does not carry a swap id", msg)
	}
}

// maxMessageSize bounds the length prefix read below against a peer claiming an
// absurd payload size.
const maxMessageSize = 10 * 1024 * 1024

// writeMessage frames msg with a 4-byte big-endian length prefix (spec.md §6,
// "canonical binary tagged encoding... length-prefixed payload") so readMessage can
// return after a single message without needing the peer to close its write half.
func writeMessage(stream network.Stream, msg message.Message) error {
	b, err := msg.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	w := bufio.NewWriter(stream)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("failed to write message length: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Flush()
}

func readMessage(stream network.Stream) (message.Message, error) {
	r := bufio.NewReader(stream)
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read message length: %w", err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxMessageSize {
		return nil, fmt.Errorf("message length %d exceeds maximum %d", n, maxMessageSize)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	return message.DecodeMessage(b)
}

func loadOrCreateKey(path, passphrase string) (crypto.PrivKey, error) {
	if b, err := os.ReadFile(path); err == nil {
		priv, err := decryptKey(b, passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to unlock node key %s: %w", path, err)
		}
		return priv, nil
	}

	priv, _, err := crypto.GenerateEd25519Key(rand.Reader)
	if err != nil {
		return nil, err
	}
	b, err := encryptKey(priv, passphrase)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return nil, fmt.Errorf("failed to persist node key: %w", err)
	}
	return priv, nil
}
