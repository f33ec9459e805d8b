// Copyright 2023 The AthanorLabs/atomic-swap Authors
// SPDX-License-Identifier: LGPL-3.0-only

package common

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
)

const (
	numSatoshiPerBTC  = 1e8
	numPiconeroPerXMR = 1e12
)

// BtcAmount is a non-negative count of satoshis, the smallest denomination of bitcoin.
type BtcAmount uint64

// BtcToSatoshi converts a standard BTC amount into a BtcAmount.
func BtcToSatoshi(btc float64) BtcAmount {
	return BtcAmount(math.Round(btc * numSatoshiPerBTC))
}

// AsBTC returns the amount in standard BTC units.
func (a BtcAmount) AsBTC() float64 {
	return float64(a) / numSatoshiPerBTC
}

// Uint64 returns the amount as a raw satoshi count.
func (a BtcAmount) Uint64() uint64 {
	return uint64(a)
}

func (a BtcAmount) String() string {
	return fmt.Sprintf("%d sats", uint64(a))
}

// XmrAmount is a non-negative count of piconero, the smallest denomination of monero.
type XmrAmount uint64

// XmrToPiconero converts a standard XMR amount into an XmrAmount.
func XmrToPiconero(xmr float64) XmrAmount {
	return XmrAmount(math.Round(xmr * numPiconeroPerXMR))
}

// AsXMR returns the amount in standard XMR units.
func (a XmrAmount) AsXMR() float64 {
	return float64(a) / numPiconeroPerXMR
}

// Uint64 returns the amount as a raw piconero count.
func (a XmrAmount) Uint64() uint64 {
	return uint64(a)
}

func (a XmrAmount) String() string {
	return fmt.Sprintf("%d piconero", uint64(a))
}

// SwapAmounts is the pair of amounts agreed during negotiation (spec.md §4.3) and fixed
// for the remainder of the swap.
type SwapAmounts struct {
	BTC BtcAmount
	XMR XmrAmount
}

// ExchangeRate converts a BTC amount into the XMR amount owed at this rate, expressed as
// XMR per BTC. The spec leaves the rate function unconstrained; we compute it with
// arbitrary-precision decimal arithmetic so a configured rate never loses satoshi/piconero
// precision the way a float64 multiplication could for large amounts.
type ExchangeRate struct {
	dec apd.Decimal
}

// NewExchangeRate returns an ExchangeRate of xmrPerBTC XMR per 1 BTC.
func NewExchangeRate(xmrPerBTC float64) (*ExchangeRate, error) {
	var d apd.Decimal
	_, _, err := d.SetString(fmt.Sprintf("%f", xmrPerBTC))
	if err != nil {
		return nil, fmt.Errorf("invalid exchange rate: %w", err)
	}
	return &ExchangeRate{dec: d}, nil
}

// ToXMR computes the XMR amount owed for the given BTC amount at this rate.
func (r *ExchangeRate) ToXMR(btc BtcAmount) (XmrAmount, error) {
	var btcDec, xmrDec apd.Decimal
	btcDec.SetFinite(int64(btc), -8) // satoshis, 8 decimal places below BTC

	ctx := apd.BaseContext.WithPrecision(40)
	if _, err := ctx.Mul(&xmrDec, &btcDec, &r.dec); err != nil {
		return 0, fmt.Errorf("failed to compute xmr amount: %w", err)
	}

	// xmrDec is now in BTC-equivalent units scaled by the rate; convert to piconero (1e12).
	var piconero apd.Decimal
	scale := apd.New(numPiconeroPerXMR, 0)
	if _, err := ctx.Mul(&piconero, &xmrDec, scale); err != nil {
		return 0, fmt.Errorf("failed to scale to piconero: %w", err)
	}

	var rounded apd.Decimal
	if _, err := ctx.RoundToIntegralValue(&rounded, &piconero); err != nil {
		return 0, fmt.Errorf("failed to round piconero amount: %w", err)
	}

	u, err := rounded.Int64()
	if err != nil {
		return 0, fmt.Errorf("computed piconero amount out of range: %w", err)
	}
	if u < 0 {
		return 0, fmt.Errorf("computed negative piconero amount")
	}

	return XmrAmount(u), nil
}
