// =============================
// File: internal/dex/pumpfun/slippage_test.go
// =============================
package pumpfun

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinAmountWithSlippage(t *testing.T) {
	tests := []struct {
		name     string
		amount   uint64
		bps      uint64
		expected uint64
		err      error
	}{
		{name: "one percent", amount: 1_000_000, bps: 100, expected: 990_000},
		{name: "zero slippage", amount: 1_000_000, bps: 0, expected: 1_000_000},
		{name: "zero amount", amount: 0, bps: 500, expected: 0},
		{name: "rounds down", amount: 999, bps: 100, expected: 989},
		{name: "half scale", amount: 1_000_000, bps: 5_000, expected: 500_000},
		{name: "full scale rejected", amount: 1_000_000, bps: 10_000, err: ErrSlippageTooHigh},
		{name: "above full scale rejected", amount: 1_000_000, bps: 10_001, err: ErrSlippageTooHigh},
		{name: "overflow rejected", amount: math.MaxUint64, bps: 100, err: ErrAmountOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MinAmountWithSlippage(tt.amount, tt.bps)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMaxAmountWithSlippage(t *testing.T) {
	tests := []struct {
		name     string
		amount   uint64
		bps      uint64
		expected uint64
		err      error
	}{
		{name: "one percent", amount: 1_000_000, bps: 100, expected: 1_010_000},
		{name: "zero slippage", amount: 1_000_000, bps: 0, expected: 1_000_000},
		{name: "zero amount", amount: 0, bps: 500, expected: 0},
		{name: "rounds down", amount: 999, bps: 100, expected: 1_008},
		{name: "full scale allowed", amount: 1_000_000, bps: 10_000, expected: 2_000_000},
		{name: "above full scale rejected", amount: 1_000_000, bps: 10_001, err: ErrSlippageTooHigh},
		{name: "overflow rejected", amount: math.MaxUint64, bps: 100, err: ErrAmountOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaxAmountWithSlippage(tt.amount, tt.bps)
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSlippageBoundsBracketQuote(t *testing.T) {
	amounts := []uint64{1, 1_000, 1_000_000, 5_000_000_000}
	bpsValues := []uint64{1, 50, 100, 500, 2_500}

	for _, amount := range amounts {
		for _, bps := range bpsValues {
			minOut, err := MinAmountWithSlippage(amount, bps)
			require.NoError(t, err)
			maxIn, err := MaxAmountWithSlippage(amount, bps)
			require.NoError(t, err)

			assert.LessOrEqual(t, minOut, amount)
			assert.GreaterOrEqual(t, maxIn, amount)
		}
	}
}
