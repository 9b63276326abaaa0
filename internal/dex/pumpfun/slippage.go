// =============================
// File: internal/dex/pumpfun/slippage.go
// =============================
package pumpfun

import "errors"

// BasisPointDenominator is the full scale of a basis-point fraction (100%).
const BasisPointDenominator uint64 = 10_000

var (
	// ErrSlippageTooHigh is returned when a slippage tolerance would produce
	// a degenerate bound (>= 100% for a minimum, > 100% for a maximum).
	ErrSlippageTooHigh = errors.New("slippage tolerance too high")

	// ErrAmountOverflow is returned when the bound computation overflows u64.
	// Bounds are financial limits and must never saturate silently.
	ErrAmountOverflow = errors.New("arithmetic overflow in slippage calculation")
)

// MinAmountWithSlippage returns floor(amount * (10000 - slippageBPS) / 10000),
// the smallest acceptable output for a swap quoted at amount.
// Multiply-then-divide keeps full precision; the multiplication is checked.
func MinAmountWithSlippage(amount, slippageBPS uint64) (uint64, error) {
	if slippageBPS >= BasisPointDenominator {
		return 0, ErrSlippageTooHigh
	}

	keep := BasisPointDenominator - slippageBPS
	product := amount * keep
	if amount != 0 && product/amount != keep {
		return 0, ErrAmountOverflow
	}

	return product / BasisPointDenominator, nil
}

// MaxAmountWithSlippage returns floor(amount * (10000 + slippageBPS) / 10000),
// the largest acceptable input for a swap quoted at amount.
func MaxAmountWithSlippage(amount, slippageBPS uint64) (uint64, error) {
	if slippageBPS > BasisPointDenominator {
		return 0, ErrSlippageTooHigh
	}

	multiplier := BasisPointDenominator + slippageBPS
	product := amount * multiplier
	if amount != 0 && product/amount != multiplier {
		return 0, ErrAmountOverflow
	}

	return product / BasisPointDenominator, nil
}
