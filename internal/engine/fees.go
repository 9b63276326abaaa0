// =============================
// File: internal/engine/fees.go
// =============================
package engine

import (
	"math"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
)

// PrependComputeBudget places the compute-unit-limit instruction at index 0
// and, when a price bid is set, the compute-unit-price instruction at
// index 1. The limit must be declared before a price bid is meaningful, and
// both must precede the instructions they govern.
func PrependComputeBudget(instructions []solana.Instruction, cfg TxConfig) []solana.Instruction {
	out := make([]solana.Instruction, 0, len(instructions)+2)
	out = append(out, computebudget.NewSetComputeUnitLimitInstruction(cfg.UnitLimit).Build())
	if cfg.UnitPrice > 0 {
		out = append(out, computebudget.NewSetComputeUnitPriceInstruction(cfg.UnitPrice).Build())
	}
	return append(out, instructions...)
}

// PriorityFee estimates the total prioritization fee in micro-lamports.
// The estimate is informational only and saturates on overflow, unlike the
// slippage bounds which must surface arithmetic errors.
func PriorityFee(unitPrice uint64, unitLimit uint32) uint64 {
	limit := uint64(unitLimit)
	if unitPrice != 0 && limit > math.MaxUint64/unitPrice {
		return math.MaxUint64
	}
	return unitPrice * limit
}
