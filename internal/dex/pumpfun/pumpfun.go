// =============================
// File: internal/dex/pumpfun/pumpfun.go
// =============================

// Package pumpfun implements the Pump.fun bonding-curve side of the
// execution engine: account derivation and decoding, slippage-bounded
// amount computation, and swap instruction assembly.
package pumpfun

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solanaops/pumpfun-executor/internal/wallet"
)

// Direction selects the side of a swap.
type Direction int

const (
	Buy Direction = iota
	Sell
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection converts a user-facing direction string.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "buy", "b":
		return Buy, nil
	case "sell", "s":
		return Sell, nil
	default:
		return 0, fmt.Errorf("invalid swap direction %q: use 'buy' or 'sell'", s)
	}
}

// Validation errors, surfaced before any network call.
var (
	ErrZeroAmount  = errors.New("swap amount cannot be zero")
	ErrInvalidMint = errors.New("invalid mint address")
)

// ErrInsufficientBalance is returned when the payer cannot fund the swap and
// still keep the minimum operating balance.
var ErrInsufficientBalance = errors.New("insufficient wallet balance")

// SwapRequest describes one swap to execute.
type SwapRequest struct {
	Mint        string
	AmountIn    uint64
	Direction   Direction
	SlippageBPS uint64
}

// SwapPlan carries the slippage bounds derived from a request and the
// current curve state. MaxAmountIn is meaningful for buys only.
type SwapPlan struct {
	MinAmountOut uint64
	MaxAmountIn  uint64
}

// CurveClient is the RPC surface the DEX needs: curve and token-account
// reads plus the payer balance.
type CurveClient interface {
	AccountFetcher
	GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
}

// DEX builds Pump.fun swap instructions against live curve state.
type DEX struct {
	client CurveClient
	wallet *wallet.Wallet
	logger *zap.Logger
}

// NewDEX creates a Pump.fun instruction builder.
func NewDEX(client CurveClient, w *wallet.Wallet, logger *zap.Logger) *DEX {
	return &DEX{
		client: client,
		wallet: w,
		logger: logger.Named("pumpfun"),
	}
}

// ValidateRequest fails fast on malformed requests: unparseable mint, zero
// amount, or slippage above the operational ceiling.
func ValidateRequest(req SwapRequest) error {
	if _, err := solana.PublicKeyFromBase58(req.Mint); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMint, req.Mint)
	}
	if req.AmountIn == 0 {
		return ErrZeroAmount
	}
	if req.SlippageBPS > MaxSlippageBPS {
		return fmt.Errorf("%w: %d bps (max %d)", ErrSlippageTooHigh, req.SlippageBPS, MaxSlippageBPS)
	}
	return nil
}

// ComputePlan derives the slippage bounds for a request.
func ComputePlan(req SwapRequest) (*SwapPlan, error) {
	minOut, err := MinAmountWithSlippage(req.AmountIn, req.SlippageBPS)
	if err != nil {
		return nil, err
	}

	switch req.Direction {
	case Buy:
		maxIn, err := MaxAmountWithSlippage(req.AmountIn, req.SlippageBPS)
		if err != nil {
			return nil, err
		}
		return &SwapPlan{MinAmountOut: minOut, MaxAmountIn: maxIn}, nil
	case Sell:
		return &SwapPlan{MinAmountOut: minOut, MaxAmountIn: req.AmountIn}, nil
	default:
		return nil, fmt.Errorf("unknown swap direction: %v", req.Direction)
	}
}

// BuildSwapInstructions validates the request, reads the curve state fresh,
// computes the bounds, and assembles the ordered instruction list.
func (d *DEX) BuildSwapInstructions(ctx context.Context, req SwapRequest) ([]solana.Instruction, *SwapPlan, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, nil, err
	}
	mint := solana.MustPublicKeyFromBase58(req.Mint)

	bondingCurve, associatedBondingCurve, err := DeriveBondingCurveAddresses(mint)
	if err != nil {
		return nil, nil, err
	}

	curveState, err := FetchBondingCurveAccount(ctx, d.client, bondingCurve)
	if err != nil {
		return nil, nil, err
	}
	if curveState.Complete {
		return nil, nil, fmt.Errorf("%w: %s", ErrCurveComplete, req.Mint)
	}

	plan, err := ComputePlan(req)
	if err != nil {
		return nil, nil, err
	}

	if err := d.checkWalletBalance(ctx, req.Direction, plan); err != nil {
		return nil, nil, err
	}

	d.logger.Debug("Built swap plan",
		zap.String("mint", req.Mint),
		zap.String("direction", req.Direction.String()),
		zap.Uint64("amount_in", req.AmountIn),
		zap.Uint64("min_amount_out", plan.MinAmountOut),
		zap.Uint64("max_amount_in", plan.MaxAmountIn),
		zap.Float64("curve_progress", curveState.Progress()),
		zap.Float64("price_sol", curveState.TokenPriceSOL()))

	accounts := InstructionAccounts{
		Mint:                   mint,
		BondingCurve:           bondingCurve,
		AssociatedBondingCurve: associatedBondingCurve,
	}

	switch req.Direction {
	case Buy:
		return d.buildBuyInstructions(ctx, accounts, req.AmountIn, plan)
	case Sell:
		sellIx, err := BuildSellInstruction(accounts, d.wallet, req.AmountIn, plan.MinAmountOut)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build sell instruction: %w", err)
		}
		return []solana.Instruction{sellIx}, plan, nil
	default:
		return nil, nil, fmt.Errorf("unknown swap direction: %v", req.Direction)
	}
}

// checkWalletBalance verifies the payer can fund the swap and still keep
// MinSOLBalance. Buys must cover the worst-case spend; sells only need the
// operating floor for fees.
func (d *DEX) checkWalletBalance(ctx context.Context, direction Direction, plan *SwapPlan) error {
	balance, err := d.client.GetBalance(ctx, d.wallet.PublicKey)
	if err != nil {
		return fmt.Errorf("failed to get wallet balance: %w", err)
	}

	required := MinSOLBalance
	if direction == Buy {
		if plan.MaxAmountIn > math.MaxUint64-MinSOLBalance {
			return ErrAmountOverflow
		}
		required = plan.MaxAmountIn + MinSOLBalance
	}

	if balance < required {
		return fmt.Errorf("%w: have %d lamports, need %d", ErrInsufficientBalance, balance, required)
	}
	return nil
}

// buildBuyInstructions prepends the idempotent ATA creation when the buyer's
// token account does not exist yet.
func (d *DEX) buildBuyInstructions(ctx context.Context, accounts InstructionAccounts, amountIn uint64, plan *SwapPlan) ([]solana.Instruction, *SwapPlan, error) {
	var instructions []solana.Instruction

	userATA, err := d.wallet.GetATA(accounts.Mint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get associated token account: %w", err)
	}

	exists, err := accountExists(ctx, d.client, userATA)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		createIx, err := BuildCreateATAInstruction(d.wallet.PublicKey, d.wallet.PublicKey, accounts.Mint)
		if err != nil {
			return nil, nil, err
		}
		instructions = append(instructions, createIx)
	}

	buyIx, err := BuildBuyInstruction(accounts, d.wallet, amountIn, plan.MinAmountOut)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build buy instruction: %w", err)
	}

	return append(instructions, buyIx), plan, nil
}
