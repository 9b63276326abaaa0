// =============================
// File: internal/dex/pumpfun/config.go
// =============================
package pumpfun

import "github.com/gagliardetto/solana-go"

// Known Pump.fun protocol addresses.
var (
	// Program ID for the Pump.fun bonding-curve program.
	PumpFunProgramID = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")

	// Global configuration account of the protocol.
	PumpFunGlobal = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")

	// Recipient of protocol fees.
	PumpFunFeeRecipient = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")

	// Event authority for the Pump.fun program.
	PumpFunEventAuth = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")

	// SPL associated-token program.
	AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	// Rent sysvar referenced by the buy instruction.
	SysvarRentPubkey = solana.MustPublicKeyFromBase58("SysvarRent111111111111111111111111111111111")
)

// Anchor instruction discriminators, little-endian u64 of the leading 8 bytes.
const (
	BuyMethodDiscriminator  uint64 = 16927863322537952870
	SellMethodDiscriminator uint64 = 12502976635542562355
)

// BondingCurveDiscriminator tags the bonding-curve account record.
const BondingCurveDiscriminator uint64 = 6966180631402821399

const (
	// MaxSlippageBPS is the operational ceiling enforced before execution.
	MaxSlippageBPS uint64 = 5_000

	// DefaultSlippageBPS is applied when a request leaves slippage unset.
	DefaultSlippageBPS uint64 = 100

	// MinSOLBalance is the floor kept in the payer wallet (0.005 SOL).
	MinSOLBalance uint64 = 5_000_000
)

// Token decimal scales used by the curve price helpers.
const (
	lamportsPerSOL = 1e9
	tokenUnits     = 1e6
)
