// =============================
// File: internal/dex/pumpfun/curve.go
// =============================
package pumpfun

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// bondingCurveRecordLen is the fixed size of the on-chain record:
// 8-byte discriminator, five u64 reserve fields, 1-byte complete flag.
const bondingCurveRecordLen = 8 + 5*8 + 1

var (
	// ErrCurveAccountNotFound is returned when the bonding-curve account does
	// not exist at the derived address.
	ErrCurveAccountNotFound = errors.New("bonding curve account not found")

	// ErrInvalidCurveData is returned when the account bytes do not form a
	// valid bonding-curve record.
	ErrInvalidCurveData = errors.New("invalid bonding curve data")

	// ErrCurveComplete is returned when the token has migrated off the curve.
	ErrCurveComplete = errors.New("bonding curve complete: token has graduated")
)

// BondingCurveAccount mirrors the on-chain record, little-endian, unpadded.
type BondingCurveAccount struct {
	Discriminator        uint64
	VirtualTokenReserves uint64
	VirtualSolReserves   uint64
	RealTokenReserves    uint64
	RealSolReserves      uint64
	TokenTotalSupply     uint64
	Complete             bool
}

// AccountFetcher is the read side of the RPC client the decoder needs.
type AccountFetcher interface {
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

// DeriveBondingCurveAddresses computes the bonding-curve PDA for a mint and
// the curve's associated token account.
func DeriveBondingCurveAddresses(mint solana.PublicKey) (bondingCurve, associatedBondingCurve solana.PublicKey, err error) {
	bondingCurve, _, err = solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve"), mint.Bytes()},
		PumpFunProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("failed to derive bonding curve: %w", err)
	}

	associatedBondingCurve, _, err = solana.FindAssociatedTokenAddress(bondingCurve, mint)
	if err != nil {
		return solana.PublicKey{}, solana.PublicKey{}, fmt.Errorf("failed to derive associated bonding curve: %w", err)
	}

	return bondingCurve, associatedBondingCurve, nil
}

// DecodeBondingCurveAccount decodes the fixed-layout record, rejecting short
// buffers and records whose discriminator does not match the known constant.
func DecodeBondingCurveAccount(data []byte) (*BondingCurveAccount, error) {
	if len(data) < bondingCurveRecordLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidCurveData, len(data), bondingCurveRecordLen)
	}

	if tag := binary.LittleEndian.Uint64(data[0:8]); tag != BondingCurveDiscriminator {
		return nil, fmt.Errorf("%w: unexpected discriminator %d", ErrInvalidCurveData, tag)
	}

	account := new(BondingCurveAccount)
	if err := bin.NewBorshDecoder(data).Decode(account); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCurveData, err)
	}

	return account, nil
}

// FetchBondingCurveAccount reads and decodes the curve state. The snapshot is
// fetched fresh per call and never cached here.
func FetchBondingCurveAccount(ctx context.Context, client AccountFetcher, bondingCurve solana.PublicKey) (*BondingCurveAccount, error) {
	accountInfo, err := client.GetAccountInfo(ctx, bondingCurve)
	if err != nil {
		return nil, fmt.Errorf("failed to get bonding curve account: %w", err)
	}

	if accountInfo == nil || accountInfo.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrCurveAccountNotFound, bondingCurve.String())
	}

	return DecodeBondingCurveAccount(accountInfo.Value.Data.GetBinary())
}

// TokenPriceSOL estimates the spot price in SOL per whole token from the
// virtual reserves. Returns 0 when the reserves are empty.
func (a *BondingCurveAccount) TokenPriceSOL() float64 {
	if a.VirtualTokenReserves == 0 {
		return 0
	}
	solReserves := float64(a.VirtualSolReserves) / lamportsPerSOL
	tokenReserves := float64(a.VirtualTokenReserves) / tokenUnits
	return solReserves / tokenReserves
}

// MarketCapSOL estimates the market cap in SOL at the current spot price.
func (a *BondingCurveAccount) MarketCapSOL() float64 {
	return a.TokenPriceSOL() * float64(a.TokenTotalSupply) / tokenUnits
}

// Progress reports how much of the curve's real token allocation has been
// sold, in [0, 1]. The token supply still held by the curve counts down.
func (a *BondingCurveAccount) Progress() float64 {
	if a.Complete {
		return 1
	}
	if a.TokenTotalSupply == 0 {
		return 0
	}
	sold := a.TokenTotalSupply - a.RealTokenReserves
	return float64(sold) / float64(a.TokenTotalSupply)
}
