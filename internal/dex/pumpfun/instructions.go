// =============================
// File: internal/dex/pumpfun/instructions.go
// =============================
package pumpfun

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solanaops/pumpfun-executor/internal/wallet"
)

// InstructionAccounts collects the protocol accounts a buy or sell
// instruction references.
type InstructionAccounts struct {
	Mint                   solana.PublicKey
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
}

// instructionData lays out the opaque payload: 8-byte method discriminator,
// then two u64 bound fields, little-endian.
func instructionData(discriminator, amountIn, minAmountOut uint64) []byte {
	data := make([]byte, 24)
	binary.LittleEndian.PutUint64(data[0:8], discriminator)
	binary.LittleEndian.PutUint64(data[8:16], amountIn)
	binary.LittleEndian.PutUint64(data[16:24], minAmountOut)
	return data
}

// BuildBuyInstruction builds the Pump.fun buy instruction. amountIn is the
// lamports offered, minAmountOut the minimum tokens accepted.
func BuildBuyInstruction(accounts InstructionAccounts, userWallet *wallet.Wallet, amountIn, minAmountOut uint64) (solana.Instruction, error) {
	associatedUser, err := userWallet.GetATA(accounts.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get associated token account: %w", err)
	}

	// Account list must be in the exact order expected by the program.
	insAccounts := []*solana.AccountMeta{
		{PublicKey: PumpFunGlobal, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunFeeRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.BondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.AssociatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: associatedUser, IsSigner: false, IsWritable: true},
		{PublicKey: userWallet.PublicKey, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: SysvarRentPubkey, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunEventAuth, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunProgramID, IsSigner: false, IsWritable: false},
	}

	data := instructionData(BuyMethodDiscriminator, amountIn, minAmountOut)
	return solana.NewInstruction(PumpFunProgramID, insAccounts, data), nil
}

// BuildSellInstruction builds the Pump.fun sell instruction. amountIn is the
// tokens offered, minAmountOut the minimum lamports accepted.
func BuildSellInstruction(accounts InstructionAccounts, userWallet *wallet.Wallet, amountIn, minAmountOut uint64) (solana.Instruction, error) {
	associatedUser, err := userWallet.GetATA(accounts.Mint)
	if err != nil {
		return nil, fmt.Errorf("failed to get associated token account: %w", err)
	}

	insAccounts := []*solana.AccountMeta{
		{PublicKey: PumpFunGlobal, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunFeeRecipient, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.Mint, IsSigner: false, IsWritable: false},
		{PublicKey: accounts.BondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: accounts.AssociatedBondingCurve, IsSigner: false, IsWritable: true},
		{PublicKey: associatedUser, IsSigner: false, IsWritable: true},
		{PublicKey: userWallet.PublicKey, IsSigner: true, IsWritable: true},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: AssociatedTokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunEventAuth, IsSigner: false, IsWritable: false},
		{PublicKey: PumpFunProgramID, IsSigner: false, IsWritable: false},
	}

	data := instructionData(SellMethodDiscriminator, amountIn, minAmountOut)
	return solana.NewInstruction(PumpFunProgramID, insAccounts, data), nil
}

// BuildCreateATAInstruction builds the idempotent create-associated-token-
// account instruction for the owner's ATA of the given mint.
func BuildCreateATAInstruction(payer, owner, mint solana.PublicKey) (solana.Instruction, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated token address: %w", err)
	}

	keys := []*solana.AccountMeta{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: ata, IsSigner: false, IsWritable: true},
		{PublicKey: owner, IsSigner: false, IsWritable: false},
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: solana.TokenProgramID, IsSigner: false, IsWritable: false},
		{PublicKey: SysvarRentPubkey, IsSigner: false, IsWritable: false},
	}

	// Instruction code 1 selects CreateIdempotent.
	return solana.NewInstruction(AssociatedTokenProgramID, keys, []byte{1}), nil
}

// accountExists reports whether an account is present on chain. The RPC
// client's not-found sentinel counts as absence, not failure.
func accountExists(ctx context.Context, client AccountFetcher, address solana.PublicKey) (bool, error) {
	accountInfo, err := client.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return accountInfo != nil && accountInfo.Value != nil, nil
}
