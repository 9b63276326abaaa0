// =============================
// File: internal/dex/pumpfun/instructions_test.go
// =============================
package pumpfun

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solanaops/pumpfun-executor/internal/wallet"
)

func testAccounts(t *testing.T) (InstructionAccounts, *wallet.Wallet) {
	t.Helper()

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	w := wallet.FromPrivateKey(key)

	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	bondingCurve, associated, err := DeriveBondingCurveAddresses(mint)
	require.NoError(t, err)

	return InstructionAccounts{
		Mint:                   mint,
		BondingCurve:           bondingCurve,
		AssociatedBondingCurve: associated,
	}, w
}

func TestInstructionData(t *testing.T) {
	data := instructionData(BuyMethodDiscriminator, 1_000_000, 990_000)

	require.Len(t, data, 24)
	assert.Equal(t, BuyMethodDiscriminator, binary.LittleEndian.Uint64(data[0:8]))
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(990_000), binary.LittleEndian.Uint64(data[16:24]))
}

func TestBuildBuyInstruction(t *testing.T) {
	accounts, w := testAccounts(t)

	ix, err := BuildBuyInstruction(accounts, w, 1_000_000, 990_000)
	require.NoError(t, err)

	assert.Equal(t, PumpFunProgramID, ix.ProgramID())

	metas := ix.Accounts()
	require.Len(t, metas, 12)
	assert.Equal(t, PumpFunGlobal, metas[0].PublicKey)
	assert.Equal(t, PumpFunFeeRecipient, metas[1].PublicKey)
	assert.Equal(t, accounts.Mint, metas[2].PublicKey)
	assert.Equal(t, accounts.BondingCurve, metas[3].PublicKey)
	assert.Equal(t, accounts.AssociatedBondingCurve, metas[4].PublicKey)
	assert.Equal(t, w.PublicKey, metas[6].PublicKey)
	assert.True(t, metas[6].IsSigner)
	assert.Equal(t, SysvarRentPubkey, metas[9].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, BuyMethodDiscriminator, binary.LittleEndian.Uint64(data[0:8]))
}

func TestBuildSellInstruction(t *testing.T) {
	accounts, w := testAccounts(t)

	ix, err := BuildSellInstruction(accounts, w, 500_000, 100_000)
	require.NoError(t, err)

	assert.Equal(t, PumpFunProgramID, ix.ProgramID())

	metas := ix.Accounts()
	require.Len(t, metas, 12)
	// Sell references the associated-token program where buy has the rent sysvar.
	assert.Equal(t, AssociatedTokenProgramID, metas[9].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, SellMethodDiscriminator, binary.LittleEndian.Uint64(data[0:8]))
	assert.Equal(t, uint64(500_000), binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, uint64(100_000), binary.LittleEndian.Uint64(data[16:24]))
}

func TestBuildCreateATAInstruction(t *testing.T) {
	accounts, w := testAccounts(t)

	ix, err := BuildCreateATAInstruction(w.PublicKey, w.PublicKey, accounts.Mint)
	require.NoError(t, err)

	assert.Equal(t, AssociatedTokenProgramID, ix.ProgramID())

	metas := ix.Accounts()
	require.Len(t, metas, 7)
	assert.Equal(t, w.PublicKey, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)

	expectedATA, err := w.GetATA(accounts.Mint)
	require.NoError(t, err)
	assert.Equal(t, expectedATA, metas[1].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)
}
