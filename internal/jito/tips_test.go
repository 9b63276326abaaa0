// =============================
// File: internal/jito/tips_test.go
// =============================
package jito

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTipRegistryInitIdempotent(t *testing.T) {
	registry := NewTipRegistry(0, 1)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, registry.Init(context.Background()))
		}()
	}
	wg.Wait()

	account, err := registry.TipAccount()
	require.NoError(t, err)
	assert.False(t, account.IsZero())
}

func TestTipRegistryAccountsFromRegistry(t *testing.T) {
	registry := NewTipRegistry(0, 42)
	require.NoError(t, registry.Init(context.Background()))

	known := make(map[string]bool, len(mainnetTipAccounts))
	for _, addr := range mainnetTipAccounts {
		known[addr] = true
	}

	for i := 0; i < 50; i++ {
		account, err := registry.TipAccount()
		require.NoError(t, err)
		assert.True(t, known[account.String()], "unexpected tip account %s", account)
	}
}

func TestTipRegistryValue(t *testing.T) {
	assert.Equal(t, uint64(DefaultTipLamports), NewTipRegistry(0, 1).TipValue())
	assert.Equal(t, uint64(50_000), NewTipRegistry(50_000, 1).TipValue())
}

func TestTipAccountBeforeInit(t *testing.T) {
	_, err := NewTipRegistry(0, 1).TipAccount()
	require.Error(t, err)
}
