// =============================
// File: internal/engine/txconfig_test.go
// =============================
package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTxConfig(t *testing.T) {
	t.Run("numeric fallbacks", func(t *testing.T) {
		cfg := DefaultTxConfig()

		assert.Equal(t, DefaultUnitPrice, cfg.UnitPrice)
		assert.Equal(t, DefaultUnitLimit, cfg.UnitLimit)
		assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
		assert.True(t, cfg.UseJito)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("UNIT_PRICE", "2500")
		t.Setenv("UNIT_LIMIT", "450000")

		cfg := DefaultTxConfig()
		assert.Equal(t, uint64(2_500), cfg.UnitPrice)
		assert.Equal(t, uint32(450_000), cfg.UnitLimit)
	})
}
