// =============================
// File: internal/engine/txconfig.go
// =============================
package engine

import "github.com/spf13/viper"

// Transaction processing defaults.
const (
	DefaultUnitPrice  uint64 = 1_000
	DefaultUnitLimit  uint32 = 300_000
	DefaultMaxRetries uint   = 3
)

// TxConfig controls prioritization and submission behavior for one swap.
type TxConfig struct {
	UnitPrice  uint64
	UnitLimit  uint32
	MaxRetries uint
	UseJito    bool
}

// DefaultTxConfig sources the compute-budget values from the environment
// (UNIT_PRICE, UNIT_LIMIT) with numeric fallbacks.
func DefaultTxConfig() TxConfig {
	v := viper.New()
	v.SetDefault("unit_price", DefaultUnitPrice)
	v.SetDefault("unit_limit", DefaultUnitLimit)
	v.AutomaticEnv()

	return TxConfig{
		UnitPrice:  v.GetUint64("unit_price"),
		UnitLimit:  v.GetUint32("unit_limit"),
		MaxRetries: DefaultMaxRetries,
		UseJito:    true,
	}
}
