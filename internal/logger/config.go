// =============================
// File: internal/logger/config.go
// =============================
package logger

// Config controls log destinations and rotation.
type Config struct {
	LogFile     string
	MaxSize     int // megabytes
	MaxAge      int // days
	MaxBackups  int
	Compress    bool
	Development bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		LogFile:     "executor.log",
		MaxSize:     100,
		MaxAge:      7,
		MaxBackups:  3,
		Compress:    true,
		Development: false,
	}
}
