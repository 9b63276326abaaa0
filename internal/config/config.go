// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Config is the file-level configuration for the executor.
type Config struct {
	RPCList      []string `mapstructure:"rpc_list"`
	JitoURL      string   `mapstructure:"jito_url"`
	JitoTip      uint64   `mapstructure:"jito_tip_lamports"`
	UseJito      bool     `mapstructure:"use_jito"`
	Retries      int      `mapstructure:"retries"`
	RetryDelay   int      `mapstructure:"retry_delay"`
	BatchDelay   int      `mapstructure:"batch_delay"`
	WalletFile   string   `mapstructure:"wallet_file"`
	DebugLogging bool     `mapstructure:"debug_logging"`
	LogFile      string   `mapstructure:"log_file"`
}

const (
	DefaultRetries    = 3
	DefaultRetryDelay = 1000
	DefaultBatchDelay = 100
	DefaultJitoURL    = "https://mainnet.block-engine.jito.wtf/api/v1/bundles"
)

// LoadConfig reads and validates the configuration file at path.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"retries":     DefaultRetries,
		"retry_delay": DefaultRetryDelay,
		"batch_delay": DefaultBatchDelay,
		"jito_url":    DefaultJitoURL,
		"use_jito":    true,
		"log_file":    "executor.log",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	if cfg.UseJito {
		if err := validateURLWithCache(cfg.JitoURL, "http"); err != nil {
			return errors.New("invalid Jito URL protocol")
		}
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.Retries < 0 {
		return errors.New("invalid retries count")
	}
	if cfg.RetryDelay <= 0 {
		return errors.New("invalid retry_delay")
	}
	if cfg.BatchDelay <= 0 {
		return errors.New("invalid batch_delay")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("EXECUTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}

	envJito := v.GetString("JITO_URL")
	if envJito != "" {
		cfg.JitoURL = envJito
	}
	return nil
}
