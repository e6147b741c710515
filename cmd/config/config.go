// Package config resolves CLI defaults from the environment.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Defaults used when the environment does not override them.
const (
	DefaultPath     = "m/44'/60'/0'/0/0"
	DefaultChainID  = uint64(1)
	DefaultLanguage = "english"
)

// Config holds the resolved CLI defaults.
type Config struct {
	Path     string
	ChainID  uint64
	Language string
}

// Load reads WALLETCORE_PATH, WALLETCORE_CHAIN_ID and WALLETCORE_LANG,
// falling back to the package defaults.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix("walletcore")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("path", DefaultPath)
	v.SetDefault("chain-id", DefaultChainID)
	v.SetDefault("lang", DefaultLanguage)

	return Config{
		Path:     v.GetString("path"),
		ChainID:  v.GetUint64("chain-id"),
		Language: v.GetString("lang"),
	}
}
