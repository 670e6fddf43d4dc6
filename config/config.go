// Package config reads settings from environment variables and an optional
// yaml file. Load returns an explicit Config; nothing is cached globally, so
// tests and commands can construct their own instances.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	RelayerURL string

	SrcEscrowFactory string
	DstEscrowFactory string
	ResolverAddress  string

	// PrivateKey signs orders locally. Only the swap command needs it.
	PrivateKey string

	EVMRPCUrl string
	OracleURL string
}

// Load reads configuration from environment variables and an optional
// .cross-swap.yaml file in $HOME or the working directory.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".cross-swap")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	v.SetDefault("relayer_url", "https://relayer.cross-swap.dev")
	v.SetDefault("oracle_url", "https://api.coingecko.com/api/v3")

	v.SetEnvPrefix("CROSS_SWAP")
	v.AutomaticEnv()

	// Config file is optional; env vars alone are enough.
	_ = v.ReadInConfig()

	cfg := &Config{
		RelayerURL:       v.GetString("relayer_url"),
		SrcEscrowFactory: v.GetString("src_escrow_factory"),
		DstEscrowFactory: v.GetString("dst_escrow_factory"),
		ResolverAddress:  v.GetString("resolver_address"),
		PrivateKey:       v.GetString("private_key"),
		EVMRPCUrl:        v.GetString("evm_rpc_url"),
		OracleURL:        v.GetString("oracle_url"),
	}

	if cfg.RelayerURL == "" {
		return nil, fmt.Errorf("relayer URL not configured. Set CROSS_SWAP_RELAYER_URL or add relayer_url to .cross-swap.yaml")
	}

	return cfg, nil
}

// RequireSigning validates the settings the swap command needs beyond the
// read-only ones.
func (c *Config) RequireSigning() error {
	switch {
	case c.PrivateKey == "":
		return fmt.Errorf("private key not configured. Set CROSS_SWAP_PRIVATE_KEY or add private_key to .cross-swap.yaml")
	case c.SrcEscrowFactory == "":
		return fmt.Errorf("source escrow factory not configured. Set CROSS_SWAP_SRC_ESCROW_FACTORY")
	case c.DstEscrowFactory == "":
		return fmt.Errorf("destination escrow factory not configured. Set CROSS_SWAP_DST_ESCROW_FACTORY")
	case c.ResolverAddress == "":
		return fmt.Errorf("resolver address not configured. Set CROSS_SWAP_RESOLVER_ADDRESS")
	}
	return nil
}
