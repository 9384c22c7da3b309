package config

import (
	"os"
	"path/filepath"

	"code.assetex.io/assetex/internal/assets"
	"code.assetex.io/assetex/internal/contracts"
	"code.assetex.io/assetex/internal/execution"
	"code.assetex.io/assetex/internal/matching"
	"code.assetex.io/assetex/internal/metrics"
	"code.assetex.io/assetex/internal/settlement"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/wallets"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const configFileName = "config.toml"

// Config ties together all other application configuration types.
type Config struct {
	Environment string

	Execution  execution.Config
	Wallets    wallets.Config
	Assets     assets.Config
	Contracts  contracts.Config
	Matching   matching.Config
	Settlement settlement.Config
	Storage    storage.Config
	Metrics    metrics.Config
}

// NewDefaultConfig returns the default configuration for every
// sub-package.
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
		Execution:   execution.NewDefaultConfig(),
		Wallets:     wallets.NewDefaultConfig(),
		Assets:      assets.NewDefaultConfig(),
		Contracts:   contracts.NewDefaultConfig(),
		Matching:    matching.NewDefaultConfig(),
		Settlement:  settlement.NewDefaultConfig(),
		Storage:     storage.NewDefaultConfig(),
		Metrics:     metrics.NewDefaultConfig(),
	}
}

// Read loads the configuration tree from config.toml under path,
// merging the file over the defaults.
func Read(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, configFileName))
	v.SetConfigType("toml")
	v.SetDefault("Environment", cfg.Environment)
	v.SetDefault("Execution", cfg.Execution)
	v.SetDefault("Wallets", cfg.Wallets)
	v.SetDefault("Assets", cfg.Assets)
	v.SetDefault("Contracts", cfg.Contracts)
	v.SetDefault("Matching", cfg.Matching)
	v.SetDefault("Settlement", cfg.Settlement)
	v.SetDefault("Storage", cfg.Storage)
	v.SetDefault("Metrics", cfg.Metrics)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "unable to read configuration file")
	}
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}
	return &cfg, nil
}

// WriteDefault writes the default configuration file under path,
// refusing to clobber an existing one.
func WriteDefault(path string) error {
	target := filepath.Join(path, configFileName)
	if _, err := os.Stat(target); err == nil {
		return errors.Errorf("configuration already exists at %s", target)
	}
	if err := os.MkdirAll(path, 0o700); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	cfg := NewDefaultConfig()
	return toml.NewEncoder(f).Encode(cfg)
}
