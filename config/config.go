package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the daemon configuration.
type Config struct {
	ListenAddress     string `toml:"ListenAddress"`
	DataDir           string `toml:"DataDir"`
	Env               string `toml:"Env"`
	LogFile           string `toml:"LogFile"`
	OwnerAccount      string `toml:"OwnerAccount"`
	CollateralAccount string `toml:"CollateralAccount"`
	StableAccount     string `toml:"StableAccount"`
	InitialSupply     string `toml:"InitialSupply"`
}

func defaultConfig() *Config {
	return &Config{
		ListenAddress:     ":8645",
		DataDir:           "./artledger-data",
		Env:               "dev",
		OwnerAccount:      "owner",
		CollateralAccount: "art",
		StableAccount:     "ausd",
		InitialSupply:     "1000000000000000000000000000000000",
	}
}

// Load loads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the daemon relies on.
func (c *Config) Validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("config: ListenAddress required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("config: DataDir required")
	}
	if c.OwnerAccount == "" {
		return fmt.Errorf("config: OwnerAccount required")
	}
	if c.CollateralAccount == "" || c.StableAccount == "" {
		return fmt.Errorf("config: CollateralAccount and StableAccount required")
	}
	if c.CollateralAccount == c.StableAccount {
		return fmt.Errorf("config: ledger accounts must differ")
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := defaultConfig()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("config: create %s: %w", path, err)
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: write default %s: %w", path, err)
	}
	return cfg, nil
}
