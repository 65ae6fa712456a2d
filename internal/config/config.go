// Package config loads chronocraft settings from an optional YAML file.
// Anything the file leaves out keeps its default.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"chronocraft/internal/economy"
	"chronocraft/internal/profile"

	"gopkg.in/yaml.v3"
)

const appName = "chronocraft"

// UpgradeOffer is one entry of the upgrade shop.
type UpgradeOffer struct {
	Kind string `yaml:"kind"`
	Cost int    `yaml:"cost"`
}

// ExchangeOffer trades Cost crystals for Gain gold or energy.
type ExchangeOffer struct {
	Cost int `yaml:"cost"`
	Gain int `yaml:"gain"`
}

// Shop lists every priced offer shown in the town.
type Shop struct {
	Upgrades       []UpgradeOffer  `yaml:"upgrades"`
	CrystalPacks   []int           `yaml:"crystal_packs"`
	GoldExchange   []ExchangeOffer `yaml:"gold_exchange"`
	EnergyExchange []ExchangeOffer `yaml:"energy_exchange"`
}

// SSH configures cmd/server.
type SSH struct {
	Port    int    `yaml:"port"`
	HostKey string `yaml:"host_key"`
}

// Config is the full settings tree.
type Config struct {
	DataDir    string `yaml:"data_dir"`
	DBPath     string `yaml:"db_path"`
	ProfileKey string `yaml:"profile_key"`
	MaxTier    int    `yaml:"max_tier"`
	LogLevel   string `yaml:"log_level"`
	SSH        SSH    `yaml:"ssh"`
	Shop       Shop   `yaml:"shop"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ProfileKey: profile.DefaultKey,
		MaxTier:    3,
		LogLevel:   "info",
		SSH:        SSH{Port: 2222, HostKey: "server_host_key"},
		Shop: Shop{
			Upgrades: []UpgradeOffer{
				{Kind: "hp", Cost: 100},
				{Kind: "atk", Cost: 120},
				{Kind: "energy", Cost: 200},
			},
			CrystalPacks:   []int{10, 50, 120},
			GoldExchange:   []ExchangeOffer{{Cost: 10, Gain: 500}},
			EnergyExchange: []ExchangeOffer{{Cost: 5, Gain: 3}},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/chronocraft/config.yaml, defaulting
// to ~/.config/chronocraft/config.yaml.
func DefaultPath() (string, error) {
	cfgHome := os.Getenv("XDG_CONFIG_HOME")
	if cfgHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		cfgHome = filepath.Join(home, ".config")
	}
	return filepath.Join(cfgHome, appName, "config.yaml"), nil
}

// DataDir returns $XDG_DATA_HOME/chronocraft, defaulting to
// ~/.local/share/chronocraft.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, appName), nil
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.resolve(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// resolve fills the derived paths.
func (c *Config) resolve() error {
	if c.DataDir == "" {
		dir, err := DataDir()
		if err != nil {
			return fmt.Errorf("data dir: %w", err)
		}
		c.DataDir = dir
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, appName+".db")
	}
	if c.ProfileKey == "" {
		c.ProfileKey = profile.DefaultKey
	}
	return nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if c.MaxTier < 1 {
		return fmt.Errorf("config: max_tier must be at least 1, got %d", c.MaxTier)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	for _, u := range c.Shop.Upgrades {
		if _, err := economy.ParseUpgradeKind(u.Kind); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if u.Cost < 0 {
			return fmt.Errorf("config: upgrade %s has negative cost", u.Kind)
		}
	}
	for _, n := range c.Shop.CrystalPacks {
		if n <= 0 {
			return fmt.Errorf("config: crystal pack size must be positive, got %d", n)
		}
	}
	for _, o := range append(append([]ExchangeOffer(nil), c.Shop.GoldExchange...), c.Shop.EnergyExchange...) {
		if o.Cost < 0 || o.Gain <= 0 {
			return fmt.Errorf("config: invalid exchange offer %d→%d", o.Cost, o.Gain)
		}
	}
	return nil
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", s)
}
