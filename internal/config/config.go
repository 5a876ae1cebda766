/*
Package config
File: config.go
Description:
    Loads the server configuration from 'armory.yaml'.
    Every key is optional; missing keys keep the values from Default().
    ARMORY_CONFIG selects another file and ARMORY_ADDR overrides the
    listen address.
*/

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when ARMORY_CONFIG is not set.
const DefaultPath = "armory.yaml"

// DefaultCatalogURL is the Data Dragon item feed the shop was tuned against.
const DefaultCatalogURL = "https://ddragon.leagueoflegends.com/cdn/14.19.1/data/en_US/item.json"

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr          string `yaml:"addr"`           // Listen address, e.g. ":8081"
	AllowedOrigin string `yaml:"allowed_origin"` // CORS origin, "*" for any
}

// ShopConfig holds the economy tuning of a session.
type ShopConfig struct {
	StartingGold int `yaml:"starting_gold"` // Budget of a fresh session
	HistoryLimit int `yaml:"history_limit"` // Max undo entries, 0 for unbounded
}

// CatalogConfig describes where the catalog comes from and what is filtered out.
type CatalogConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`      // Per request
	Attempts    int           `yaml:"attempts"`     // Total tries
	RetryDelay  time.Duration `yaml:"retry_delay"`  // First backoff, doubled per retry
	ExcludedIDs []int         `yaml:"excluded_ids"` // Dropped from the catalog
	MapID       string        `yaml:"map_id"`       // Only items sold on this map; empty keeps all
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // Console encoder instead of JSON
}

// Config is the root configuration struct, mapping to the entire YAML file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Shop    ShopConfig    `yaml:"shop"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8081",
			AllowedOrigin: "*",
		},
		Shop: ShopConfig{
			StartingGold: 20000,
		},
		Catalog: CatalogConfig{
			URL:         DefaultCatalogURL,
			Timeout:     10 * time.Second,
			Attempts:    3,
			RetryDelay:  time.Second,
			ExcludedIDs: []int{3814, 3177},
			MapID:       "11",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the file at path on top of Default().
// A missing file is not an error; the defaults are used as is.
func Load(path string) (Config, error) {
	cfg := Default()

	// 1. Read the YAML file
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		// 2. Unmarshal over the defaults
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// 3. Environment overrides
	if addr := os.Getenv("ARMORY_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by ARMORY_CONFIG, or DefaultPath.
func LoadFromEnv() (Config, error) {
	return Load(GetEnvDefault("ARMORY_CONFIG", DefaultPath))
}

// GetEnvDefault returns the environment value of key, or defaultValue when unset.
func GetEnvDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Validate rejects values the shop cannot run with.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is empty")
	}
	if c.Shop.StartingGold < 0 {
		return fmt.Errorf("config: shop.starting_gold %d is negative", c.Shop.StartingGold)
	}
	if c.Shop.HistoryLimit < 0 {
		return fmt.Errorf("config: shop.history_limit %d is negative", c.Shop.HistoryLimit)
	}
	if c.Catalog.URL == "" {
		return errors.New("config: catalog.url is empty")
	}
	if c.Catalog.Attempts < 1 {
		return fmt.Errorf("config: catalog.attempts %d must be at least 1", c.Catalog.Attempts)
	}
	if c.Catalog.Timeout < 0 || c.Catalog.RetryDelay < 0 {
		return errors.New("config: catalog durations must not be negative")
	}
	return nil
}
