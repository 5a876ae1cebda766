package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "armory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 20000, cfg.Shop.StartingGold)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
shop:
  starting_gold: 5000
  history_limit: 50
catalog:
  timeout: 3s
  excluded_ids: [1, 2, 3]
  map_id: ""
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Shop.StartingGold)
	assert.Equal(t, 50, cfg.Shop.HistoryLimit)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, []int{1, 2, 3}, cfg.Catalog.ExcludedIDs)
	assert.Equal(t, "", cfg.Catalog.MapID)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched keys keep their defaults.
	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, DefaultCatalogURL, cfg.Catalog.URL)
	assert.Equal(t, 3, cfg.Catalog.Attempts)
}

func TestLoadAddrFromEnv(t *testing.T) {
	t.Setenv("ARMORY_ADDR", ":9999")
	cfg, err := Load(writeConfig(t, "server:\n  addr: \":7000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestLoadFromEnvPath(t *testing.T) {
	t.Setenv("ARMORY_CONFIG", writeConfig(t, "shop:\n  starting_gold: 42\n"))
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Shop.StartingGold)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "shop: [\n"},
		{name: "negative gold", body: "shop:\n  starting_gold: -1\n"},
		{name: "negative history", body: "shop:\n  history_limit: -5\n"},
		{name: "empty url", body: "catalog:\n  url: \"\"\n"},
		{name: "no attempts", body: "catalog:\n  attempts: 0\n"},
		{name: "negative delay", body: "catalog:\n  retry_delay: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("ARMORY_TEST_VALUE", "")
	assert.Equal(t, "fallback", GetEnvDefault("ARMORY_TEST_VALUE", "fallback"))
	t.Setenv("ARMORY_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnvDefault("ARMORY_TEST_VALUE", "fallback"))
}
