package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 6, cfg.Game.Decks)
	assert.Equal(t, 500, cfg.Game.StartingBalance)
	assert.Equal(t, 600*time.Millisecond, cfg.Game.DealerDelay())
	assert.Equal(t, "info", cfg.Game.LogLevel)
	assert.NotEmpty(t, cfg.Game.StateFile)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
game {
  decks            = 2
  starting_balance = 1000
  dealer_delay_ms  = 100
  state_file       = "/tmp/bj.json"
  log_level        = "debug"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Game.Decks)
	assert.Equal(t, 1000, cfg.Game.StartingBalance)
	assert.Equal(t, 100*time.Millisecond, cfg.Game.DealerDelay())
	assert.Equal(t, "/tmp/bj.json", cfg.Game.StateFile)
	assert.Equal(t, "debug", cfg.Game.LogLevel)
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
game {
  decks = 8
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Game.Decks)
	assert.Equal(t, 500, cfg.Game.StartingBalance)
	assert.Equal(t, 600, cfg.Game.DealerDelayMS)
}

func TestLoadInvalidConfigFails(t *testing.T) {
	path := writeConfig(t, `game { decks = `)
	_, err := Load(path)
	assert.Error(t, err)
}
