// Package config loads game configuration from an HCL file, falling back to
// defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the root configuration document
type Config struct {
	Game GameConfig `hcl:"game,block"`
}

// GameConfig holds the table rules and host settings
type GameConfig struct {
	Decks           int    `hcl:"decks,optional"`
	StartingBalance int    `hcl:"starting_balance,optional"`
	DealerDelayMS   int    `hcl:"dealer_delay_ms,optional"`
	StateFile       string `hcl:"state_file,optional"`
	LogLevel        string `hcl:"log_level,optional"`
}

// DealerDelay returns the dealer pacing as a duration
func (g GameConfig) DealerDelay() time.Duration {
	return time.Duration(g.DealerDelayMS) * time.Millisecond
}

// Default returns the built-in configuration: a six-deck shoe, $500 starting
// balance, 600ms dealer pacing, and state under the user's home directory.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			Decks:           6,
			StartingBalance: 500,
			DealerDelayMS:   600,
			StateFile:       defaultStateFile(),
			LogLevel:        "info",
		},
	}
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "blackjack-state.json"
	}
	return filepath.Join(home, ".blackjack", "state.json")
}

// Load reads configuration from an HCL file. A missing file returns the
// defaults; a present but invalid file is an error. Fields omitted from the
// file keep their default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename == "" {
		return cfg, nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %s", filename, diags.Error())
	}

	var parsed Config
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %s", filename, diags.Error())
	}

	if parsed.Game.Decks > 0 {
		cfg.Game.Decks = parsed.Game.Decks
	}
	if parsed.Game.StartingBalance > 0 {
		cfg.Game.StartingBalance = parsed.Game.StartingBalance
	}
	if parsed.Game.DealerDelayMS > 0 {
		cfg.Game.DealerDelayMS = parsed.Game.DealerDelayMS
	}
	if parsed.Game.StateFile != "" {
		cfg.Game.StateFile = parsed.Game.StateFile
	}
	if parsed.Game.LogLevel != "" {
		cfg.Game.LogLevel = parsed.Game.LogLevel
	}

	return cfg, nil
}
