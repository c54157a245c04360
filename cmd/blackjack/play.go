package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/dissidentcode/blackjack/internal/config"
	"github.com/dissidentcode/blackjack/internal/game"
	"github.com/dissidentcode/blackjack/internal/store"
	"github.com/dissidentcode/blackjack/internal/tui"
)

// PlayCmd runs the interactive table
type PlayCmd struct{}

func (p *PlayCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so debug logging goes to a file and
	// everything else is discarded.
	logger := log.New(io.Discard)
	if cli.Debug {
		debugFile, err := os.OpenFile("blackjack-debug.log", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
		if err != nil {
			return fmt.Errorf("failed to create debug log: %w", err)
		}
		defer debugFile.Close()
		logger = log.NewWithOptions(debugFile, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Level:           log.DebugLevel,
		})
	}

	st, err := store.NewFileStore(cfg.Game.StateFile)
	if err != nil {
		return err
	}

	g := game.NewGame(st,
		game.WithDecks(cfg.Game.Decks),
		game.WithDealerDelay(cfg.Game.DealerDelay()),
		game.WithStartingBalance(cfg.Game.StartingBalance),
		game.WithLogger(logger),
	)

	program := tea.NewProgram(tui.NewModel(g, logger), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
