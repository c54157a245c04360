package main

import (
	"fmt"

	"github.com/dissidentcode/blackjack/internal/config"
	"github.com/dissidentcode/blackjack/internal/store"
)

// StatsCmd prints the persisted bankroll and lifetime statistics
type StatsCmd struct{}

func (s *StatsCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	st, err := store.NewFileStore(cfg.Game.StateFile)
	if err != nil {
		return err
	}
	state, err := st.Load()
	if err != nil {
		// Corrupt state degrades to defaults; say so rather than failing.
		fmt.Printf("note: %v\n\n", err)
	}

	fmt.Printf("Balance:      $%d\n", state.Balance)
	fmt.Printf("Last bet:     $%d\n", state.LastBet)
	fmt.Printf("Hands played: %d\n", state.Stats.HandsPlayed)
	fmt.Printf("Wins:         %d\n", state.Stats.Wins)
	fmt.Printf("Losses:       %d\n", state.Stats.Losses)
	fmt.Printf("Pushes:       %d\n", state.Stats.Pushes)
	fmt.Printf("Blackjacks:   %d\n", state.Stats.Blackjacks)
	fmt.Printf("Biggest win:  $%d\n", state.Stats.BiggestWin)
	if state.Stats.HandsPlayed > 0 {
		rate := float64(state.Stats.Wins) / float64(state.Stats.HandsPlayed) * 100
		fmt.Printf("Win rate:     %.1f%%\n", rate)
	}
	return nil
}
