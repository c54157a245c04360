package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/dissidentcode/blackjack/internal/config"
	"github.com/dissidentcode/blackjack/internal/game"
	"github.com/dissidentcode/blackjack/internal/monitor"
	"github.com/dissidentcode/blackjack/internal/randutil"
	"github.com/dissidentcode/blackjack/internal/store"
	"github.com/dissidentcode/blackjack/internal/strategy"
)

// ServeCmd autoplays a paced table that observers can watch at /watch
type ServeCmd struct {
	Addr string `default:":8484" help:"HTTP listen address"`
	Bet  int    `default:"25" help:"Bet per round"`
	Seed int64  `default:"0" help:"RNG seed (0 for random)"`
}

func (s *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	logger := newLogger(cli.Debug)
	if !cli.Debug {
		// serve is chatty on purpose; the other commands default to warn
		logger.SetLevel(log.InfoLevel)
	}

	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// The observer table plays on its own bankroll; the player's saved
	// state is never touched.
	eng := game.NewGame(store.NewMemoryStore(),
		game.WithRNG(randutil.New(seed)),
		game.WithDecks(cfg.Game.Decks),
		game.WithDealerDelay(cfg.Game.DealerDelay()),
		game.WithStartingBalance(cfg.Game.StartingBalance),
		game.WithLogger(logger),
	)

	mon := monitor.NewServer(logger)
	eng.Events().Subscribe(mon)

	srv := &http.Server{Addr: s.Addr, Handler: mon.Handler()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("observer server listening", "addr", s.Addr, "path", "/watch")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	eg.Go(func() error {
		err := playLoop(ctx, eng, mon, s.Bet, cfg.Game.DealerDelay())
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	return eg.Wait()
}

// playLoop drives round after round with the basic-strategy player,
// broadcasting a snapshot after every action so observers always see the
// synchronous moves, not just the paced dealer draws.
func playLoop(ctx context.Context, eng *game.Game, mon *monitor.Server, bet int, delay time.Duration) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		stake := bet
		if eng.Balance() < stake {
			stake = eng.Balance()
		}
		eng.AddBet(stake)
		eng.PlaceBet()
		mon.Broadcast(eng.Snapshot())

		if eng.Phase() == game.PhaseInsurance {
			if err := pause(ctx, delay); err != nil {
				return err
			}
			if strategy.TakeInsurance(eng.Snapshot()) {
				eng.TakeInsurance()
			} else {
				eng.DeclineInsurance()
			}
			mon.Broadcast(eng.Snapshot())
		}
		for eng.Phase() == game.PhasePlaying {
			if err := pause(ctx, delay); err != nil {
				return err
			}
			strategy.Apply(eng)
			mon.Broadcast(eng.Snapshot())
		}
		if eng.Phase() == game.PhaseDealerTurn {
			if err := eng.PlayDealer(ctx); err != nil {
				return err
			}
		}

		// Let the result linger before the table clears.
		if err := pause(ctx, 3*delay); err != nil {
			return err
		}
		eng.NewRound()
		mon.Broadcast(eng.Snapshot())
	}
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
