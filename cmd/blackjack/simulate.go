package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dissidentcode/blackjack/internal/game"
	"github.com/dissidentcode/blackjack/internal/randutil"
	"github.com/dissidentcode/blackjack/internal/statistics"
	"github.com/dissidentcode/blackjack/internal/store"
	"github.com/dissidentcode/blackjack/internal/strategy"
)

// SimulateCmd autoplays rounds with the basic-strategy player
type SimulateCmd struct {
	Rounds  int   `default:"10000" help:"Number of rounds to simulate"`
	Workers int   `default:"4" help:"Parallel workers, each with its own shoe and bankroll"`
	Seed    int64 `default:"0" help:"RNG seed (0 for random)"`
	Bet     int   `default:"10" help:"Bet per round"`
}

func (s *SimulateCmd) Run(cli *CLI) error {
	if s.Rounds < 1 || s.Workers < 1 || s.Bet < 1 {
		return fmt.Errorf("rounds, workers, and bet must all be positive")
	}
	logger := newLogger(cli.Debug)

	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	total := &statistics.Session{}
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(context.Background())
	perWorker := s.Rounds / s.Workers
	extra := s.Rounds % s.Workers

	for w := 0; w < s.Workers; w++ {
		workerSeed := seed + int64(w)
		rounds := perWorker
		if w < extra {
			rounds++
		}
		if rounds == 0 {
			continue
		}
		eg.Go(func() error {
			session, err := runWorker(ctx, workerSeed, rounds, s.Bet)
			if err != nil {
				return err
			}
			mu.Lock()
			total.Merge(session)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	logger.Debug("simulation complete", "rounds", total.Rounds, "elapsed", time.Since(start))

	settled := total.HandsSettled()
	lo, hi := total.ConfidenceInterval95()
	fmt.Printf("Simulated %d rounds (%d hands) in %s, seed %d\n",
		total.Rounds, settled, time.Since(start).Round(time.Millisecond), seed)
	fmt.Printf("  wins %d (%.1f%%)  losses %d  pushes %d  blackjacks %d\n",
		total.Wins, total.WinRate()*100, total.Losses, total.Pushes, total.Blackjacks)
	fmt.Printf("  net per round: %.4f (95%% CI %.4f..%.4f, stddev %.2f)\n",
		total.Mean(), lo, hi, total.StdDev())
	fmt.Printf("  biggest win %+d, worst round %+d\n", total.MaxNet, total.MinNet)
	return nil
}

// runWorker plays rounds on a private engine and aggregates the results.
func runWorker(ctx context.Context, seed int64, rounds, bet int) (*statistics.Session, error) {
	eng := game.NewGame(store.NewMemoryStore(),
		game.WithRNG(randutil.New(seed)),
		game.WithDealerDelay(0),
	)

	var lastNet int
	eng.Events().Subscribe(game.SubscriberFunc(func(e game.GameEvent) {
		if resolved, ok := e.(game.RoundResolvedEvent); ok {
			lastNet = resolved.Net
		}
	}))

	session := &statistics.Session{}
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return session, err
		}
		before := eng.Stats()

		stake := bet
		if eng.Balance() < stake {
			stake = eng.Balance()
		}
		eng.AddBet(stake)
		eng.PlaceBet()

		if eng.Phase() == game.PhaseInsurance {
			if strategy.TakeInsurance(eng.Snapshot()) {
				eng.TakeInsurance()
			} else {
				eng.DeclineInsurance()
			}
		}
		for eng.Phase() == game.PhasePlaying {
			strategy.Apply(eng)
		}
		if eng.Phase() == game.PhaseDealerTurn {
			if err := eng.PlayDealer(ctx); err != nil {
				return session, err
			}
		}

		after := eng.Stats()
		session.Add(statistics.RoundResult{
			Net:        lastNet,
			Wins:       after.Wins - before.Wins,
			Losses:     after.Losses - before.Losses,
			Pushes:     after.Pushes - before.Pushes,
			Blackjacks: after.Blackjacks - before.Blackjacks,
		})
		eng.NewRound()
	}
	return session, nil
}
