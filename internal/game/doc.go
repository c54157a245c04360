// Package game implements the core blackjack rules engine and round state
// machine.
//
// The main type is Game, which owns the shoe, the player and dealer hands,
// the bet ledger, the bankroll, and the lifetime statistics. Every player
// action is a phase-gated command: calls made outside their legal phase are
// silent no-ops, and the matching Can* predicates let a UI disable the same
// affordances the engine rejects.
//
// # Basic Usage
//
//	g := game.NewGame(store.NewMemoryStore())
//	g.AddBet(50)
//	g.PlaceBet()
//	for g.Phase() == game.PhasePlaying {
//	    g.Hit() // or Stand, DoubleDown, Split, Surrender
//	}
//	if g.Phase() == game.PhaseDealerTurn {
//	    g.PlayDealer(context.Background())
//	}
//	g.NewRound()
//
// # Deterministic Testing
//
// Inject a seeded RNG or a rigged shoe for full control over the cards:
//
//	g := game.NewGame(st, game.WithRNG(randutil.New(42)))
//	g := game.NewGame(st, game.WithShoe(deck.NewShoeFromCards(cards...)))
//
// Dealer pacing goes through a quartz.Clock, so timed play is testable with
// quartz.NewMock; a zero delay skips pacing entirely.
package game
