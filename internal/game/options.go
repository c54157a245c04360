package game

import (
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/dissidentcode/blackjack/internal/deck"
)

const (
	// DefaultDecks is the shoe size used when no option overrides it.
	DefaultDecks = 6
	// DefaultDealerDelay paces the dealer's automatic draws so observers can
	// follow along. Pass WithDealerDelay(0) for headless play.
	DefaultDealerDelay = 600 * time.Millisecond
)

// Option configures a Game during creation.
type Option func(*gameConfig)

type gameConfig struct {
	rng         *rand.Rand
	shoe        *deck.Shoe
	decks       int
	clock       quartz.Clock
	dealerDelay time.Duration
	logger      *log.Logger
	starting    int
}

// WithRNG sets the random source used to build and shuffle the shoe. Required
// for reproducible deals; defaults to a time-seeded source.
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *gameConfig) {
		cfg.rng = rng
	}
}

// WithShoe injects a pre-built shoe, overriding the RNG and deck count for
// shoe creation. Scenario tests use this with deck.NewShoeFromCards.
func WithShoe(s *deck.Shoe) Option {
	return func(cfg *gameConfig) {
		cfg.shoe = s
	}
}

// WithDecks sets the number of decks in the shoe.
func WithDecks(n int) Option {
	return func(cfg *gameConfig) {
		cfg.decks = n
	}
}

// WithClock injects the clock used to pace the dealer's turn.
func WithClock(c quartz.Clock) Option {
	return func(cfg *gameConfig) {
		cfg.clock = c
	}
}

// WithDealerDelay sets the pause between dealer draws. Zero disables pacing.
func WithDealerDelay(d time.Duration) Option {
	return func(cfg *gameConfig) {
		cfg.dealerDelay = d
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *log.Logger) Option {
	return func(cfg *gameConfig) {
		cfg.logger = logger
	}
}

// WithStartingBalance overrides the bankroll used for fresh players and
// bankruptcy resets.
func WithStartingBalance(n int) Option {
	return func(cfg *gameConfig) {
		cfg.starting = n
	}
}
