package deck

import rand "math/rand/v2"

// CardsPerDeck is the size of one complete deck.
const CardsPerDeck = 52

// ReshuffleThresholdPerDeck is the per-deck remaining-card count below which
// the shoe is rebuilt before the next round is dealt. At six decks this leaves
// 90 cards, comfortably more than the worst case a single round can consume
// (a split plus maximal hits on both hands plus a long dealer run).
const ReshuffleThresholdPerDeck = 15

// Shoe holds the live supply of cards, composed of one or more shuffled decks.
// Cards are drawn from the end of the slice. The shoe is owned exclusively by
// the game engine; nothing outside this package mutates it.
type Shoe struct {
	cards     []Card
	decks     int
	threshold int
	rng       *rand.Rand
}

// NewShoe creates a shuffled shoe of deckCount complete decks. The RNG is
// required so that dealing is reproducible under test.
func NewShoe(deckCount int, rng *rand.Rand) *Shoe {
	if deckCount < 1 {
		panic("deck count must be at least 1")
	}
	if rng == nil {
		panic("rng is required for shoe creation")
	}
	s := &Shoe{
		decks:     deckCount,
		threshold: ReshuffleThresholdPerDeck * deckCount,
		rng:       rng,
	}
	s.build()
	s.shuffle()
	return s
}

// NewShoeFromCards creates a rigged shoe for deterministic tests. Cards are
// drawn in the order given. The rigged shoe never reshuffles; drawing past the
// end is a test bug and panics.
func NewShoeFromCards(cards ...Card) *Shoe {
	// Draw pops from the end, so store in reverse.
	reversed := make([]Card, len(cards))
	for i, c := range cards {
		reversed[len(cards)-1-i] = c
	}
	return &Shoe{cards: reversed, decks: 0, threshold: 0}
}

func (s *Shoe) build() {
	s.cards = make([]Card, 0, s.decks*CardsPerDeck)
	for d := 0; d < s.decks; d++ {
		for suit := Hearts; suit <= Spades; suit++ {
			for rank := Ace; rank <= King; rank++ {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
}

// shuffle performs a Fisher-Yates shuffle over the whole shoe.
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// NeedsReshuffle reports whether the shoe has fallen below its reshuffle
// threshold. The engine checks this once per round, before the initial deal,
// so the shoe is never swapped out mid-round.
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) < s.threshold
}

// Reshuffle replaces the shoe contents with a freshly built and shuffled set
// of the same deck count.
func (s *Shoe) Reshuffle() {
	s.build()
	s.shuffle()
}

// Draw removes and returns the next card. As a backstop it rebuilds an
// exhausted shoe rather than underflowing, though round-start reshuffling
// means a real game never gets there.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		if s.decks == 0 {
			panic("rigged shoe exhausted")
		}
		s.Reshuffle()
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return card
}

// Remaining returns the number of cards left in the shoe
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// Decks returns the deck count the shoe was built with
func (s *Shoe) Decks() int {
	return s.decks
}
