package game

import "github.com/dissidentcode/blackjack/internal/deck"

// HandValue is the derived strength of a hand. It is never stored; callers
// recompute it from the cards whenever they need it.
type HandValue struct {
	Total  int
	IsSoft bool
}

// Value computes the blackjack value of a hand. Aces start at 11 and are
// demoted to 1 one at a time while the total is over 21. IsSoft is true when
// at least one ace is still counted as 11 and the total is 21 or less.
func Value(hand []deck.Card) HandValue {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return HandValue{Total: total, IsSoft: aces > 0 && total <= 21}
}

// IsBlackjack reports whether a hand is a two-card 21. Whether that 21 is a
// natural is the caller's call: a hand derived from a split never is, and the
// payout resolver takes that as an explicit flag.
func IsBlackjack(hand []deck.Card) bool {
	return len(hand) == 2 && Value(hand).Total == 21
}

// IsBusted reports whether a hand's best total exceeds 21.
func IsBusted(hand []deck.Card) bool {
	return Value(hand).Total > 21
}
