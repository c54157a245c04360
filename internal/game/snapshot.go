package game

import (
	"github.com/dissidentcode/blackjack/internal/deck"
	"github.com/dissidentcode/blackjack/internal/store"
)

// Effect is the dominant visual effect of a resolved round, for renderers
// that want to celebrate (or commiserate). Precedence: a natural blackjack
// beats an all-hands bust beats an ordinary winning round.
type Effect string

const (
	EffectNone      Effect = ""
	EffectBlackjack Effect = "blackjack"
	EffectBust      Effect = "bust"
	EffectWin       Effect = "win"
)

// CardSnapshot is a card as observers see it
type CardSnapshot struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
	Red  bool   `json:"red"`
}

// HandSnapshot is one player hand with its bet and derived value
type HandSnapshot struct {
	Cards  []CardSnapshot `json:"cards"`
	Bet    int            `json:"bet"`
	Total  int            `json:"total"`
	Soft   bool           `json:"soft"`
	Active bool           `json:"active"`
	Busted bool           `json:"busted"`
}

// DealerSnapshot is the dealer's hand as observers may see it. While the hole
// card is hidden only the upcard is included and Total is the upcard's value;
// the hole card never leaves the engine early.
type DealerSnapshot struct {
	Cards      []CardSnapshot `json:"cards"`
	Total      int            `json:"total"`
	Soft       bool           `json:"soft"`
	HoleHidden bool           `json:"holeHidden"`
}

// Snapshot is a read-only copy of the observable engine state. External
// components (renderer, persistence, monitors) consume snapshots; they never
// reach back into the engine.
type Snapshot struct {
	Phase        string         `json:"phase"`
	Balance      int            `json:"balance"`
	PendingBet   int            `json:"pendingBet"`
	LastBet      int            `json:"lastBet"`
	InsuranceBet int            `json:"insuranceBet"`
	EvenMoney    bool           `json:"evenMoney"`
	Hands        []HandSnapshot `json:"hands"`
	Dealer       DealerSnapshot `json:"dealer"`
	Message      string         `json:"message"`
	Effect       string         `json:"effect"`
	Stats        store.Stats    `json:"stats"`
	ShoeCards    int            `json:"shoeCards"`
}

func snapshotCards(cards []deck.Card) []CardSnapshot {
	out := make([]CardSnapshot, len(cards))
	for i, c := range cards {
		out[i] = CardSnapshot{Rank: c.Rank.String(), Suit: c.Suit.String(), Red: c.IsRed()}
	}
	return out
}

// Snapshot returns a copy of the observable game state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:        g.phase.String(),
		Balance:      g.balance,
		PendingBet:   g.pendingBet,
		LastBet:      g.lastBet,
		InsuranceBet: g.insuranceBet,
		EvenMoney:    g.InsuranceIsEvenMoney(),
		Message:      g.message,
		Effect:       string(g.effect),
		Stats:        g.stats,
		ShoeCards:    g.shoe.Remaining(),
	}

	snap.Hands = make([]HandSnapshot, len(g.hands))
	for i, hand := range g.hands {
		v := Value(hand)
		snap.Hands[i] = HandSnapshot{
			Cards:  snapshotCards(hand),
			Bet:    g.handBets[i],
			Total:  v.Total,
			Soft:   v.IsSoft,
			Active: g.phase == PhasePlaying && i == g.active,
			Busted: v.Total > 21,
		}
	}

	if len(g.dealerHand) > 0 {
		if g.holeHidden() {
			upcard := g.dealerHand[1]
			snap.Dealer = DealerSnapshot{
				Cards:      snapshotCards([]deck.Card{upcard}),
				Total:      upcard.Value(),
				HoleHidden: true,
			}
		} else {
			v := Value(g.dealerHand)
			snap.Dealer = DealerSnapshot{
				Cards: snapshotCards(g.dealerHand),
				Total: v.Total,
				Soft:  v.IsSoft,
			}
		}
	}

	return snap
}

// holeHidden reports whether the dealer's first card is still face down. The
// hole card shows once the dealer's turn starts or the round is over.
func (g *Game) holeHidden() bool {
	switch g.phase {
	case PhaseInsurance, PhasePlaying:
		return true
	case PhaseDealerTurn:
		return !g.holeRevealed
	default:
		return false
	}
}
