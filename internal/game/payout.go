package game

import (
	"fmt"

	"github.com/dissidentcode/blackjack/internal/deck"
)

// Outcome classifies a settled hand
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLose Outcome = "LOSE"
	OutcomePush Outcome = "PUSH"
)

// String returns the string representation of the outcome
func (o Outcome) String() string {
	return string(o)
}

// Settlement is the result of resolving one player hand against the dealer.
// Returned is the amount credited back to the balance (stake plus any
// profit); Net is the profit relative to the stake and can be negative.
type Settlement struct {
	Outcome   Outcome
	Blackjack bool
	Net       int
	Returned  int
	Message   string
}

// ResolveHand settles a single player hand. The rules apply in precedence
// order and the first match wins:
//
//  1. player natural and dealer natural: push
//  2. player natural only: pays 3:2, floored
//  3. dealer natural only: stake lost
//  4. player bust: stake lost (even if the dealer also busts)
//  5. dealer bust: even money
//  6. higher player total: even money
//  7. lower player total: stake lost
//  8. equal totals: push
//
// wasSplit marks a hand created by a split; such a hand never counts as a
// natural regardless of card count or total. The split variants of the
// messages are compact so two of them fit on one line.
func ResolveHand(hand []deck.Card, bet int, dealer HandValue, dealerBlackjack, wasSplit bool) Settlement {
	player := Value(hand)
	playerBlackjack := !wasSplit && IsBlackjack(hand)

	switch {
	case playerBlackjack && dealerBlackjack:
		// A natural implies a pre-split hand, so no compact variant here.
		return Settlement{Outcome: OutcomePush, Blackjack: true, Returned: bet, Message: "Both have Blackjack. Push!"}

	case playerBlackjack:
		payout := bet * 3 / 2
		msg := fmt.Sprintf("Blackjack! You win $%d!", payout)
		return Settlement{Outcome: OutcomeWin, Blackjack: true, Net: payout, Returned: bet + payout, Message: msg}

	case dealerBlackjack:
		msg := fmt.Sprintf("Dealer has Blackjack. You lose $%d.", bet)
		if wasSplit {
			msg = fmt.Sprintf("Dealer BJ. -$%d", bet)
		}
		return Settlement{Outcome: OutcomeLose, Net: -bet, Message: msg}

	case player.Total > 21:
		msg := fmt.Sprintf("Bust! You lose $%d.", bet)
		if wasSplit {
			msg = fmt.Sprintf("Bust! -$%d", bet)
		}
		return Settlement{Outcome: OutcomeLose, Net: -bet, Message: msg}

	case dealer.Total > 21:
		msg := fmt.Sprintf("Dealer busts! You win $%d!", bet)
		if wasSplit {
			msg = fmt.Sprintf("Dealer busts! +$%d", bet)
		}
		return Settlement{Outcome: OutcomeWin, Net: bet, Returned: bet * 2, Message: msg}

	case player.Total > dealer.Total:
		msg := fmt.Sprintf("You win $%d!", bet)
		if wasSplit {
			msg = fmt.Sprintf("Win! +$%d", bet)
		}
		return Settlement{Outcome: OutcomeWin, Net: bet, Returned: bet * 2, Message: msg}

	case player.Total < dealer.Total:
		msg := fmt.Sprintf("Dealer wins. You lose $%d.", bet)
		if wasSplit {
			msg = fmt.Sprintf("Lose. -$%d", bet)
		}
		return Settlement{Outcome: OutcomeLose, Net: -bet, Message: msg}

	default:
		msg := "Push! Bet returned."
		if wasSplit {
			msg = "Push."
		}
		return Settlement{Outcome: OutcomePush, Returned: bet, Message: msg}
	}
}
