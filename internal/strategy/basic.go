// Package strategy provides a fixed basic-strategy autoplayer used by the
// simulator and the observer server. It decides from snapshots only, the same
// view any external UI gets.
package strategy

import "github.com/dissidentcode/blackjack/internal/game"

// TakeInsurance decides the insurance offer. Plain insurance is a losing side
// bet, so it is always declined; even money is guaranteed profit, so it is
// always taken.
func TakeInsurance(snap game.Snapshot) bool {
	return snap.EvenMoney
}

// Move picks the next playing action for the active hand. It is a compact
// basic-strategy table: split aces and eights, double hard 9-11 against a
// weak dealer, stand on made hands, otherwise hit. The caller is expected to
// degrade a rejected Split or Double to a Hit.
func Move(snap game.Snapshot) game.Action {
	var hand game.HandSnapshot
	found := false
	for _, h := range snap.Hands {
		if h.Active {
			hand = h
			found = true
			break
		}
	}
	if !found {
		return game.ActionStand
	}

	up := snap.Dealer.Total // upcard value while the hole card is hidden

	if len(hand.Cards) == 2 && hand.Cards[0].Rank == hand.Cards[1].Rank {
		if hand.Cards[0].Rank == "A" || hand.Cards[0].Rank == "8" {
			return game.ActionSplit
		}
	}

	if hand.Soft {
		switch {
		case hand.Total >= 19:
			return game.ActionStand
		case hand.Total == 18 && up >= 2 && up <= 8:
			return game.ActionStand
		default:
			return game.ActionHit
		}
	}

	switch {
	case hand.Total >= 17:
		return game.ActionStand
	case hand.Total >= 13 && up <= 6:
		return game.ActionStand
	case hand.Total == 12 && up >= 4 && up <= 6:
		return game.ActionStand
	case hand.Total == 11 && len(hand.Cards) == 2:
		return game.ActionDouble
	case hand.Total == 10 && len(hand.Cards) == 2 && up <= 9:
		return game.ActionDouble
	case hand.Total == 9 && len(hand.Cards) == 2 && up >= 3 && up <= 6:
		return game.ActionDouble
	default:
		return game.ActionHit
	}
}

// Apply plays one decision against the engine, degrading an illegal split or
// double to a hit the way a live player would after the dealer waves it off.
// It returns the action actually taken.
func Apply(g *game.Game) game.Action {
	move := Move(g.Snapshot())
	switch move {
	case game.ActionSplit:
		if g.CanSplit() {
			g.Split()
			return move
		}
		move = game.ActionHit
	case game.ActionDouble:
		if g.CanDouble() {
			g.DoubleDown()
			return move
		}
		move = game.ActionHit
	}
	if move == game.ActionHit {
		g.Hit()
		return game.ActionHit
	}
	g.Stand()
	return game.ActionStand
}
