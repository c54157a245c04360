package game

import (
	"context"
	"time"
)

// ShouldDealerHit implements the house drawing rule: hit below 17, hit a
// soft 17, stand on hard 17 and anything higher.
func ShouldDealerHit(v HandValue) bool {
	if v.Total < 17 {
		return true
	}
	return v.Total == 17 && v.IsSoft
}

// PlayDealer runs the dealer's automatic turn: reveal the hole card, then
// draw while ShouldDealerHit says so, then resolve the round. Each step is
// separated by the configured delay so observers can render intermediate
// states; a zero delay plays the whole turn synchronously. The context only
// matters for shutdown: cancelling it abandons the turn without resolving.
func (g *Game) PlayDealer(ctx context.Context) error {
	if !g.allowed(ActionDealerPlay) {
		return nil
	}

	if err := g.pause(ctx); err != nil {
		return err
	}
	g.holeRevealed = true
	g.bus.Publish(HoleRevealEvent{snapshot: g.Snapshot(), timestamp: time.Now()})

	for ShouldDealerHit(Value(g.dealerHand)) {
		if err := g.pause(ctx); err != nil {
			return err
		}
		card := g.shoe.Draw()
		g.dealerHand = append(g.dealerHand, card)
		g.logger.Debug("dealer draws", "card", card, "total", Value(g.dealerHand).Total)
		g.bus.Publish(DealerCardEvent{Card: card, snapshot: g.Snapshot(), timestamp: time.Now()})
	}

	g.resolve()
	return nil
}

// pause waits out the dealer delay, honoring context cancellation.
func (g *Game) pause(ctx context.Context) error {
	if g.delay <= 0 {
		return nil
	}
	fired := make(chan struct{})
	timer := g.clock.AfterFunc(g.delay, func() {
		close(fired)
	})
	defer timer.Stop()

	select {
	case <-fired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
