package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dissidentcode/blackjack/internal/deck"
	"github.com/dissidentcode/blackjack/internal/randutil"
	"github.com/dissidentcode/blackjack/internal/store"
)

// sc and hc build spade and heart cards; two suits are enough to rig pairs.
func sc(r deck.Rank) deck.Card { return deck.NewCard(deck.Spades, r) }
func hc(r deck.Rank) deck.Card { return deck.NewCard(deck.Hearts, r) }

// newTestGame rigs a game over the given draw order with no dealer pacing.
// Draws go: player, player, dealer hole, dealer upcard, then play order.
func newTestGame(t *testing.T, draws ...deck.Card) (*Game, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	g := NewGame(st, WithShoe(deck.NewShoeFromCards(draws...)), WithDealerDelay(0))
	return g, st
}

func TestBettingPhase(t *testing.T) {
	g, _ := newTestGame(t)

	assert.Equal(t, PhaseBetting, g.Phase())
	assert.Equal(t, 500, g.Balance())

	g.AddBet(50)
	g.AddBet(25)
	assert.Equal(t, 75, g.PendingBet())

	// Rejected: would exceed balance.
	g.AddBet(500)
	assert.Equal(t, 75, g.PendingBet())

	// Rejected: non-positive.
	g.AddBet(0)
	g.AddBet(-10)
	assert.Equal(t, 75, g.PendingBet())

	g.ClearBet()
	assert.Equal(t, 0, g.PendingBet())

	// PlaceBet without a pending bet is a no-op.
	g.PlaceBet()
	assert.Equal(t, PhaseBetting, g.Phase())
}

func TestBustRoundEndToEnd(t *testing.T) {
	g, st := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine), // player 19
		sc(deck.Six), sc(deck.Five), // dealer hole 6, upcard 5
		hc(deck.Six), // hit busts to 25
	)

	g.AddBet(50)
	g.PlaceBet()
	require.Equal(t, PhasePlaying, g.Phase())
	assert.Equal(t, 450, g.Balance())

	g.Hit()

	// Single busted hand resolves immediately; the dealer never plays.
	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 450, g.Balance())
	assert.Equal(t, 1, g.Stats().Losses)
	assert.Equal(t, 1, g.Stats().HandsPlayed)

	snap := g.Snapshot()
	assert.Len(t, snap.Dealer.Cards, 2)
	assert.False(t, snap.Dealer.HoleHidden)
	assert.Equal(t, string(EffectBust), snap.Effect)

	saved, _ := st.Load()
	assert.Equal(t, 450, saved.Balance)
	assert.Equal(t, 50, saved.LastBet)
}

func TestNaturalBlackjackPayout(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ace), sc(deck.King), // player natural
		sc(deck.Nine), sc(deck.Eight), // dealer 17
	)

	g.AddBet(100)
	g.PlaceBet()

	// Naturals resolve straight from the deal.
	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 650, g.Balance())
	assert.Equal(t, 1, g.Stats().Wins)
	assert.Equal(t, 1, g.Stats().Blackjacks)
	assert.Equal(t, 150, g.Stats().BiggestWin)
	assert.Equal(t, string(EffectBlackjack), g.Snapshot().Effect)
}

func TestDealerNaturalWithTenUpcard(t *testing.T) {
	// Upcard is a ten, so no insurance offer; the hole ace completes a
	// natural and the round resolves immediately.
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine),
		sc(deck.Ace), sc(deck.Ten),
	)

	g.AddBet(50)
	g.PlaceBet()

	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 450, g.Balance())
	assert.Equal(t, 1, g.Stats().Losses)
}

func TestInsurancePaysOnDealerNatural(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine),
		sc(deck.Ten), sc(deck.Ace), // hole ten under an ace upcard
	)

	g.AddBet(20)
	g.PlaceBet()
	require.Equal(t, PhaseInsurance, g.Phase())
	assert.False(t, g.InsuranceIsEvenMoney())
	assert.Equal(t, "Insurance? (half your bet: $10)", g.Message())
	assert.Equal(t, 480, g.Balance())

	g.TakeInsurance()

	// Hand loses 20, insurance returns 30: dead even.
	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 500, g.Balance())
	assert.Equal(t, 1, g.Stats().Losses)
	assert.Contains(t, g.Message(), "Insurance pays +$20!")
}

func TestInsuranceLostWhenDealerMisses(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine),
		sc(deck.Nine), sc(deck.Ace), // dealer soft 20, no natural
	)

	g.AddBet(20)
	g.PlaceBet()
	require.Equal(t, PhaseInsurance, g.Phase())

	g.TakeInsurance()
	require.Equal(t, PhasePlaying, g.Phase())
	assert.Equal(t, 470, g.Balance())

	g.Stand()
	require.Equal(t, PhaseDealerTurn, g.Phase())
	require.NoError(t, g.PlayDealer(context.Background()))

	// 19 loses to soft 20, insurance forfeited.
	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 470, g.Balance())
	assert.Contains(t, g.Message(), "Insurance lost (-$10).")
}

func TestDeclineInsurance(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine),
		sc(deck.Nine), sc(deck.Ace),
	)

	g.AddBet(20)
	g.PlaceBet()
	require.Equal(t, PhaseInsurance, g.Phase())

	g.DeclineInsurance()
	assert.Equal(t, PhasePlaying, g.Phase())
	assert.Equal(t, 480, g.Balance())
	assert.Equal(t, 0, g.Snapshot().InsuranceBet)
}

func TestEvenMoney(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ace), sc(deck.King), // player natural
		sc(deck.Nine), hc(deck.Ace), // ace upcard, no dealer natural
	)

	g.AddBet(20)
	g.PlaceBet()
	require.Equal(t, PhaseInsurance, g.Phase())
	assert.True(t, g.InsuranceIsEvenMoney())
	assert.True(t, g.Snapshot().EvenMoney)
	assert.Equal(t, "Even money? Take 1:1 now or risk the push.", g.Message())

	g.TakeInsurance()

	// Natural pays 30, insurance stake of 10 is lost: net 20, exactly the
	// main bet, the even-money guarantee.
	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 520, g.Balance())
	assert.Equal(t, 20, g.Stats().BiggestWin)
}

func TestInsuranceUnaffordable(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine),
		sc(deck.Nine), sc(deck.Ace),
	)

	// Premium would be 200 but only 100 remains after the bet.
	g.AddBet(400)
	g.PlaceBet()

	assert.Equal(t, PhasePlaying, g.Phase())
	assert.Equal(t, "Can't afford insurance.", g.Message())
}

func TestSplitResolvesHandsIndependently(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Eight), hc(deck.Eight), // the pair
		sc(deck.Ten), sc(deck.Seven), // dealer 17
		deck.NewCard(deck.Diamonds, deck.Ten), // first hand: 18
		deck.NewCard(deck.Clubs, deck.Five),   // second hand: 13
		sc(deck.Ten), // hit on second hand busts it
	)

	g.AddBet(20)
	g.PlaceBet()
	require.Equal(t, PhasePlaying, g.Phase())
	require.True(t, g.CanSplit())

	g.Split()
	assert.Equal(t, 460, g.Balance())

	// Surrender is pre-split only.
	assert.False(t, g.CanSurrender())

	g.Stand() // first hand stays on 18
	g.Hit()   // second hand busts

	require.Equal(t, PhaseDealerTurn, g.Phase())
	require.NoError(t, g.PlayDealer(context.Background()))

	// Win 20 on the first hand, lose 20 on the second.
	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 500, g.Balance())
	assert.Equal(t, 1, g.Stats().Wins)
	assert.Equal(t, 1, g.Stats().Losses)
	assert.Equal(t, 2, g.Stats().HandsPlayed)
	assert.Contains(t, g.Message(), "Hand 1:")
	assert.Contains(t, g.Message(), "Hand 2:")
}

func TestSplitTwentyOneAutoAdvancesWithoutEndingRound(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ace), hc(deck.Ace),
		sc(deck.Nine), sc(deck.Seven), // dealer 16
		sc(deck.Ten),  // first hand: ace + ten = 21
		sc(deck.Five), // second hand: soft 16
		sc(deck.Four), // dealer draws to 20
	)

	g.AddBet(20)
	g.PlaceBet()
	require.True(t, g.CanSplit())
	g.Split()

	// First hand made 21 and was skipped; play continues on the second.
	require.Equal(t, PhasePlaying, g.Phase())
	snap := g.Snapshot()
	require.Len(t, snap.Hands, 2)
	assert.False(t, snap.Hands[0].Active)
	assert.True(t, snap.Hands[1].Active)

	g.Stand()
	require.NoError(t, g.PlayDealer(context.Background()))

	// The split 21 beats the dealer's 20 at even money only; no natural,
	// no blackjack stat.
	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 0, g.Stats().Blackjacks)
	assert.Equal(t, 1, g.Stats().Wins)
	assert.Equal(t, 1, g.Stats().Losses)
}

func TestSplitRequiresPairAndBalance(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine),
		sc(deck.Six), sc(deck.Five),
	)
	g.AddBet(50)
	g.PlaceBet()
	assert.False(t, g.CanSplit())

	// No re-split: a second split is never offered.
	g2, _ := newTestGame(t,
		sc(deck.Eight), hc(deck.Eight),
		sc(deck.Ten), sc(deck.Seven),
		deck.NewCard(deck.Diamonds, deck.Eight), // first hand pairs up again
		deck.NewCard(deck.Clubs, deck.Five),
	)
	g2.AddBet(20)
	g2.PlaceBet()
	g2.Split()
	assert.False(t, g2.CanSplit())
}

func TestDoubleDown(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Six), sc(deck.Five), // 11
		sc(deck.Ten), sc(deck.Seven), // dealer 17
		sc(deck.Ten), // the double draw makes 21
	)

	g.AddBet(25)
	g.PlaceBet()
	require.True(t, g.CanDouble())

	g.DoubleDown()
	require.Equal(t, PhaseDealerTurn, g.Phase())
	assert.Equal(t, 450, g.Balance())
	assert.Equal(t, 50, g.Snapshot().Hands[0].Bet)

	require.NoError(t, g.PlayDealer(context.Background()))
	assert.Equal(t, 550, g.Balance())
}

func TestDoubleDownGating(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Two), sc(deck.Three),
		sc(deck.Ten), sc(deck.Seven),
		sc(deck.Two),
	)
	g.AddBet(50)
	g.PlaceBet()

	g.Hit()
	assert.False(t, g.CanDouble(), "three cards cannot double")
	balance := g.Balance()
	g.DoubleDown()
	assert.Equal(t, balance, g.Balance())

	// Insufficient balance to match the bet.
	g2, _ := newTestGame(t,
		sc(deck.Six), sc(deck.Five),
		sc(deck.Ten), sc(deck.Seven),
	)
	g2.AddBet(300)
	g2.PlaceBet()
	assert.False(t, g2.CanDouble())
}

func TestSurrender(t *testing.T) {
	g, st := newTestGame(t,
		sc(deck.Ten), sc(deck.Six),
		sc(deck.Nine), sc(deck.Ten),
	)

	g.AddBet(40)
	g.PlaceBet()
	require.True(t, g.CanSurrender())

	g.Surrender()

	assert.Equal(t, PhaseRoundOver, g.Phase())
	assert.Equal(t, 480, g.Balance())
	assert.Equal(t, 1, g.Stats().Losses)
	assert.Equal(t, 1, g.Stats().HandsPlayed)
	assert.Equal(t, "Surrendered. $20 returned.", g.Message())

	// No dealer play happened.
	assert.Len(t, g.Snapshot().Dealer.Cards, 2)

	saved, _ := st.Load()
	assert.Equal(t, 480, saved.Balance)
}

func TestSurrenderOnlyOnFirstTwoCards(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Two), sc(deck.Three),
		sc(deck.Nine), sc(deck.Ten),
		sc(deck.Two),
	)
	g.AddBet(40)
	g.PlaceBet()
	g.Hit()

	assert.False(t, g.CanSurrender())
	balance := g.Balance()
	g.Surrender()
	assert.Equal(t, balance, g.Balance())
	assert.Equal(t, PhasePlaying, g.Phase())
}

func TestHitToExactlyTwentyOneAdvances(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Five), sc(deck.Six),
		sc(deck.Ten), sc(deck.Seven),
		sc(deck.Ten), // 21 on the nose
	)
	g.AddBet(10)
	g.PlaceBet()

	g.Hit()
	assert.Equal(t, PhaseDealerTurn, g.Phase())
}

func TestPhaseGatedCommandsAreNoOps(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine),
		sc(deck.Six), sc(deck.Five),
	)

	// Playing commands during betting.
	g.Hit()
	g.Stand()
	g.DoubleDown()
	g.Split()
	g.Surrender()
	g.TakeInsurance()
	g.NewRound()
	assert.Equal(t, PhaseBetting, g.Phase())
	assert.Equal(t, 500, g.Balance())

	g.AddBet(50)
	g.PlaceBet()
	require.Equal(t, PhasePlaying, g.Phase())

	// Betting commands during play.
	g.AddBet(100)
	g.ClearBet()
	g.Rebet()
	g.PlaceBet()
	g.DeclineInsurance()
	assert.Equal(t, 450, g.Balance())
	assert.Equal(t, PhasePlaying, g.Phase())

	// Dealer play outside the dealer turn.
	require.NoError(t, g.PlayDealer(context.Background()))
	assert.Equal(t, PhasePlaying, g.Phase())
}

func TestBankruptcyResetOnNewRound(t *testing.T) {
	g, st := newTestGame(t,
		sc(deck.Ten), sc(deck.Eight), // player 18
		sc(deck.Ten), sc(deck.Nine), // dealer 19
	)

	g.AddBet(500)
	g.PlaceBet()
	g.Stand()
	require.NoError(t, g.PlayDealer(context.Background()))

	require.Equal(t, PhaseRoundOver, g.Phase())
	require.Equal(t, 0, g.Balance())

	g.NewRound()
	assert.Equal(t, PhaseBetting, g.Phase())
	assert.Equal(t, 500, g.Balance())
	assert.Contains(t, g.Message(), "Restarting with $500")

	saved, _ := st.Load()
	assert.Equal(t, 500, saved.Balance)
}

func TestRebet(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Eight),
		sc(deck.Ten), sc(deck.Nine),
	)

	g.AddBet(50)
	g.PlaceBet()
	g.Stand()
	require.NoError(t, g.PlayDealer(context.Background()))
	g.NewRound()

	require.True(t, g.CanRebet())
	g.Rebet()
	assert.Equal(t, 50, g.PendingBet())
}

func TestRebetRequiresAffordableLastBet(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Eight),
		sc(deck.Ten), sc(deck.Nine),
	)

	g.AddBet(480)
	g.PlaceBet()
	g.Stand()
	require.NoError(t, g.PlayDealer(context.Background()))
	require.Equal(t, 20, g.Balance())
	g.NewRound()

	assert.False(t, g.CanRebet())
	g.Rebet()
	assert.Equal(t, 0, g.PendingBet())
}

func TestNewRoundClearsTable(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Eight),
		sc(deck.Ten), sc(deck.Nine),
	)
	g.AddBet(50)
	g.PlaceBet()
	g.Stand()
	require.NoError(t, g.PlayDealer(context.Background()))

	g.NewRound()
	snap := g.Snapshot()
	assert.Equal(t, "betting", snap.Phase)
	assert.Empty(t, snap.Hands)
	assert.Empty(t, snap.Dealer.Cards)
	assert.Equal(t, 0, snap.InsuranceBet)
	assert.Equal(t, "Place your bet.", snap.Message)
}

func TestHoleCardHiddenFromSnapshots(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ten), sc(deck.Nine),
		sc(deck.Six), sc(deck.Five),
	)
	g.AddBet(50)
	g.PlaceBet()

	snap := g.Snapshot()
	require.True(t, snap.Dealer.HoleHidden)
	require.Len(t, snap.Dealer.Cards, 1)
	assert.Equal(t, "5", snap.Dealer.Cards[0].Rank)
	assert.Equal(t, 5, snap.Dealer.Total)
}

func TestBiggestWinIsMonotonic(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ace), sc(deck.King), // natural, +150
		sc(deck.Nine), sc(deck.Eight),
		sc(deck.Ten), sc(deck.Nine), // second round: player 19
		sc(deck.Ten), sc(deck.Eight), // dealer 18
	)

	g.AddBet(100)
	g.PlaceBet()
	require.Equal(t, 150, g.Stats().BiggestWin)
	g.NewRound()

	g.AddBet(10)
	g.PlaceBet()
	g.Stand()
	require.NoError(t, g.PlayDealer(context.Background()))
	assert.Equal(t, 150, g.Stats().BiggestWin)
}

func TestShoeReshufflesAtDealTimeOnly(t *testing.T) {
	shoe := deck.NewShoe(1, randutil.New(11))
	for shoe.Remaining() > 10 {
		shoe.Draw()
	}
	require.True(t, shoe.NeedsReshuffle())

	st := store.NewMemoryStore()
	g := NewGame(st, WithShoe(shoe), WithDealerDelay(0))
	g.AddBet(10)
	g.PlaceBet()

	// Fresh 52 minus the four initial cards.
	assert.Equal(t, 48, shoe.Remaining())
}

func TestRoundResolvedEventCarriesNet(t *testing.T) {
	g, _ := newTestGame(t,
		sc(deck.Ace), sc(deck.King),
		sc(deck.Nine), sc(deck.Eight),
	)

	var resolved *RoundResolvedEvent
	g.Events().Subscribe(SubscriberFunc(func(e GameEvent) {
		if r, ok := e.(RoundResolvedEvent); ok {
			resolved = &r
		}
	}))

	g.AddBet(100)
	g.PlaceBet()

	require.NotNil(t, resolved)
	assert.Equal(t, 150, resolved.Net)
	assert.Equal(t, EffectBlackjack, resolved.Effect)
	assert.Equal(t, "roundOver", resolved.State().Phase)
}
