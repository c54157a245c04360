package game

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/dissidentcode/blackjack/internal/deck"
	"github.com/dissidentcode/blackjack/internal/randutil"
	"github.com/dissidentcode/blackjack/internal/store"
)

// Phase is the round state machine's current phase. Exactly one phase is
// active at a time and every mutating command is gated on it.
type Phase int

const (
	PhaseBetting Phase = iota
	PhaseInsurance
	PhasePlaying
	PhaseDealerTurn
	PhaseRoundOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhaseInsurance:
		return "insurance"
	case PhasePlaying:
		return "playing"
	case PhaseDealerTurn:
		return "dealerTurn"
	case PhaseRoundOver:
		return "roundOver"
	default:
		return "unknown"
	}
}

// Action identifies a player command, for the legality table and for
// autoplayers that pick moves by name.
type Action string

const (
	ActionAddBet           Action = "addBet"
	ActionClearBet         Action = "clearBet"
	ActionRebet            Action = "rebet"
	ActionPlaceBet         Action = "placeBet"
	ActionTakeInsurance    Action = "takeInsurance"
	ActionDeclineInsurance Action = "declineInsurance"
	ActionHit              Action = "hit"
	ActionStand            Action = "stand"
	ActionDouble           Action = "double"
	ActionSplit            Action = "split"
	ActionSurrender        Action = "surrender"
	ActionDealerPlay       Action = "dealerPlay"
	ActionNewRound         Action = "newRound"
)

// actionPhases is the transition table: the single phase in which each
// command is legal. Commands invoked in any other phase are silent no-ops.
var actionPhases = map[Action]Phase{
	ActionAddBet:           PhaseBetting,
	ActionClearBet:         PhaseBetting,
	ActionRebet:            PhaseBetting,
	ActionPlaceBet:         PhaseBetting,
	ActionTakeInsurance:    PhaseInsurance,
	ActionDeclineInsurance: PhaseInsurance,
	ActionHit:              PhasePlaying,
	ActionStand:            PhasePlaying,
	ActionDouble:           PhasePlaying,
	ActionSplit:            PhasePlaying,
	ActionSurrender:        PhasePlaying,
	ActionDealerPlay:       PhaseDealerTurn,
	ActionNewRound:         PhaseRoundOver,
}

// Game owns all mutable blackjack state: the shoe, the hands and bets of the
// current round, the bankroll, and the lifetime stats. It is driven by a
// single logical thread of control; the phase gate protects against
// double-triggered commands, not parallelism.
type Game struct {
	shoe    *deck.Shoe
	store   store.Store
	logger  *log.Logger
	clock   quartz.Clock
	delay   time.Duration
	initial int
	bus     EventBus

	phase        Phase
	balance      int
	pendingBet   int
	lastBet      int
	hands        [][]deck.Card
	handBets     []int
	active       int
	dealerHand   []deck.Card
	insuranceBet int
	holeRevealed bool
	message      string
	effect       Effect
	stats        store.Stats
}

// NewGame creates a game, loading balance, last bet, and stats from the
// persistence gateway. The zero-option form plays a real six-deck shoe with
// the standard 600ms dealer pacing.
func NewGame(st store.Store, opts ...Option) *Game {
	cfg := &gameConfig{
		decks:       DefaultDecks,
		dealerDelay: DefaultDealerDelay,
		starting:    store.StartingBalance,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.clock == nil {
		cfg.clock = quartz.NewReal()
	}
	if cfg.shoe == nil {
		if cfg.rng == nil {
			cfg.rng = randutil.New(time.Now().UnixNano())
		}
		cfg.shoe = deck.NewShoe(cfg.decks, cfg.rng)
	}

	state, err := st.Load()
	if err != nil {
		cfg.logger.Warn("loading saved state failed, using defaults", "error", err)
	}
	if state.Balance <= 0 {
		state.Balance = cfg.starting
	}

	g := &Game{
		shoe:    cfg.shoe,
		store:   st,
		logger:  cfg.logger.WithPrefix("game"),
		clock:   cfg.clock,
		delay:   cfg.dealerDelay,
		initial: cfg.starting,
		bus:     NewEventBus(),
		phase:   PhaseBetting,
		balance: state.Balance,
		lastBet: state.LastBet,
		stats:   state.Stats,
		message: "Place your bet.",
	}
	return g
}

// Events returns the bus observers subscribe to. Events are delivered
// synchronously on the goroutine that mutated the engine.
func (g *Game) Events() EventBus {
	return g.bus
}

// Phase returns the current round phase
func (g *Game) Phase() Phase { return g.phase }

// Balance returns the current bankroll
func (g *Game) Balance() int { return g.balance }

// PendingBet returns the bet being assembled during the betting phase
func (g *Game) PendingBet() int { return g.pendingBet }

// LastBet returns the most recently placed bet
func (g *Game) LastBet() int { return g.lastBet }

// Message returns the human-readable status line for the last mutation
func (g *Game) Message() string { return g.message }

// Stats returns the lifetime counters
func (g *Game) Stats() store.Stats { return g.stats }

func (g *Game) allowed(a Action) bool {
	phase, ok := actionPhases[a]
	return ok && g.phase == phase
}

func (g *Game) setPhase(to Phase) {
	from := g.phase
	if from == to {
		return
	}
	g.phase = to
	g.logger.Debug("phase change", "from", from, "to", to)
	g.bus.Publish(PhaseChangeEvent{From: from, To: to, snapshot: g.Snapshot(), timestamp: time.Now()})
}

func (g *Game) save() {
	state := store.State{Balance: g.balance, LastBet: g.lastBet, Stats: g.stats}
	if err := g.store.Save(state); err != nil {
		g.logger.Error("saving state failed", "error", err)
	}
}

// AddBet adds amount to the pending bet. Rejected when the total pending bet
// would exceed the balance or the amount is not positive.
func (g *Game) AddBet(amount int) {
	if !g.allowed(ActionAddBet) {
		return
	}
	if amount <= 0 || amount > g.balance-g.pendingBet {
		return
	}
	g.pendingBet += amount
}

// ClearBet zeroes the pending bet
func (g *Game) ClearBet() {
	if !g.allowed(ActionClearBet) {
		return
	}
	g.pendingBet = 0
}

// CanRebet reports whether the last placed bet can be restored
func (g *Game) CanRebet() bool {
	return g.phase == PhaseBetting && g.lastBet > 0 && g.lastBet <= g.balance
}

// Rebet restores the last placed bet as the pending bet
func (g *Game) Rebet() {
	if !g.allowed(ActionRebet) || !g.CanRebet() {
		return
	}
	g.pendingBet = g.lastBet
}

// CanDeal reports whether PlaceBet would start a round
func (g *Game) CanDeal() bool {
	return g.phase == PhaseBetting && g.pendingBet > 0
}

// PlaceBet locks in the pending bet, deducts it, and deals the initial two
// cards each to player and dealer. The round then moves to the insurance
// phase (dealer shows an ace and the player can afford the premium), straight
// to resolution (either side has a natural), or to the playing phase.
func (g *Game) PlaceBet() {
	if !g.allowed(ActionPlaceBet) || g.pendingBet == 0 {
		return
	}

	// The shoe is only ever refreshed between rounds. The threshold leaves
	// more cards than any single round can consume.
	if g.shoe.NeedsReshuffle() {
		g.logger.Debug("reshuffling shoe", "remaining", g.shoe.Remaining())
		g.shoe.Reshuffle()
	}

	g.lastBet = g.pendingBet
	g.balance -= g.pendingBet
	g.effect = EffectNone

	g.hands = [][]deck.Card{{g.shoe.Draw(), g.shoe.Draw()}}
	g.handBets = []int{g.pendingBet}
	g.active = 0
	g.insuranceBet = 0
	g.holeRevealed = false
	g.dealerHand = []deck.Card{g.shoe.Draw(), g.shoe.Draw()}
	g.pendingBet = 0

	g.logger.Debug("dealt initial cards",
		"player", g.hands[0], "upcard", g.dealerHand[1], "bet", g.handBets[0])

	if g.dealerShowsAce() {
		premium := g.handBets[0] / 2
		if premium > 0 && premium <= g.balance {
			// Framing only; the phase switch happens just below.
			if IsBlackjack(g.hands[0]) {
				g.message = "Even money? Take 1:1 now or risk the push."
			} else {
				g.message = fmt.Sprintf("Insurance? (half your bet: $%d)", premium)
			}
			g.setPhase(PhaseInsurance)
			return
		}
		if premium > g.balance {
			g.message = "Can't afford insurance."
		}
	}

	g.checkNaturals()
}

// dealerShowsAce reports whether the dealer's face-up card is an ace. The
// second card dealt to the dealer is the upcard; the first is the hole card.
func (g *Game) dealerShowsAce() bool {
	return len(g.dealerHand) == 2 && g.dealerHand[1].IsAce()
}

// InsuranceIsEvenMoney reports whether the pending insurance offer is framed
// as even money: the player holds a natural, so taking the premium locks in a
// 1:1 payout instead of risking the push. Mechanically it is plain insurance.
func (g *Game) InsuranceIsEvenMoney() bool {
	return g.phase == PhaseInsurance && len(g.hands) == 1 && IsBlackjack(g.hands[0])
}

// checkNaturals resolves immediately when either side was dealt a natural,
// otherwise opens the playing phase.
func (g *Game) checkNaturals() {
	if IsBlackjack(g.hands[0]) || IsBlackjack(g.dealerHand) {
		g.resolve()
		return
	}
	g.setPhase(PhasePlaying)
}

// TakeInsurance places the insurance side bet (half the original bet,
// floored) and proceeds to the natural-blackjack check.
func (g *Game) TakeInsurance() {
	if !g.allowed(ActionTakeInsurance) {
		return
	}
	amount := g.handBets[0] / 2
	if amount > g.balance {
		return
	}
	g.insuranceBet = amount
	g.balance -= amount
	g.checkNaturals()
}

// DeclineInsurance records no insurance and proceeds to the
// natural-blackjack check.
func (g *Game) DeclineInsurance() {
	if !g.allowed(ActionDeclineInsurance) {
		return
	}
	g.insuranceBet = 0
	g.checkNaturals()
}

// CanHit reports whether Hit would draw a card
func (g *Game) CanHit() bool {
	return g.phase == PhasePlaying
}

// Hit draws one card into the active hand. Reaching 21 or busting advances
// to the next hand (or the dealer) automatically.
func (g *Game) Hit() {
	if !g.allowed(ActionHit) {
		return
	}
	g.hands[g.active] = append(g.hands[g.active], g.shoe.Draw())
	if Value(g.hands[g.active]).Total >= 21 {
		g.advanceHand()
	}
}

// Stand finishes play on the active hand
func (g *Game) Stand() {
	if !g.allowed(ActionStand) {
		return
	}
	g.advanceHand()
}

// CanDouble reports whether DoubleDown is legal: exactly two cards in the
// active hand and enough balance to match its bet.
func (g *Game) CanDouble() bool {
	return g.phase == PhasePlaying &&
		len(g.hands[g.active]) == 2 &&
		g.handBets[g.active] <= g.balance
}

// DoubleDown doubles the active hand's bet, draws exactly one card, and
// advances regardless of the resulting total.
func (g *Game) DoubleDown() {
	if !g.allowed(ActionDouble) || !g.CanDouble() {
		return
	}
	bet := g.handBets[g.active]
	g.balance -= bet
	g.handBets[g.active] = bet * 2
	g.hands[g.active] = append(g.hands[g.active], g.shoe.Draw())
	g.advanceHand()
}

// CanSplit reports whether Split is legal: a single two-card hand of matching
// ranks, with balance to cover a second equal bet. Only one split per round.
func (g *Game) CanSplit() bool {
	return g.phase == PhasePlaying &&
		len(g.hands) == 1 &&
		len(g.hands[0]) == 2 &&
		g.hands[0][0].Rank == g.hands[0][1].Rank &&
		g.handBets[0] <= g.balance
}

// Split divides the matching pair into two hands, deals one card to each,
// duplicates the bet, and restarts play on the first hand. A 21 on the first
// hand skips its manual play but never ends the round early: a post-split 21
// is not a natural.
func (g *Game) Split() {
	if !g.allowed(ActionSplit) || !g.CanSplit() {
		return
	}
	bet := g.handBets[0]
	g.balance -= bet

	first, second := g.hands[0][0], g.hands[0][1]
	g.hands = [][]deck.Card{
		{first, g.shoe.Draw()},
		{second, g.shoe.Draw()},
	}
	g.handBets = []int{bet, bet}
	g.active = 0

	g.logger.Debug("split", "hand0", g.hands[0], "hand1", g.hands[1], "bet", bet)

	if Value(g.hands[0]).Total == 21 {
		g.advanceHand()
	}
}

// CanSurrender reports whether Surrender is legal: pre-split, on the first
// two cards only.
func (g *Game) CanSurrender() bool {
	return g.phase == PhasePlaying &&
		len(g.hands) == 1 &&
		len(g.hands[0]) == 2
}

// Surrender forfeits half the bet (floored half is returned), counts the
// hand as a loss, and ends the round immediately with no dealer play.
func (g *Game) Surrender() {
	if !g.allowed(ActionSurrender) || !g.CanSurrender() {
		return
	}
	bet := g.handBets[0]
	half := bet / 2
	g.balance += half
	g.handBets[0] = 0

	g.stats.HandsPlayed++
	g.stats.Losses++

	g.message = fmt.Sprintf("Surrendered. $%d returned.", half)
	g.effect = EffectNone
	g.setPhase(PhaseRoundOver)
	g.save()
	g.bus.Publish(RoundResolvedEvent{Net: half - bet, Effect: EffectNone, snapshot: g.Snapshot(), timestamp: time.Now()})
}

// advanceHand moves play to the next hand, skipping hands that already total
// 21, and hands control to the dealer (or straight to resolution when every
// hand busted) once all player hands are done.
func (g *Game) advanceHand() {
	for g.active < len(g.hands)-1 {
		g.active++
		if Value(g.hands[g.active]).Total != 21 {
			return
		}
	}

	allBusted := true
	for _, hand := range g.hands {
		if !IsBusted(hand) {
			allBusted = false
			break
		}
	}
	if allBusted {
		// Nothing left to beat; the dealer does not play.
		g.resolve()
		return
	}
	g.holeRevealed = false
	g.setPhase(PhaseDealerTurn)
}

// resolve settles every player hand against the dealer, applies the
// insurance settlement, updates stats and balance, persists, and publishes
// the round result.
func (g *Game) resolve() {
	dealer := Value(g.dealerHand)
	dealerBlackjack := IsBlackjack(g.dealerHand)
	wasSplit := len(g.hands) > 1

	totalNet := 0
	messages := make([]string, 0, len(g.hands)+1)

	for i, hand := range g.hands {
		s := ResolveHand(hand, g.handBets[i], dealer, dealerBlackjack, wasSplit)
		g.balance += s.Returned
		totalNet += s.Net

		switch s.Outcome {
		case OutcomeWin:
			g.stats.Wins++
		case OutcomeLose:
			g.stats.Losses++
		case OutcomePush:
			g.stats.Pushes++
		}
		if s.Blackjack {
			g.stats.Blackjacks++
		}
		g.stats.HandsPlayed++

		if wasSplit {
			messages = append(messages, fmt.Sprintf("Hand %d: %s", i+1, s.Message))
		} else {
			messages = append(messages, s.Message)
		}
	}

	if g.insuranceBet > 0 {
		if dealerBlackjack {
			payout := g.insuranceBet * 2
			g.balance += g.insuranceBet + payout
			totalNet += payout
			messages = append(messages, fmt.Sprintf("Insurance pays +$%d!", payout))
		} else {
			totalNet -= g.insuranceBet
			messages = append(messages, fmt.Sprintf("Insurance lost (-$%d).", g.insuranceBet))
		}
	}

	if totalNet > g.stats.BiggestWin {
		g.stats.BiggestWin = totalNet
	}

	g.message = strings.Join(messages, " | ")
	g.effect = g.roundEffect(wasSplit, totalNet)

	g.logger.Debug("round resolved",
		"net", totalNet, "balance", g.balance, "dealer", dealer.Total, "effect", g.effect)

	g.setPhase(PhaseRoundOver)
	g.save()
	g.bus.Publish(RoundResolvedEvent{Net: totalNet, Effect: g.effect, snapshot: g.Snapshot(), timestamp: time.Now()})
}

// roundEffect picks the dominant effect of the resolution: a natural beats an
// all-hands bust beats an ordinary net win.
func (g *Game) roundEffect(wasSplit bool, totalNet int) Effect {
	if !wasSplit {
		for _, hand := range g.hands {
			if IsBlackjack(hand) {
				return EffectBlackjack
			}
		}
	}
	allBusted := true
	for _, hand := range g.hands {
		if !IsBusted(hand) {
			allBusted = false
			break
		}
	}
	if allBusted {
		return EffectBust
	}
	if totalNet > 0 {
		return EffectWin
	}
	return EffectNone
}

// NewRound discards the finished round and returns to the betting phase. A
// bankroll of exactly zero is reset to the starting balance.
func (g *Game) NewRound() {
	if !g.allowed(ActionNewRound) {
		return
	}
	if g.balance == 0 {
		g.balance = g.initial
		g.message = fmt.Sprintf("Restarting with $%d. Good luck!", g.initial)
		g.save()
	} else {
		g.message = "Place your bet."
	}
	g.hands = nil
	g.handBets = nil
	g.active = 0
	g.dealerHand = nil
	g.insuranceBet = 0
	g.pendingBet = 0
	g.effect = EffectNone
	g.holeRevealed = false
	g.setPhase(PhaseBetting)
}
