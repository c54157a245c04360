// Package tui renders an interactive blackjack table with Bubble Tea. The
// model never reads engine state while the dealer goroutine is playing; all
// rendering works from snapshots, either taken after a synchronous action or
// carried by events from the paced dealer turn.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/dissidentcode/blackjack/internal/game"
)

const eventBuffer = 64

// Model is the Bubble Tea model for the blackjack table
type Model struct {
	game   *game.Game
	logger *log.Logger

	snap   game.Snapshot
	events chan game.GameEvent

	roundLog    []string
	logViewport viewport.Model

	width       int
	height      int
	initialized bool
	dealerBusy  bool
	quitting    bool
}

type eventMsg struct {
	event game.GameEvent
}

type dealerDoneMsg struct{}

// NewModel creates the TUI model and subscribes it to the game's events.
func NewModel(g *game.Game, logger *log.Logger) *Model {
	m := &Model{
		game:        g,
		logger:      logger.WithPrefix("tui"),
		snap:        g.Snapshot(),
		events:      make(chan game.GameEvent, eventBuffer),
		logViewport: viewport.New(40, 6),
	}
	g.Events().Subscribe(game.SubscriberFunc(func(e game.GameEvent) {
		select {
		case m.events <- e:
		default:
			// A full buffer means the UI is gone; drop rather than block the engine.
		}
	}))
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// waitForEvent returns a command that blocks for the next engine event.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: <-m.events}
	}
}

// runDealer plays the dealer's paced turn off the UI goroutine.
func (m *Model) runDealer() tea.Cmd {
	return func() tea.Msg {
		if err := m.game.PlayDealer(context.Background()); err != nil {
			m.logger.Error("dealer turn aborted", "error", err)
		}
		return dealerDoneMsg{}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 2
		m.logViewport.Height = max(3, msg.Height-16)
		m.initialized = true
		return m, nil

	case eventMsg:
		m.snap = msg.event.State()
		if resolved, ok := msg.event.(game.RoundResolvedEvent); ok {
			m.appendLog(fmt.Sprintf("%s (net %+d)", m.snap.Message, resolved.Net))
		}
		return m, m.waitForEvent()

	case dealerDoneMsg:
		m.dealerBusy = false
		m.snap = m.game.Snapshot()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "q" || key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	// The dealer owns the table while it plays; player keys wait.
	if m.dealerBusy {
		return m, nil
	}

	switch m.snap.Phase {
	case "betting":
		switch key {
		case "1":
			m.game.AddBet(1)
		case "2":
			m.game.AddBet(5)
		case "3":
			m.game.AddBet(25)
		case "4":
			m.game.AddBet(100)
		case "c":
			m.game.ClearBet()
		case "r":
			m.game.Rebet()
		case "enter":
			m.game.PlaceBet()
		}

	case "insurance":
		switch key {
		case "y":
			m.game.TakeInsurance()
		case "n":
			m.game.DeclineInsurance()
		}

	case "playing":
		switch key {
		case "h":
			m.game.Hit()
		case "s":
			m.game.Stand()
		case "d":
			m.game.DoubleDown()
		case "p":
			m.game.Split()
		case "u":
			m.game.Surrender()
		}

	case "roundOver":
		if key == "enter" || key == "n" {
			m.game.NewRound()
		}
	}

	m.snap = m.game.Snapshot()

	if m.snap.Phase == "dealerTurn" {
		m.dealerBusy = true
		return m, m.runDealer()
	}
	return m, nil
}

func (m *Model) appendLog(line string) {
	m.roundLog = append(m.roundLog, line)
	if len(m.roundLog) > 200 {
		m.roundLog = m.roundLog[len(m.roundLog)-200:]
	}
	m.logViewport.SetContent(LogStyle.Render(strings.Join(m.roundLog, "\n")))
	m.logViewport.GotoBottom()
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return "Thanks for playing!\n"
	}
	if !m.initialized {
		return "Setting up the table..."
	}

	snap := m.snap
	var b strings.Builder

	header := fmt.Sprintf("BLACKJACK  balance $%d  shoe %d cards  hands %d  W/L/P %d/%d/%d",
		snap.Balance, snap.ShoeCards, snap.Stats.HandsPlayed,
		snap.Stats.Wins, snap.Stats.Losses, snap.Stats.Pushes)
	b.WriteString(HeaderStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString(HandLabelStyle.Render("Dealer"))
	if len(snap.Dealer.Cards) > 0 {
		b.WriteString("  ")
		b.WriteString(renderDealer(snap.Dealer))
	}
	b.WriteString("\n\n")

	for i, hand := range snap.Hands {
		label := "You"
		if len(snap.Hands) > 1 {
			label = fmt.Sprintf("Hand %d", i+1)
		}
		style := HandLabelStyle
		if hand.Active {
			style = ActiveHandStyle
			label += " ▸"
		}
		b.WriteString(style.Render(label))
		b.WriteString("  ")
		b.WriteString(renderHand(hand))
		b.WriteString("\n")
	}
	if len(snap.Hands) == 0 {
		b.WriteString(HandLabelStyle.Render("You"))
		b.WriteString("  ")
		if snap.PendingBet > 0 {
			b.WriteString(BalanceStyle.Render(fmt.Sprintf("bet $%d ready", snap.PendingBet)))
		} else {
			b.WriteString(HelpStyle.Render("no bet placed"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(MessageStyle.Render(snap.Message))
	b.WriteString("\n\n")

	b.WriteString(HelpStyle.Render(m.helpLine()))
	b.WriteString("\n\n")
	b.WriteString(m.logViewport.View())

	return b.String()
}

func (m *Model) helpLine() string {
	switch m.snap.Phase {
	case "betting":
		line := "1/2/3/4 add $1/$5/$25/$100 · c clear · enter deal"
		if m.game.CanRebet() {
			line += fmt.Sprintf(" · r rebet $%d", m.snap.LastBet)
		}
		return line + " · q quit"
	case "insurance":
		if m.snap.EvenMoney {
			return "y take even money · n decline · q quit"
		}
		return "y take insurance · n decline · q quit"
	case "playing":
		line := "h hit · s stand"
		if m.game.CanDouble() {
			line += " · d double"
		}
		if m.game.CanSplit() {
			line += " · p split"
		}
		if m.game.CanSurrender() {
			line += " · u surrender"
		}
		return line + " · q quit"
	case "dealerTurn":
		return "dealer is playing..."
	default:
		return "enter new round · q quit"
	}
}

func renderCard(c game.CardSnapshot) string {
	text := c.Rank + c.Suit
	if c.Red {
		return RedCardStyle.Render(text)
	}
	return BlackCardStyle.Render(text)
}

func renderHand(hand game.HandSnapshot) string {
	parts := make([]string, 0, len(hand.Cards)+1)
	for _, c := range hand.Cards {
		parts = append(parts, renderCard(c))
	}
	value := fmt.Sprintf(" %d", hand.Total)
	if hand.Soft {
		value = fmt.Sprintf(" soft %d", hand.Total)
	}
	if hand.Busted {
		value += " BUST"
	}
	value += fmt.Sprintf("  ($%d)", hand.Bet)
	parts = append(parts, BalanceStyle.Render(value))
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func renderDealer(d game.DealerSnapshot) string {
	parts := make([]string, 0, len(d.Cards)+2)
	if d.HoleHidden {
		parts = append(parts, HoleCardStyle.Render("??"))
	}
	for _, c := range d.Cards {
		parts = append(parts, renderCard(c))
	}
	value := fmt.Sprintf(" %d", d.Total)
	if d.HoleHidden {
		value = fmt.Sprintf(" showing %d", d.Total)
	} else if d.Soft {
		value = fmt.Sprintf(" soft %d", d.Total)
	}
	if d.Total > 21 {
		value += " BUST"
	}
	parts = append(parts, BalanceStyle.Render(value))
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
