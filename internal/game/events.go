package game

import (
	"time"

	"github.com/dissidentcode/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypePhaseChange   EventType = "phase_change"
	EventTypeHoleReveal    EventType = "hole_reveal"
	EventTypeDealerCard    EventType = "dealer_card"
	EventTypeRoundResolved EventType = "round_resolved"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything the engine announces to observers. Events
// carry a Snapshot taken at publish time so renderers never have to read
// engine state from another goroutine.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
	State() Snapshot
}

// PhaseChangeEvent is published when the round moves between phases
type PhaseChangeEvent struct {
	From      Phase
	To        Phase
	snapshot  Snapshot
	timestamp time.Time
}

func (e PhaseChangeEvent) EventType() EventType { return EventTypePhaseChange }
func (e PhaseChangeEvent) Timestamp() time.Time { return e.timestamp }
func (e PhaseChangeEvent) State() Snapshot      { return e.snapshot }

// HoleRevealEvent is published when the dealer's hole card is turned over at
// the start of the dealer's turn.
type HoleRevealEvent struct {
	snapshot  Snapshot
	timestamp time.Time
}

func (e HoleRevealEvent) EventType() EventType { return EventTypeHoleReveal }
func (e HoleRevealEvent) Timestamp() time.Time { return e.timestamp }
func (e HoleRevealEvent) State() Snapshot      { return e.snapshot }

// DealerCardEvent is published for each card the dealer draws during the
// paced dealer turn.
type DealerCardEvent struct {
	Card      deck.Card
	snapshot  Snapshot
	timestamp time.Time
}

func (e DealerCardEvent) EventType() EventType { return EventTypeDealerCard }
func (e DealerCardEvent) Timestamp() time.Time { return e.timestamp }
func (e DealerCardEvent) State() Snapshot      { return e.snapshot }

// RoundResolvedEvent is published once per round, after payouts and stats
// have been applied. Net is the round's profit across all hands plus the
// insurance settlement.
type RoundResolvedEvent struct {
	Net       int
	Effect    Effect
	snapshot  Snapshot
	timestamp time.Time
}

func (e RoundResolvedEvent) EventType() EventType { return EventTypeRoundResolved }
func (e RoundResolvedEvent) Timestamp() time.Time { return e.timestamp }
func (e RoundResolvedEvent) State() Snapshot      { return e.snapshot }

// EventSubscriber receives game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus distributes game events to subscribers
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous, single-goroutine event bus
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// SubscriberFunc adapts a function to the EventSubscriber interface
type SubscriberFunc func(event GameEvent)

// OnEvent calls the wrapped function
func (f SubscriberFunc) OnEvent(event GameEvent) {
	f(event)
}
