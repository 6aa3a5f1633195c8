package table

import (
	"github.com/lox/holdem-tables/internal/deck"
	"github.com/lox/holdem-tables/internal/game"
)

// EventType names a table event on the wire
type EventType string

const (
	EventUpdateTable EventType = "updateTable"
	EventTime        EventType = "time"
	EventDealCards   EventType = "dealCards"
	EventSit         EventType = "sit"
)

// Event is emitted by an Engine after it changes its table. Events for one
// table are published in the order the changes were made.
type Event struct {
	Type  EventType
	Table string

	Snapshot *game.Snapshot // updateTable
	Player   string         // sit, time
	Seat     int            // sit
	TimeLeft float64        // time, in seconds

	// HoleCards is private: each player may only be sent their own entry.
	HoleCards map[string][]deck.Card // dealCards
}

// Publisher receives table events. Publish is called with the table locked,
// so it must not block or call back into the engine.
type Publisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Event)

// Publish implements Publisher.
func (f PublisherFunc) Publish(ev Event) { f(ev) }

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}

// Summary is a lobby entry
type Summary struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Players    int    `json:"players"`
	Seated     int    `json:"seated"`
	MaxSeats   int    `json:"maxSeats"`
	SmallBlind int    `json:"smallBlind"`
	BigBlind   int    `json:"bigBlind"`
	InProgress bool   `json:"inProgress"`
	HandNumber int    `json:"handNumber"`
}
