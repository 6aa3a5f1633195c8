package server

import (
	"encoding/json"
	"time"

	"github.com/lox/holdem-tables/internal/deck"
	"github.com/lox/holdem-tables/internal/game"
	"github.com/lox/holdem-tables/internal/table"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type JoinData struct {
	Table string `json:"table"`
	Name  string `json:"name"`
	ID    string `json:"id,omitempty"`
}

// AddTableData creates a table and subscribes the connection to it.
// LeaveTable, if set, stops events from a table the connection is watching
// without taking its player out of that table.
type AddTableData struct {
	Table      string `json:"table"`
	Name       string `json:"name,omitempty"`
	LeaveTable string `json:"leaveTable,omitempty"`
}

type SitData struct {
	Table      string `json:"table"`
	SeatNumber int    `json:"seatNumber"`
}

// TableData addresses a command at a table without further arguments.
type TableData struct {
	Table string `json:"table"`
}

type RaiseData struct {
	Table  string `json:"table"`
	Amount int    `json:"amount"`
}

type PremoveData struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server → Client Messages

type JoinedData struct {
	Table  string          `json:"table"`
	Player game.PlayerView `json:"player"`
}

type AckData struct {
	Table   string `json:"table"`
	Created bool   `json:"created,omitempty"`
}

type TablesData struct {
	Tables []table.Summary `json:"tables"`
}

type TimeData struct {
	Table    string  `json:"table"`
	Player   string  `json:"player"`
	TimeLeft float64 `json:"timeLeft"`
}

type SeatedData struct {
	Table      string `json:"table"`
	Player     string `json:"player"`
	SeatNumber int    `json:"seatNumber"`
}

// DealCardsData carries only the recipient's own hole cards. Cards is empty
// for someone watching without a hand.
type DealCardsData struct {
	Table string      `json:"table"`
	Cards []deck.Card `json:"cards"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
