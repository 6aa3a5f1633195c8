package game

import (
	"github.com/lox/holdem-tables/internal/deck"
)

// Snapshot is the public view of a table sent to every member of its room.
// Hole cards appear only for players showing them; see Table.HoleCards for
// the private deal.
type Snapshot struct {
	Code            string         `json:"code"`
	Name            string         `json:"name"`
	Players         []PlayerView   `json:"players"`
	PlayerPositions map[int]string `json:"playerPositions"`
	Button          int            `json:"button"`
	CurrAction      int            `json:"currAction"`
	Street          Street         `json:"street"`
	Board           []deck.Card    `json:"board"`
	ToCall          int            `json:"toCall"`
	MinRaise        int            `json:"minRaise"`
	Pot             int            `json:"pot"`
	SmallBlind      int            `json:"smallBlind"`
	BigBlind        int            `json:"bigBlind"`
	MaxSeats        int            `json:"maxSeats"`
	Time            float64        `json:"time"`
	TimeCount       float64        `json:"timeCount"`
	AllIn           bool           `json:"allIn"`
	Winner          []PlayerRef    `json:"winner"`
	Results         []PotResult    `json:"results,omitempty"`
	IsStarted       bool           `json:"isStarted"`
	Disabled        bool           `json:"disabled"`
	HandNumber      int            `json:"handNumber"`
}

// PlayerView is a player as seen by the whole room
type PlayerView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Chips       int             `json:"chips"`
	PlayedChips int             `json:"playedChips"`
	TotalBet    int             `json:"totalBet"`
	Seated      int             `json:"seated"`
	HasCards    bool            `json:"hasCards"`
	Cards       []deck.Card     `json:"cards,omitempty"`
	ShowCards   bool            `json:"showCards"`
	Folded      bool            `json:"folded"`
	AllIn       bool            `json:"allIn"`
	InHand      bool            `json:"inHand"`
	Premove     map[string]bool `json:"premove"`
}

// PlayerRef identifies a player
type PlayerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// View renders the player for the room.
func (p *Player) View() PlayerView {
	v := PlayerView{
		ID:          p.ID,
		Name:        p.Name,
		Chips:       p.Chips,
		PlayedChips: p.PlayedChips,
		TotalBet:    p.TotalBet,
		Seated:      p.Seated,
		HasCards:    len(p.HoleCards) > 0,
		ShowCards:   p.ShowCards,
		Folded:      p.Folded,
		AllIn:       p.AllIn,
		InHand:      p.InHand,
		Premove: map[string]bool{
			CheckCall.String(): false,
			Fold.String():      false,
			Raise.String():     false,
		},
	}
	if p.ShowCards && len(p.HoleCards) > 0 {
		v.Cards = append([]deck.Card(nil), p.HoleCards...)
	}
	if p.Premove != nil {
		v.Premove[p.Premove.Action.String()] = true
	}
	return v
}

// Ref returns the player's identity.
func (p *Player) Ref() PlayerRef {
	return PlayerRef{ID: p.ID, Name: p.Name}
}

// Snapshot renders the table state for broadcast.
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		Code:            t.Code,
		Name:            t.Name,
		Players:         make([]PlayerView, 0, len(t.players)),
		PlayerPositions: make(map[int]string, len(t.positions)),
		Button:          t.button,
		CurrAction:      -1,
		Street:          t.street,
		Board:           t.Board(),
		ToCall:          t.toCall,
		MinRaise:        t.minRaise,
		Pot:             t.pot,
		SmallBlind:      t.config.SmallBlind,
		BigBlind:        t.config.BigBlind,
		MaxSeats:        t.config.MaxSeats,
		Time:            t.config.TurnTime.Seconds(),
		TimeCount:       max(t.timeLeft.Seconds(), 0),
		AllIn:           t.allIn,
		Winner:          make([]PlayerRef, 0, len(t.winners)),
		Results:         t.Results(),
		IsStarted:       t.started,
		Disabled:        t.disabled,
		HandNumber:      t.handNumber,
	}
	for i, p := range t.players {
		s.Players = append(s.Players, p.View())
		if p == t.actor {
			s.CurrAction = i
		}
	}
	for seat, id := range t.positions {
		s.PlayerPositions[seat] = id
	}
	for _, w := range t.winners {
		s.Winner = append(s.Winner, w.Ref())
	}
	return s
}
