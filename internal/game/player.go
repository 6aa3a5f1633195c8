package game

import (
	"github.com/lox/holdem-tables/internal/deck"
)

// Premove is an action a player has armed to fire the moment their turn
// begins. Amount only matters for raises; zero means the minimum raise.
type Premove struct {
	Action Action
	Amount int
}

// Player represents a participant at a table. A player persists across hands
// and is only removed when they leave.
type Player struct {
	ID          string
	Name        string
	Chips       int
	PlayedChips int // Committed in the current betting round
	TotalBet    int // Committed over the whole hand
	Seated      int // Seat index, -1 when unseated
	HoleCards   []deck.Card
	ShowCards   bool
	Folded      bool
	AllIn       bool
	InHand      bool // Dealt into the current hand
	Premove     *Premove

	handSeat int  // seat held when the hand was dealt
	left     bool // left mid-hand, removed on reset
}

// NewPlayer creates an unseated player with the given stack.
func NewPlayer(id, name string, chips int) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Chips:    chips,
		Seated:   -1,
		handSeat: -1,
	}
}

// IsSeated reports whether the player holds a seat.
func (p *Player) IsSeated() bool {
	return p.Seated >= 0
}

// CanAct returns true if the player can still take betting actions this hand.
func (p *Player) CanAct() bool {
	return p.InHand && !p.Folded && !p.AllIn
}

// Contesting returns true if the player is still in the running for the pot.
func (p *Player) Contesting() bool {
	return p.InHand && !p.Folded
}

// ArmPremove replaces any pending premove.
func (p *Player) ArmPremove(action Action, amount int) {
	p.Premove = &Premove{Action: action, Amount: amount}
}

// ClearPremove disarms the pending premove, if any.
func (p *Player) ClearPremove() {
	p.Premove = nil
}

// commit moves up to amount chips from the stack into the current round and
// returns how much was actually moved. Emptying the stack puts the player
// all-in.
func (p *Player) commit(amount int) int {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.PlayedChips += amount
	p.TotalBet += amount
	if p.Chips == 0 && p.InHand {
		p.AllIn = true
	}
	return amount
}

// resetForHand clears everything a hand leaves on the player.
func (p *Player) resetForHand() {
	p.PlayedChips = 0
	p.TotalBet = 0
	p.HoleCards = nil
	p.ShowCards = false
	p.Folded = false
	p.AllIn = false
	p.InHand = false
	p.handSeat = -1
}

// dealIn marks the player as part of a new hand holding cards.
func (p *Player) dealIn(cards []deck.Card) {
	p.resetForHand()
	p.InHand = true
	p.HoleCards = cards
	p.handSeat = p.Seated
}
