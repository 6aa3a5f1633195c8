package game

import (
	"fmt"
	"strings"
)

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

var streetNames = [...]string{"PREFLOP", "FLOP", "TURN", "RIVER"}

func (s Street) String() string {
	if s < Preflop || s > River {
		return "UNKNOWN"
	}
	return streetNames[s]
}

// MarshalText encodes the street by name.
func (s Street) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a street name.
func (s *Street) UnmarshalText(text []byte) error {
	for i, name := range streetNames {
		if strings.EqualFold(name, string(text)) {
			*s = Street(i)
			return nil
		}
	}
	return fmt.Errorf("unknown street %q", text)
}

// cardsToReveal is how many board cards are dealt when leaving s.
func (s Street) cardsToReveal() int {
	if s == Preflop {
		return 3
	}
	return 1
}

// Action represents a betting intent
type Action int

const (
	CheckCall Action = iota
	Fold
	Raise
)

var actionNames = [...]string{"checkCall", "fold", "raise"}

func (a Action) String() string {
	if a < CheckCall || a > Raise {
		return "unknown"
	}
	return actionNames[a]
}

// MarshalText encodes the action by name.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an action name.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction maps a wire name to an Action. "check" and "call" are accepted
// as aliases of checkCall.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(s) {
	case "checkcall", "check", "call":
		return CheckCall, nil
	case "fold":
		return Fold, nil
	case "raise":
		return Raise, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// Apply dispatches an intent. amount is only read for raises.
func (t *Table) Apply(playerID string, action Action, amount int) error {
	switch action {
	case CheckCall:
		return t.CheckCall(playerID)
	case Fold:
		return t.Fold(playerID)
	case Raise:
		return t.Raise(playerID, amount)
	default:
		return ErrInvalidAction
	}
}

// CheckCall checks when nothing is owed, otherwise calls. A call larger than
// the stack puts the player all-in for what they have.
func (t *Table) CheckCall(playerID string) error {
	p, err := t.turnOf(playerID)
	if err != nil {
		return err
	}

	if owed := t.toCall - p.PlayedChips; owed > 0 {
		p.commit(owed)
	}
	t.acted[p.ID] = true
	t.advance(p.handSeat)
	return nil
}

// Raise raises the bet to amount (not by amount). Every other player able to
// act must act again before the street can close.
func (t *Table) Raise(playerID string, amount int) error {
	p, err := t.turnOf(playerID)
	if err != nil {
		return err
	}

	need := amount - p.PlayedChips
	if need > p.Chips {
		return ErrInsufficientChips
	}
	if amount <= t.toCall {
		return ErrInvalidRaise
	}
	allIn := need == p.Chips
	increment := amount - t.toCall
	if increment < t.minRaise && !allIn {
		return ErrInvalidRaise
	}

	if increment >= t.minRaise {
		t.minRaise = increment
	}
	p.commit(need)
	t.toCall = amount
	clear(t.acted)
	t.acted[p.ID] = true
	t.advance(p.handSeat)
	return nil
}

// Fold removes the player from the hand. Folding down to one contesting
// player ends the hand immediately.
func (t *Table) Fold(playerID string) error {
	p, err := t.turnOf(playerID)
	if err != nil {
		return err
	}

	p.Folded = true
	p.ShowCards = false
	delete(t.acted, p.ID)
	t.advance(p.handSeat)
	return nil
}

// turnOf returns the player if it is their turn to act.
func (t *Table) turnOf(playerID string) (*Player, error) {
	if !t.InProgress() || t.actor == nil || t.actor.ID != playerID {
		return nil, ErrNotYourTurn
	}
	return t.actor, nil
}

// advance moves the hand forward after the player in seat from acted or
// dropped out: end it, close the street, or pass the turn.
func (t *Table) advance(from int) {
	contesting := t.contesting()
	if len(contesting) == 1 {
		t.awardUncontested(contesting[0])
		return
	}
	if t.roundClosed() {
		t.closeStreet()
		return
	}
	t.setActor(t.nextActor(from))
}

// roundClosed reports whether nobody able to act still owes chips or a
// response to the last raise.
func (t *Table) roundClosed() bool {
	able := t.ableToAct()
	for _, p := range able {
		if p.PlayedChips != t.toCall {
			return false
		}
	}
	if len(able) <= 1 {
		return true
	}
	for _, p := range able {
		if !t.acted[p.ID] {
			return false
		}
	}
	return true
}

// closeStreet collects the round's bets and either moves to the next street,
// hands the rest of the board to the reveal sequence when no more betting is
// possible, or goes to showdown after the river.
func (t *Table) closeStreet() {
	t.collect()
	t.toCall = 0
	t.minRaise = t.config.BigBlind
	clear(t.acted)

	if t.street == River {
		t.showdown()
		return
	}

	if len(t.ableToAct()) < 2 {
		t.allIn = true
		t.disabled = true
		t.setActor(nil)
		return
	}

	t.dealStreet()
	t.setActor(t.nextActor(t.button))
}

// collect moves every player's round commitment into the pot.
func (t *Table) collect() {
	for _, p := range t.players {
		t.pot += p.PlayedChips
		p.PlayedChips = 0
	}
}

// nextActor returns the first player able to act in seat order after seat,
// wrapping around the table.
func (t *Table) nextActor(seat int) *Player {
	able := make(map[int]*Player)
	for s, p := range t.handSeats() {
		if p.CanAct() {
			able[s] = p
		}
	}
	if next := t.nextSeat(seat, able); next >= 0 {
		return able[next]
	}
	return nil
}

// handSeats maps seats to the players dealt into the current hand.
func (t *Table) handSeats() map[int]*Player {
	bySeat := make(map[int]*Player, len(t.players))
	for _, p := range t.players {
		if p.InHand && p.handSeat >= 0 {
			bySeat[p.handSeat] = p
		}
	}
	return bySeat
}

func (t *Table) contesting() []*Player {
	var out []*Player
	for _, p := range t.players {
		if p.Contesting() {
			out = append(out, p)
		}
	}
	return out
}

func (t *Table) ableToAct() []*Player {
	var out []*Player
	for _, p := range t.players {
		if p.CanAct() {
			out = append(out, p)
		}
	}
	return out
}
