package game

import (
	"time"
)

// Tick takes d off the current turn's budget and reports whether the turn
// has run out. It does nothing when nobody is to act.
func (t *Table) Tick(d time.Duration) (expired bool) {
	if t.actor == nil || !t.InProgress() {
		return false
	}
	t.timeLeft -= d
	return t.timeLeft < 0
}

// DefaultAction is what the current actor does when their time runs out:
// fold when facing a bet, otherwise check.
func (t *Table) DefaultAction() (Action, bool) {
	if t.actor == nil {
		return 0, false
	}
	if t.toCall > t.actor.PlayedChips {
		return Fold, true
	}
	return CheckCall, true
}

// ApplyDefault plays the default action for the current actor through the
// normal intent path.
func (t *Table) ApplyDefault() error {
	action, ok := t.DefaultAction()
	if !ok {
		return ErrNotYourTurn
	}
	t.timeLeft = t.config.TurnTime
	return t.Apply(t.actor.ID, action, 0)
}

// ArmPremove sets the player's pending action, replacing any other.
func (t *Table) ArmPremove(playerID string, action Action, amount int) error {
	p := t.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if action < CheckCall || action > Raise {
		return ErrInvalidAction
	}
	p.ArmPremove(action, amount)
	return nil
}

// ClearPremove disarms the player's pending action.
func (t *Table) ClearPremove(playerID string) error {
	p := t.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	p.ClearPremove()
	return nil
}

// FirePremove applies the current actor's armed premove, consuming it. It
// reports whether a premove was pending. A premove that is no longer legal
// is dropped and its error returned; the turn stays with the player.
func (t *Table) FirePremove() (fired bool, err error) {
	p := t.actor
	if p == nil || p.Premove == nil || !t.InProgress() {
		return false, nil
	}
	pm := *p.Premove
	p.ClearPremove()

	amount := pm.Amount
	if pm.Action == Raise {
		amount = t.premoveRaiseTo(p, amount)
	}
	return true, t.Apply(p.ID, pm.Action, amount)
}

// premoveRaiseTo resolves a premove raise. Zero means the minimum raise and
// anything larger than the stack is capped at all-in.
func (t *Table) premoveRaiseTo(p *Player, amount int) int {
	if amount <= 0 {
		amount = t.toCall + t.minRaise
	}
	return min(amount, p.Chips+p.PlayedChips)
}
