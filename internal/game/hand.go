package game

import (
	"slices"
)

// Start deals a new hand: the button moves to the next eligible seat, blinds
// are posted, two hole cards go to every seated player with chips, and the
// turn passes to the first player to act preflop.
func (t *Table) Start() error {
	if t.InProgress() {
		return ErrHandInProgress
	}
	if t.started {
		t.ResetGame()
	}
	bySeat := t.eligibleSeats()
	if len(bySeat) < 2 {
		return ErrNotEnoughPlayers
	}

	t.button = t.nextSeat(t.button, bySeat)
	t.handNumber++
	t.started = true
	t.street = Preflop
	t.board = nil
	t.pot = 0
	t.toCall = 0
	t.minRaise = t.config.BigBlind
	t.allIn = false
	t.disabled = false
	t.winners = nil
	t.results = nil
	clear(t.acted)

	t.deck.Shuffle()
	seat := t.button
	for range len(bySeat) {
		seat = t.nextSeat(seat, bySeat)
		bySeat[seat].dealIn(t.deck.Deal(2))
	}

	sb := t.nextSeat(t.button, bySeat)
	if len(bySeat) == 2 {
		sb = t.button
	}
	bb := t.nextSeat(sb, bySeat)
	bySeat[sb].commit(t.config.SmallBlind)
	bySeat[bb].commit(t.config.BigBlind)
	t.toCall = t.config.BigBlind

	if t.roundClosed() {
		t.setActor(nil)
		t.closeStreet()
		return nil
	}
	t.setActor(t.nextActor(bb))
	return nil
}

// dealStreet reveals the board cards for the next street and moves to it.
func (t *Table) dealStreet() {
	t.board = append(t.board, t.deck.Deal(t.street.cardsToReveal())...)
	t.street++
}

// DealOneCard reveals the next street of a hand in which betting is over.
func (t *Table) DealOneCard() error {
	if !t.InProgress() || !t.allIn || t.street == River {
		return ErrNoStreetToDeal
	}
	t.dealStreet()
	return nil
}

// RemainingStreets lists the streets still to be revealed once betting is
// over, in order. It is empty while players can still bet.
func (t *Table) RemainingStreets() []Street {
	if !t.InProgress() || !t.allIn {
		return nil
	}
	var streets []Street
	for s := t.street + 1; s <= River; s++ {
		streets = append(streets, s)
	}
	return streets
}

// FindWinner settles a hand whose board is complete and whose betting is
// closed.
func (t *Table) FindWinner() error {
	if !t.InProgress() || t.street != River || t.actor != nil {
		return ErrShowdownNotReady
	}
	t.showdown()
	return nil
}

// showdown splits every pot among the best eligible hands.
func (t *Table) showdown() {
	t.collect()
	t.setActor(nil)

	contesting := t.contesting()
	for _, p := range contesting {
		p.ShowCards = true
	}

	var winners []*Player
	var results []PotResult
	for _, pot := range buildPots(t.players) {
		sd := t.evaluator.Evaluate(pot.Eligible, t.board)
		if len(sd.Winners) == 0 {
			sd.Winners = pot.Eligible
		}
		ordered := t.clockwise(sd.Winners)
		share, odd := pot.Amount/len(ordered), pot.Amount%len(ordered)
		ids := make([]string, 0, len(ordered))
		for i, w := range ordered {
			w.Chips += share
			if i < odd {
				w.Chips++
			}
			ids = append(ids, w.ID)
			if !slices.Contains(winners, w) {
				winners = append(winners, w)
			}
		}
		results = append(results, PotResult{Amount: pot.Amount, Winners: ids, Hand: sd.Rank})
	}

	t.pot = 0
	t.conclude(winners, results)
}

// awardUncontested gives everything committed to the last player standing.
func (t *Table) awardUncontested(p *Player) {
	t.collect()
	t.setActor(nil)
	amount := t.pot
	p.Chips += amount
	t.pot = 0
	t.conclude([]*Player{p}, []PotResult{{Amount: amount, Winners: []string{p.ID}}})
}

func (t *Table) conclude(winners []*Player, results []PotResult) {
	t.winners = winners
	t.results = results
	t.disabled = true
	t.toCall = 0
	clear(t.acted)
	for _, p := range t.players {
		p.ClearPremove()
	}
}

// clockwise orders players by seat starting after the button.
func (t *Table) clockwise(players []*Player) []*Player {
	n := t.config.MaxSeats
	ordered := slices.Clone(players)
	slices.SortFunc(ordered, func(a, b *Player) int {
		return (a.handSeat-t.button-1+n)%n - (b.handSeat-t.button-1+n)%n
	})
	return ordered
}

// ResetGame clears the hand so the next one can be dealt. Stacks and seats
// are kept; players who left during the hand are dropped. Chips committed to a
// hand that never finished are returned to their owners. Calling it twice is
// the same as calling it once.
func (t *Table) ResetGame() {
	if t.InProgress() {
		for _, p := range t.players {
			p.Chips += p.TotalBet
		}
	}

	t.players = slices.DeleteFunc(t.players, func(p *Player) bool { return p.left })
	for _, p := range t.players {
		p.resetForHand()
		if t.config.AutoRebuy && p.IsSeated() && p.Chips == 0 {
			p.Chips = t.config.StartingChips
		}
	}

	t.setActor(nil)
	t.started = false
	t.street = Preflop
	t.board = nil
	t.pot = 0
	t.toCall = 0
	t.minRaise = t.config.BigBlind
	t.allIn = false
	t.disabled = false
	t.winners = nil
	t.results = nil
	clear(t.acted)
}
