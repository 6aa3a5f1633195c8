package game

import (
	"slices"
)

// Pot is a main or side pot at showdown
type Pot struct {
	Amount   int
	Eligible []*Player // Contesting players who covered this layer
}

// PotResult records how one pot was awarded
type PotResult struct {
	Amount  int      `json:"amount"`
	Winners []string `json:"winners"`
	Hand    string   `json:"hand,omitempty"`
}

// buildPots layers the hand's contributions by the distinct totals of the
// players still contesting. Each layer is only winnable by those who put in
// at least that much. Chips folded players put in above the highest
// contesting total go to the last pot.
func buildPots(players []*Player) []Pot {
	var levels []int
	for _, p := range players {
		if p.Contesting() && p.TotalBet > 0 && !slices.Contains(levels, p.TotalBet) {
			levels = append(levels, p.TotalBet)
		}
	}
	slices.Sort(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for _, p := range players {
			pot.Amount += min(max(p.TotalBet-prev, 0), level-prev)
			if p.Contesting() && p.TotalBet >= level {
				pot.Eligible = append(pot.Eligible, p)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}

	excess := 0
	for _, p := range players {
		excess += max(p.TotalBet-prev, 0)
	}
	if excess > 0 && len(pots) > 0 {
		pots[len(pots)-1].Amount += excess
	}
	return pots
}
