package game

import (
	"github.com/paulhankin/poker"

	"github.com/lox/holdem-tables/internal/deck"
)

// Showdown is the outcome of comparing hands
type Showdown struct {
	Winners []*Player
	Rank    string // Description of the winning hand
}

// Evaluator picks the best hands among players sharing board. Ties return
// every tied player.
type Evaluator interface {
	Evaluate(players []*Player, board []deck.Card) Showdown
}

// HandEvaluator compares 7-card hands using github.com/paulhankin/poker.
type HandEvaluator struct{}

// Evaluate implements Evaluator. Players without a full 7-card hand are
// skipped.
func (HandEvaluator) Evaluate(players []*Player, board []deck.Card) Showdown {
	var (
		best    int16
		winners []*Player
		hand    [7]poker.Card
		rank    string
	)
	for _, p := range players {
		cards, ok := sevenCards(p.HoleCards, board)
		if !ok {
			continue
		}
		score := poker.Eval7(&cards)
		switch {
		case len(winners) == 0 || score > best:
			best = score
			winners = []*Player{p}
			hand = cards
		case score == best:
			winners = append(winners, p)
		}
	}
	if len(winners) > 0 {
		if desc, err := poker.Describe(hand[:]); err == nil {
			rank = desc
		}
	}
	return Showdown{Winners: winners, Rank: rank}
}

func sevenCards(hole, board []deck.Card) ([7]poker.Card, bool) {
	var out [7]poker.Card
	if len(hole) != 2 || len(board) != 5 {
		return out, false
	}
	for i, c := range append(append([]deck.Card{}, board...), hole...) {
		pc, err := toPoker(c)
		if err != nil {
			return out, false
		}
		out[i] = pc
	}
	return out, true
}

// toPoker converts a card to the evaluator's representation, where aces are
// rank 1 and suits share our ordering.
func toPoker(c deck.Card) (poker.Card, error) {
	rank := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		rank = poker.Ace
	}
	return poker.MakeCard(poker.Suit(c.Suit), rank)
}
