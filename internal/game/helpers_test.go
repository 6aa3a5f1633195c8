package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-tables/internal/deck"
	"github.com/lox/holdem-tables/internal/randutil"
)

// testTableOption configures test table creation
type testTableOption func(*testTableBuilder)

type testTableBuilder struct {
	seed    int64
	config  Config
	deck    *deck.Deck
	eval    Evaluator
	players int
	chips   map[int]int
}

func withPlayers(n int) testTableOption {
	return func(b *testTableBuilder) { b.players = n }
}

func withBlinds(small, big int) testTableOption {
	return func(b *testTableBuilder) {
		b.config.SmallBlind = small
		b.config.BigBlind = big
	}
}

// withStacked deals the given cards first. Hole cards go out two at a time
// starting left of the button, then the board.
func withStacked(cards string) testTableOption {
	return func(b *testTableBuilder) { b.deck = deck.Stacked(deck.MustParseCards(cards)) }
}

func withEvaluator(e Evaluator) testTableOption {
	return func(b *testTableBuilder) { b.eval = e }
}

func withChips(seat, chips int) testTableOption {
	return func(b *testTableBuilder) { b.chips[seat] = chips }
}

func withAutoRebuy(on bool) testTableOption {
	return func(b *testTableBuilder) { b.config.AutoRebuy = on }
}

// newTestTable seats players p0..pN-1 in seats 0..N-1 and, with at least two
// players, deals the first hand. The button starts on seat 0.
func newTestTable(t *testing.T, opts ...testTableOption) *Table {
	t.Helper()

	b := &testTableBuilder{
		seed:    42,
		config:  DefaultConfig(),
		players: 2,
		chips:   make(map[int]int),
	}
	for _, opt := range opts {
		opt(b)
	}

	tableOpts := []Option{WithRNG(randutil.New(b.seed))}
	if b.deck != nil {
		tableOpts = append(tableOpts, WithDeck(b.deck))
	}
	if b.eval != nil {
		tableOpts = append(tableOpts, WithEvaluator(b.eval))
	}
	table := NewTable("test", "Test Table", b.config, tableOpts...)

	for i := range b.players {
		p := table.Join(playerID(i), fmt.Sprintf("Player %d", i))
		if chips, ok := b.chips[i]; ok {
			p.Chips = chips
		}
		// Seat directly so the hand starts with everyone rather than the
		// first two.
		table.positions[i] = p.ID
		p.Seated = i
	}
	if b.players >= 2 {
		require.NoError(t, table.Start())
	}
	return table
}

func playerID(i int) string {
	return fmt.Sprintf("p%d", i)
}

// chipTotal counts every chip on the table wherever it sits.
func chipTotal(table *Table) int {
	total := table.pot
	for _, p := range table.players {
		total += p.Chips + p.PlayedChips
	}
	return total
}

func actorID(t *testing.T, table *Table) string {
	t.Helper()
	require.NotNil(t, table.Actor(), "expected someone to act")
	return table.Actor().ID
}

// runOut finishes a hand in which betting is over.
func runOut(t *testing.T, table *Table) {
	t.Helper()
	for range table.RemainingStreets() {
		require.NoError(t, table.DealOneCard())
	}
	require.NoError(t, table.FindWinner())
}

// rankedEvaluator ranks hands by a fixed order of player ids, best first.
type rankedEvaluator []string

func (r rankedEvaluator) Evaluate(players []*Player, _ []deck.Card) Showdown {
	for _, id := range r {
		var winners []*Player
		for _, p := range players {
			if p.ID == id {
				winners = append(winners, p)
			}
		}
		if len(winners) > 0 {
			return Showdown{Winners: winners, Rank: "ranked"}
		}
	}
	return Showdown{Winners: players, Rank: "tie"}
}

// tieEvaluator splits every pot between everyone eligible.
type tieEvaluator struct{}

func (tieEvaluator) Evaluate(players []*Player, _ []deck.Card) Showdown {
	return Showdown{Winners: players, Rank: "tie"}
}
