// Package game implements the authoritative state machine for a single
// Texas Hold'em table.
//
// The main type is Table, which owns seating, chip stacks, betting-round
// progression, pot accounting and showdown. Every public operation is an
// intent addressed by player id; an intent is either applied completely or
// rejected with one of the package's sentinel errors, leaving the table
// untouched.
//
// # Basic Usage
//
//	t := game.NewTable("abcd", "Friday game", game.DefaultConfig(),
//		game.WithRNG(randutil.New(42)))
//	t.Join("p1", "Alice")
//	t.Join("p2", "Bob")
//	t.Seat("p1", 0)
//	started, _ := t.Seat("p2", 1) // second seated player starts the hand
//	actor := t.Actor()
//	_ = t.CheckCall(actor.ID)
//
// # Time
//
// Table has no goroutines and never reads a clock. The owner drives the turn
// countdown through Tick and ApplyDefault, and reveals the remaining streets
// of an all-in hand with DealOneCard and FindWinner. See internal/table for
// the scheduler that does this.
//
// # Deterministic Testing
//
// Inject the deck or the random source:
//
//	t := game.NewTable(code, name, cfg, game.WithDeck(deck.Stacked(cards)))
//
// and swap the showdown comparator with WithEvaluator.
package game
