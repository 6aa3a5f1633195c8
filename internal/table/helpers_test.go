package table

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-tables/internal/game"
	"github.com/lox/holdem-tables/internal/randutil"
)

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []Event
	hook   func(Event)
}

func (r *recorder) Publish(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	hook := r.hook
	r.mu.Unlock()
	if hook != nil {
		hook(ev)
	}
}

func (r *recorder) ofType(typ EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.DebugLevel})
}

func newTestEngine(t *testing.T) (*Engine, *quartz.Mock, *recorder) {
	t.Helper()
	clock := quartz.NewMock(t)
	rec := &recorder{}
	tbl := game.NewTable("t1", "Test", game.DefaultConfig(), game.WithRNG(randutil.New(7)))
	e := NewEngine(tbl, testLogger(), WithClock(clock), WithPublisher(rec))
	t.Cleanup(e.Close)
	return e, clock, rec
}

// startHeadsUp seats a in seat 0 and b in seat 1. a holds the button, posts
// the small blind and acts first.
func startHeadsUp(t *testing.T, e *Engine) {
	t.Helper()
	e.Join("a", "Alice")
	e.Join("b", "Bob")
	require.NoError(t, e.Sit("a", 0))
	require.NoError(t, e.Sit("b", 1))
	require.True(t, e.Snapshot().IsStarted)
}

// advance moves the mock clock forward by d, stopping at every event on the
// way so that no scheduled callback is skipped.
func advance(t *testing.T, clock *quartz.Mock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for d > 0 {
		next, ok := clock.Peek()
		if !ok || next > d {
			clock.Advance(d).MustWait(ctx)
			return
		}
		clock.Advance(next).MustWait(ctx)
		d -= next
	}
}

func actor(t *testing.T, snap game.Snapshot) string {
	t.Helper()
	require.GreaterOrEqual(t, snap.CurrAction, 0, "expected someone to act")
	return snap.Players[snap.CurrAction].ID
}
