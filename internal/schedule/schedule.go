// Package schedule provides cancellable handles for work run on a
// quartz.Clock, so that an owner can keep at most one pending task and
// replace it safely.
package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
)

var errStopped = errors.New("schedule: task stopped")

// Task is a handle to a periodic or one-shot callback. Once Stop returns the
// callback is not entered again, although a call already in flight may still
// be running.
type Task struct {
	stopped atomic.Bool
	cancel  context.CancelFunc
	timer   atomic.Pointer[quartz.Timer]
}

// Every runs fn every d until the task is stopped. fn receives the task so
// it can tell whether it is still the one its owner expects.
func Every(clock quartz.Clock, d time.Duration, fn func(*Task), tags ...string) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{cancel: cancel}
	clock.TickerFunc(ctx, d, func() error {
		if t.Stopped() {
			return errStopped
		}
		fn(t)
		return nil
	}, tags...)
	return t
}

// After runs fn once after d unless the task is stopped first.
func After(clock quartz.Clock, d time.Duration, fn func(*Task), tags ...string) *Task {
	t := &Task{}
	timer := clock.AfterFunc(d, func() {
		if t.Stopped() {
			return
		}
		t.stopped.Store(true)
		fn(t)
	}, tags...)
	t.timer.Store(timer)
	return t
}

// Stop cancels the task. It is safe to call more than once, on a nil task,
// and from inside the task's own callback.
func (t *Task) Stop() {
	if t == nil || t.stopped.Swap(true) {
		return
	}
	if t.cancel != nil {
		t.cancel()
	}
	if timer := t.timer.Load(); timer != nil {
		timer.Stop()
	}
}

// Stopped reports whether the task has been stopped or, for a one-shot task,
// has fired.
func (t *Task) Stopped() bool {
	return t == nil || t.stopped.Load()
}
