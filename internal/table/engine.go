package table

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-tables/internal/game"
	"github.com/lox/holdem-tables/internal/schedule"
)

// Settings controls the pace of a table's autonomous progress
type Settings struct {
	TickInterval   time.Duration // Turn timer resolution
	RevealInterval time.Duration // Gap between streets once everyone is all-in
	HandPause      time.Duration // Pause between a result and the next deal
}

// DefaultSettings returns the production pacing.
func DefaultSettings() Settings {
	return Settings{
		TickInterval:   100 * time.Millisecond,
		RevealInterval: time.Second,
		HandPause:      2 * time.Second,
	}
}

// Option configures an Engine
type Option func(*Engine)

// WithClock drives timers from clock instead of the real clock.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithSettings overrides the default pacing.
func WithSettings(s Settings) Option {
	return func(e *Engine) { e.settings = s }
}

// WithPublisher sends table events to p.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

type driver int

const (
	idle driver = iota
	timing
	revealing
	pausing
)

func (d driver) String() string {
	switch d {
	case timing:
		return "timer"
	case revealing:
		return "reveal"
	case pausing:
		return "pause"
	default:
		return "idle"
	}
}

// Engine serialises everything that happens to one table: player intents,
// turn timer ticks, street reveals and the pause between hands. At most one
// scheduled task drives the table at a time and it is held on the engine, so
// replacing it always cancels the previous one.
type Engine struct {
	mu        sync.Mutex
	table     *game.Table
	clock     quartz.Clock
	settings  Settings
	publisher Publisher
	logger    *log.Logger

	task      *schedule.Task
	driver    driver
	timedTurn int
	reveal    []game.Street
	closed    bool
	faulted   bool
}

// NewEngine wraps t. The engine owns t from here on.
func NewEngine(t *game.Table, logger *log.Logger, opts ...Option) *Engine {
	e := &Engine{
		table:     t,
		clock:     quartz.NewReal(),
		settings:  DefaultSettings(),
		publisher: nopPublisher{},
		logger:    logger.WithPrefix("table").With("table", t.Code),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Code returns the table code.
func (e *Engine) Code() string {
	return e.table.Code
}

// Join adds the player to the table, or refreshes their name if they are
// already there.
func (e *Engine) Join(playerID, name string) game.PlayerView {
	e.mu.Lock()
	defer e.mu.Unlock()

	p := e.table.Join(playerID, name)
	e.logger.Info("Player joined", "player", playerID, "name", p.Name)
	e.publishUpdate()
	return p.View()
}

// Sit seats the player, dealing a hand if that makes enough players.
func (e *Engine) Sit(playerID string, seat int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	started, err := e.table.Seat(playerID, seat)
	if err != nil {
		return err
	}
	e.logger.Info("Player seated", "player", playerID, "seat", seat)
	e.publish(Event{Type: EventSit, Player: playerID, Seat: seat})
	if started {
		e.handStarted()
	}
	e.publishUpdate()
	e.drive()
	return nil
}

// Act applies a betting intent from the player.
func (e *Engine) Act(playerID string, action game.Action, amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.table.Apply(playerID, action, amount); err != nil {
		return err
	}
	e.logger.Debug("Player acted", "player", playerID, "action", action, "amount", amount)
	e.afterAction()
	return nil
}

// Premove arms the player's pending action. If it is already their turn it
// fires straight away.
func (e *Engine) Premove(playerID string, action game.Action, amount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.table.ArmPremove(playerID, action, amount); err != nil {
		return err
	}
	e.publishUpdate()
	e.drive()
	return nil
}

// StopPremove clears the player's pending action.
func (e *Engine) StopPremove(playerID string) (game.PlayerView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.table.ClearPremove(playerID); err != nil {
		return game.PlayerView{}, err
	}
	e.publishUpdate()
	return e.table.Player(playerID).View(), nil
}

// ShowCards turns the player's hole cards face up.
func (e *Engine) ShowCards(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.table.RevealCards(playerID); err != nil {
		return err
	}
	e.publishUpdate()
	return nil
}

// Leave removes the player, folding them out of a running hand.
func (e *Engine) Leave(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.table.Leave(playerID); err != nil {
		return err
	}
	e.logger.Info("Player left", "player", playerID)
	e.afterAction()
	return nil
}

// Snapshot returns the current public view of the table.
func (e *Engine) Snapshot() game.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Snapshot()
}

// Summary describes the table for the lobby.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.table.Config()
	s := Summary{
		Code:       e.table.Code,
		Name:       e.table.Name,
		MaxSeats:   cfg.MaxSeats,
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		InProgress: e.table.InProgress(),
		HandNumber: e.table.HandNumber(),
	}
	for _, p := range e.table.Players() {
		s.Players++
		if p.IsSeated() {
			s.Seated++
		}
	}
	return s
}

// Close stops the table's scheduled work. Intents are still accepted but
// nothing progresses on its own afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.stopTask()
}

// afterAction publishes the result of a player-driven change and decides
// what drives the table next.
func (e *Engine) afterAction() {
	if e.table.Concluded() {
		e.logResult()
	}
	e.publishUpdate()
	e.drive()
}

// drive fires any premove waiting on the current actor, then makes sure the
// right task is driving the table: the turn timer while someone must act,
// the reveal sequence once everyone is all-in, or the pause after a result.
// Caller must hold e.mu.
func (e *Engine) drive() {
	if e.closed || e.faulted {
		return
	}

	for {
		actor := e.table.Actor()
		fired, err := e.table.FirePremove()
		if !fired {
			break
		}
		if err != nil {
			e.logger.Debug("Premove rejected", "player", actor.ID, "error", err)
			e.publishUpdate()
			break
		}
		e.logger.Debug("Premove fired", "player", actor.ID)
		if e.table.Concluded() {
			e.logResult()
		}
		e.publishUpdate()
	}

	switch {
	case e.table.Concluded():
		if e.driver != pausing {
			e.replace(pausing, schedule.After(e.clock, e.settings.HandPause, e.onPause, "pause"))
		}
	case e.table.InProgress() && e.table.AllIn():
		if e.driver != revealing {
			e.reveal = e.table.RemainingStreets()
			e.logger.Debug("Betting closed, revealing", "streets", e.reveal)
			e.replace(revealing, schedule.Every(e.clock, e.settings.RevealInterval, e.onReveal, "reveal"))
		}
	case e.table.InProgress() && e.table.Actor() != nil:
		if e.driver != timing || e.timedTurn != e.table.Turn() {
			e.timedTurn = e.table.Turn()
			e.replace(timing, schedule.Every(e.clock, e.settings.TickInterval, e.onTick, "timer"))
		}
	default:
		e.stopTask()
	}
}

func (e *Engine) onTick(task *schedule.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.recoverFault("timer")

	if task != e.task {
		return
	}

	actor := e.table.Actor()
	if actor == nil {
		e.stopTask()
		return
	}
	expired := e.table.Tick(e.settings.TickInterval)
	e.publish(Event{Type: EventTime, Player: actor.ID, TimeLeft: e.table.TimeLeft().Seconds()})
	if !expired {
		return
	}

	action, _ := e.table.DefaultAction()
	if err := e.table.ApplyDefault(); err != nil {
		e.logger.Error("Default action rejected", "player", actor.ID, "error", err)
		e.stopTask()
		return
	}
	e.logger.Info("Turn timed out", "player", actor.ID, "action", action)
	e.afterAction()
}

func (e *Engine) onReveal(task *schedule.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.recoverFault("reveal")

	if task != e.task {
		return
	}
	if len(e.reveal) == 0 {
		e.stopTask()
		e.drive()
		return
	}

	street := e.reveal[0]
	e.reveal = e.reveal[1:]
	if err := e.table.DealOneCard(); err != nil {
		e.logger.Error("Reveal failed", "street", street, "error", err)
		e.stopTask()
		return
	}
	e.logger.Debug("Street revealed", "street", street, "board", e.table.Board())
	e.publishUpdate()

	if street != game.River {
		return
	}
	if err := e.table.FindWinner(); err != nil {
		e.logger.Error("Showdown failed", "error", err)
		e.stopTask()
		return
	}
	e.afterAction()
}

func (e *Engine) onPause(task *schedule.Task) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.recoverFault("pause")

	if task != e.task {
		return
	}
	e.task = nil
	e.driver = idle

	e.table.ResetGame()
	if e.table.CanStart() {
		if err := e.table.Start(); err != nil {
			e.logger.Error("Failed to start hand", "error", err)
		} else {
			e.handStarted()
		}
	} else {
		e.logger.Debug("Waiting for players")
	}
	e.publishUpdate()
	e.drive()
}

// recoverFault stops the table's autonomous progress if a scheduled step
// panics. The table keeps its last state and still answers intents.
func (e *Engine) recoverFault(step string) {
	if r := recover(); r != nil {
		e.logger.Error("Scheduled step failed", "step", step, "panic", r)
		e.faulted = true
		e.stopTask()
	}
}

func (e *Engine) handStarted() {
	e.logger.Info("Hand started", "hand", e.table.HandNumber(), "button", e.table.Button())
	e.publish(Event{Type: EventDealCards, HoleCards: e.table.HoleCards()})
}

func (e *Engine) logResult() {
	for _, r := range e.table.Results() {
		e.logger.Info("Pot awarded", "hand", e.table.HandNumber(), "amount", r.Amount, "winners", r.Winners, "rank", r.Hand)
	}
}

// replace cancels the current task before storing next.
func (e *Engine) replace(d driver, next *schedule.Task) {
	if d != e.driver {
		e.logger.Debug("Driver changed", "from", e.driver, "to", d)
	}
	e.task.Stop()
	e.task = next
	e.driver = d
}

func (e *Engine) stopTask() {
	e.task.Stop()
	e.task = nil
	e.driver = idle
	e.reveal = nil
}

func (e *Engine) publishUpdate() {
	snap := e.table.Snapshot()
	e.publish(Event{Type: EventUpdateTable, Snapshot: &snap})
}

func (e *Engine) publish(ev Event) {
	ev.Table = e.table.Code
	e.publisher.Publish(ev)
}
