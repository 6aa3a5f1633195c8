package game

import (
	rand "math/rand/v2"
	"slices"
	"time"

	"github.com/lox/holdem-tables/internal/deck"
)

// Config holds the table limits and stakes
type Config struct {
	MaxSeats      int
	SmallBlind    int
	BigBlind      int
	StartingChips int
	TurnTime      time.Duration // Budget for a single turn
	AutoRebuy     bool          // Top busted seated players back up between hands
}

// DefaultConfig returns the stakes used when nothing else is configured.
func DefaultConfig() Config {
	return Config{
		MaxSeats:      9,
		SmallBlind:    5,
		BigBlind:      10,
		StartingChips: 1000,
		TurnTime:      10 * time.Second,
		AutoRebuy:     true,
	}
}

// Option configures a Table
type Option func(*Table)

// WithRNG shuffles with rng instead of a time-seeded source.
func WithRNG(rng *rand.Rand) Option {
	return func(t *Table) {
		t.deck = deck.New(rng)
	}
}

// WithDeck deals every hand from d. Stacked decks repeat the same order each
// hand.
func WithDeck(d *deck.Deck) Option {
	return func(t *Table) {
		t.deck = d
	}
}

// WithEvaluator replaces the showdown comparator.
func WithEvaluator(e Evaluator) Option {
	return func(t *Table) {
		t.evaluator = e
	}
}

// Table is the state machine for one game. It is not safe for concurrent use;
// callers serialise access (see internal/table).
type Table struct {
	Code string
	Name string

	config    Config
	deck      *deck.Deck
	evaluator Evaluator

	players   []*Player      // join order
	positions map[int]string // seat -> player id

	button   int
	actor    *Player
	turn     int
	street   Street
	board    []deck.Card
	toCall   int
	minRaise int
	pot      int
	acted    map[string]bool

	timeLeft   time.Duration
	allIn      bool
	disabled   bool
	started    bool
	handNumber int
	winners    []*Player
	results    []PotResult
}

// NewTable creates an empty table. The first hand starts once two players
// are seated.
func NewTable(code, name string, cfg Config, opts ...Option) *Table {
	if name == "" {
		name = code
	}
	t := &Table{
		Code:      code,
		Name:      name,
		config:    cfg,
		evaluator: HandEvaluator{},
		positions: make(map[int]string),
		button:    -1,
		minRaise:  cfg.BigBlind,
		acted:     make(map[string]bool),
		timeLeft:  cfg.TurnTime,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.deck == nil {
		t.deck = deck.New(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	}
	return t
}

// Config returns the table's stakes and limits.
func (t *Table) Config() Config {
	return t.config
}

// Join adds a player with a starting stack, or returns the existing player
// when the id is already at the table.
func (t *Table) Join(id, name string) *Player {
	if p := t.Player(id); p != nil {
		if name != "" {
			p.Name = name
		}
		return p
	}
	p := NewPlayer(id, name, t.config.StartingChips)
	t.players = append(t.players, p)
	return p
}

// Player returns the player with id, or nil.
func (t *Table) Player(id string) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Players returns the players in join order.
func (t *Table) Players() []*Player {
	return slices.Clone(t.players)
}

// Seat assigns the player to seat. When no hand is running and this makes
// enough players to play, the hand starts and started is true.
func (t *Table) Seat(playerID string, seat int) (started bool, err error) {
	p := t.Player(playerID)
	if p == nil {
		return false, ErrPlayerNotFound
	}
	if seat < 0 || seat >= t.config.MaxSeats {
		return false, ErrInvalidSeat
	}
	if p.IsSeated() {
		return false, ErrAlreadySeated
	}
	if _, taken := t.positions[seat]; taken {
		return false, ErrSeatTaken
	}

	t.positions[seat] = p.ID
	p.Seated = seat

	if t.started || !t.CanStart() {
		return false, nil
	}
	if err := t.Start(); err != nil {
		return false, err
	}
	return true, nil
}

// Leave frees the player's seat straight away. A player dealt into the
// running hand folds and stays in the player list, without a seat, until
// the hand is reset so the chips they committed remain accounted for.
func (t *Table) Leave(playerID string) error {
	p := t.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}

	if p.IsSeated() {
		delete(t.positions, p.Seated)
		p.Seated = -1
	}
	p.ClearPremove()

	if !p.InHand || !t.InProgress() {
		t.remove(p)
		return nil
	}

	p.left = true
	if !p.Contesting() {
		return nil
	}

	p.Folded = true
	delete(t.acted, p.ID)
	if t.actor == p {
		t.advance(p.handSeat)
		return nil
	}
	if contesting := t.contesting(); len(contesting) == 1 {
		t.awardUncontested(contesting[0])
		return nil
	}
	if t.actor != nil && t.roundClosed() {
		t.closeStreet()
	}
	return nil
}

// RevealCards flips the player's hole cards face up for everyone.
func (t *Table) RevealCards(playerID string) error {
	p := t.Player(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if len(p.HoleCards) == 0 {
		return ErrInvalidAction
	}
	p.ShowCards = true
	return nil
}

// HoleCards returns each dealt player's private cards keyed by player id.
// This is the only accessor that exposes cards not yet shown.
func (t *Table) HoleCards() map[string][]deck.Card {
	out := make(map[string][]deck.Card)
	for _, p := range t.players {
		if p.InHand && len(p.HoleCards) > 0 {
			out[p.ID] = slices.Clone(p.HoleCards)
		}
	}
	return out
}

// Actor returns the player whose turn it is, or nil.
func (t *Table) Actor() *Player {
	return t.actor
}

// Turn counts turns handed out since the table was created. It changes every
// time a player's turn begins, even when the same player acts twice in a row.
func (t *Table) Turn() int {
	return t.turn
}

// InProgress reports whether a hand is running and undecided.
func (t *Table) InProgress() bool {
	return t.started && len(t.winners) == 0
}

// Concluded reports whether the current hand has a winner.
func (t *Table) Concluded() bool {
	return len(t.winners) > 0
}

// AllIn reports whether betting is over for the hand.
func (t *Table) AllIn() bool {
	return t.allIn
}

// Street returns the current betting round.
func (t *Table) Street() Street {
	return t.street
}

// Board returns the community cards dealt so far.
func (t *Table) Board() []deck.Card {
	return slices.Clone(t.board)
}

// Pot returns the chips collected from finished betting rounds.
func (t *Table) Pot() int {
	return t.pot
}

// ToCall returns the current bet level of the street.
func (t *Table) ToCall() int {
	return t.toCall
}

// MinRaise returns the smallest raise increment allowed.
func (t *Table) MinRaise() int {
	return t.minRaise
}

// Button returns the dealer seat, -1 before the first hand.
func (t *Table) Button() int {
	return t.button
}

// HandNumber returns how many hands have been started.
func (t *Table) HandNumber() int {
	return t.handNumber
}

// Winners returns the players awarded chips in the concluded hand.
func (t *Table) Winners() []*Player {
	return slices.Clone(t.winners)
}

// Results returns the per-pot awards of the concluded hand.
func (t *Table) Results() []PotResult {
	return slices.Clone(t.results)
}

// TimeLeft returns the remaining budget of the current turn.
func (t *Table) TimeLeft() time.Duration {
	return t.timeLeft
}

// CanStart reports whether enough seated players have chips to deal a hand.
func (t *Table) CanStart() bool {
	return !t.InProgress() && len(t.eligibleSeats()) >= 2
}

// eligibleSeats maps seats to the seated players who can be dealt in.
func (t *Table) eligibleSeats() map[int]*Player {
	bySeat := make(map[int]*Player)
	for _, p := range t.players {
		if p.IsSeated() && p.Chips > 0 && !p.left {
			bySeat[p.Seated] = p
		}
	}
	return bySeat
}

// nextSeat returns the first occupied seat in bySeat after seat.
func (t *Table) nextSeat(seat int, bySeat map[int]*Player) int {
	for i := 1; i <= t.config.MaxSeats; i++ {
		s := (seat + i + t.config.MaxSeats) % t.config.MaxSeats
		if _, ok := bySeat[s]; ok {
			return s
		}
	}
	return -1
}

// setActor hands the turn to p with a fresh time budget.
func (t *Table) setActor(p *Player) {
	t.actor = p
	t.timeLeft = t.config.TurnTime
	if p != nil {
		t.turn++
	}
}

func (t *Table) remove(p *Player) {
	t.players = slices.DeleteFunc(t.players, func(o *Player) bool { return o == p })
}
