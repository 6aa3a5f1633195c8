package table

import (
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-tables/internal/game"
	"github.com/lox/holdem-tables/internal/randutil"
)

// ErrTableNotFound is returned for a code with no table behind it.
var ErrTableNotFound = errors.New("table: not found")

// Registry maps table codes to their engines and remembers which tables each
// connection has joined. Tables live as long as the registry.
type Registry struct {
	mu      sync.RWMutex
	tables  map[string]*Engine
	members map[string][]string // connection id -> table codes

	config game.Config
	seed   int64
	opts   []Option
	logger *log.Logger
}

// NewRegistry creates an empty registry. Every table gets cfg and opts, and
// shuffles from its own stream derived from seed.
func NewRegistry(cfg game.Config, seed int64, logger *log.Logger, opts ...Option) *Registry {
	return &Registry{
		tables:  make(map[string]*Engine),
		members: make(map[string][]string),
		config:  cfg,
		seed:    seed,
		opts:    opts,
		logger:  logger,
	}
}

// AddTable returns the table for code, creating it if needed. created
// reports whether this call made it.
func (r *Registry) AddTable(code, name string) (e *Engine, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.tables[code]; ok {
		return e, false
	}
	t := game.NewTable(code, name, r.config, game.WithRNG(randutil.ForKey(r.seed, code)))
	e = NewEngine(t, r.logger, r.opts...)
	r.tables[code] = e
	r.logger.Info("Created table", "table", code, "name", t.Name)
	return e, true
}

// GetTable looks up a table by code.
func (r *Registry) GetTable(code string) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tables[code]
	return e, ok
}

// Lookup is GetTable returning ErrTableNotFound for unknown codes.
func (r *Registry) Lookup(code string) (*Engine, error) {
	if e, ok := r.GetTable(code); ok {
		return e, nil
	}
	return nil, ErrTableNotFound
}

// GetAllTables returns every table keyed by code.
func (r *Registry) GetAllTables() map[string]*Engine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.tables)
}

// Summaries lists every table for the lobby, ordered by code.
func (r *Registry) Summaries() []Summary {
	all := r.GetAllTables()
	codes := slices.Sorted(maps.Keys(all))
	out := make([]Summary, 0, len(codes))
	for _, code := range codes {
		out = append(out, all[code].Summary())
	}
	return out
}

// AddMember records that connID has joined code.
func (r *Registry) AddMember(connID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.members[connID], code) {
		r.members[connID] = append(r.members[connID], code)
	}
}

// Memberships returns the codes connID has joined, in join order.
func (r *Registry) Memberships(connID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.members[connID])
}

// DropMember forgets a single membership.
func (r *Registry) DropMember(connID, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := slices.DeleteFunc(r.members[connID], func(c string) bool { return c == code })
	if len(codes) == 0 {
		delete(r.members, connID)
		return
	}
	r.members[connID] = codes
}

// RemoveMember forgets connID and returns the codes it had joined.
func (r *Registry) RemoveMember(connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := r.members[connID]
	delete(r.members, connID)
	return codes
}

// Close stops every table's scheduled work.
func (r *Registry) Close() {
	for _, e := range r.GetAllTables() {
		e.Close()
	}
}
