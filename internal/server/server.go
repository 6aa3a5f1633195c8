package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-tables/internal/game"
	"github.com/lox/holdem-tables/internal/table"
)

// Option configures a Server
type Option func(*Server)

// WithClock drives every table's timers from clock.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithSeed makes table shuffles reproducible.
func WithSeed(seed int64) Option {
	return func(s *Server) { s.seed = seed }
}

// Server represents the WebSocket server. It owns the table registry and
// forwards every table event to the connections that joined the table.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	registry    *table.Registry
	connections map[*Connection]bool
	rooms       map[string]map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server

	clock quartz.Clock
	seed  int64
}

// NewServer creates the server and the tables named in cfg.
func NewServer(cfg *ServerConfig, logger *log.Logger, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: cfg.GetServerAddress(),
		upgrader: websocket.Upgrader{
			// Browser clients are served from anywhere
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		rooms:       make(map[string]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		clock:       quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registry = table.NewRegistry(cfg.GameConfig(), s.seed, logger,
		table.WithClock(s.clock),
		table.WithSettings(cfg.Settings()),
		table.WithPublisher(s),
	)
	for _, tc := range cfg.Tables {
		s.registry.AddTable(tc.Code, tc.Name)
	}

	go s.run()
	return s
}

// Registry returns the server's tables.
func (s *Server) Registry() *table.Registry {
	return s.registry
}

// Handler returns the HTTP routes served by the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/tables", s.handleTables)
	return mux
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections, closes the open ones and stops every
// table's timers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	s.mu.Lock()
	srv := s.httpServer
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	for _, conn := range conns {
		_ = conn.Close()
	}
	s.registry.Close()
	s.logger.Info("Server stopped")
	return err
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "conn", conn.ID(), "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			delete(s.connections, conn)
			total := len(s.connections)
			s.mu.Unlock()
			if ok {
				s.disconnect(conn)
				s.logger.Info("Client disconnected", "conn", conn.ID(), "total", total)
			}

		case <-s.ctx.Done():
			return
		}
	}
}

// disconnect takes the connection's player out of every table it joined.
func (s *Server) disconnect(conn *Connection) {
	player := conn.Player()
	for _, code := range s.registry.RemoveMember(conn.ID()) {
		s.removeFromRoom(conn, code)
		e, ok := s.registry.GetTable(code)
		if !ok || player == "" {
			continue
		}
		s.logger.Info("Cleaning up disconnected player", "player", player, "table", code)
		if err := e.Leave(player); err != nil && !errors.Is(err, game.ErrPlayerNotFound) {
			s.logger.Warn("Failed to remove player", "player", player, "table", code, "error", err)
		}
	}
	_ = conn.Close()
}

// joinRoom subscribes the connection to the table's events.
func (s *Server) joinRoom(conn *Connection, code string) {
	s.registry.AddMember(conn.ID(), code)
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		room = make(map[*Connection]bool)
		s.rooms[code] = room
	}
	room[conn] = true
}

// leaveRoom unsubscribes the connection from the table's events.
func (s *Server) leaveRoom(conn *Connection, code string) {
	s.registry.DropMember(conn.ID(), code)
	s.removeFromRoom(conn, code)
}

func (s *Server) removeFromRoom(conn *Connection, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms[code], conn)
	if len(s.rooms[code]) == 0 {
		delete(s.rooms, code)
	}
}

// Publish implements table.Publisher. It runs with the table locked, so it
// only queues messages.
func (s *Server) Publish(ev table.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room := s.rooms[ev.Table]
	if len(room) == 0 {
		return
	}

	if ev.Type == table.EventDealCards {
		for conn := range room {
			msg, err := NewMessage(MessageTypeDealCards, DealCardsData{
				Table: ev.Table,
				Cards: ev.HoleCards[conn.Player()],
			})
			if err != nil {
				s.logger.Error("Failed to encode cards", "error", err)
				return
			}
			_ = conn.SendMessage(msg)
		}
		return
	}

	msg, err := eventMessage(ev)
	if err != nil {
		s.logger.Error("Failed to encode event", "type", ev.Type, "error", err)
		return
	}
	for conn := range room {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send message to client", "error", err, "player", conn.Player())
		}
	}
}

func eventMessage(ev table.Event) (*Message, error) {
	switch ev.Type {
	case table.EventUpdateTable:
		return NewMessage(MessageTypeUpdateTable, ev.Snapshot)
	case table.EventTime:
		return NewMessage(MessageTypeTime, TimeData{Table: ev.Table, Player: ev.Player, TimeLeft: ev.TimeLeft})
	case table.EventSit:
		return NewMessage(MessageTypeSeated, SeatedData{Table: ev.Table, Player: ev.Player, SeatNumber: ev.Seat})
	default:
		return nil, fmt.Errorf("unknown event type %q", ev.Type)
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s)
	select {
	case s.register <- client:
	case <-s.ctx.Done():
		_ = client.Close()
		return
	}
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// handleTables serves the lobby listing as JSON
func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TablesData{Tables: s.registry.Summaries()}); err != nil {
		s.logger.Error("Failed to write tables", "error", err)
	}
}
