package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-tables/internal/game"
	"github.com/lox/holdem-tables/internal/table"
)

// Connection represents a WebSocket connection to a client. The first join
// binds a player identity to it, which every later command acts as.
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	playerID  string
	name      string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, s *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, 256),
		server: s,
		logger: s.logger.WithPrefix("conn").With("conn", id[:8]),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the connection id
func (c *Connection) ID() string {
	return c.id
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client without blocking. A client
// that falls too far behind is disconnected.
func (c *Connection) SendMessage(msg *Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
			err = ErrConnectionClosed
		}
	}()

	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// Player returns the bound player id, empty before the first join.
func (c *Connection) Player() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// bind fixes the player identity on first use and keeps the latest name.
func (c *Connection) bind(id, name string) (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playerID == "" {
		if id == "" {
			id = uuid.NewString()
		}
		c.playerID = id
	}
	if name != "" {
		c.name = name
	}
	return c.playerID, c.name
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.Player())

	switch msg.Type {
	case MessageTypeJoin:
		var data JoinData
		if c.decode(msg, &data) {
			c.handleJoin(msg, data)
		}

	case MessageTypeAddTable:
		var data AddTableData
		if c.decode(msg, &data) {
			c.handleAddTable(msg, data)
		}

	case MessageTypeSit:
		var data SitData
		if c.decode(msg, &data) {
			c.withTable(msg, data.Table, func(e *table.Engine, player string) error {
				return e.Sit(player, data.SeatNumber)
			})
		}

	case MessageTypeCheckCall, MessageTypeFold:
		var data TableData
		if c.decode(msg, &data) {
			action := game.CheckCall
			if msg.Type == MessageTypeFold {
				action = game.Fold
			}
			c.withTable(msg, data.Table, func(e *table.Engine, player string) error {
				return e.Act(player, action, 0)
			})
		}

	case MessageTypeRaise:
		var data RaiseData
		if c.decode(msg, &data) {
			c.withTable(msg, data.Table, func(e *table.Engine, player string) error {
				return e.Act(player, game.Raise, data.Amount)
			})
		}

	case MessageTypePremove:
		var data PremoveData
		if c.decode(msg, &data) {
			c.withTable(msg, data.Table, func(e *table.Engine, player string) error {
				action, err := game.ParseAction(data.Action)
				if err != nil {
					return err
				}
				return e.Premove(player, action, data.Amount)
			})
		}

	case MessageTypeStopPremove:
		var data TableData
		if c.decode(msg, &data) {
			c.withTable(msg, data.Table, func(e *table.Engine, player string) error {
				view, err := e.StopPremove(player)
				if err != nil {
					return err
				}
				c.reply(msg, MessageTypePlayer, view)
				return nil
			})
		}

	case MessageTypeShowCards:
		var data TableData
		if c.decode(msg, &data) {
			c.withTable(msg, data.Table, func(e *table.Engine, player string) error {
				return e.ShowCards(player)
			})
		}

	case MessageTypeLeave:
		var data TableData
		if c.decode(msg, &data) {
			c.withTable(msg, data.Table, func(e *table.Engine, player string) error {
				if err := e.Leave(player); err != nil && !errors.Is(err, game.ErrPlayerNotFound) {
					return err
				}
				c.server.leaveRoom(c, data.Table)
				c.reply(msg, MessageTypeAck, AckData{Table: data.Table})
				return nil
			})
		}

	case MessageTypeGetTable:
		var data TableData
		if !c.decode(msg, &data) {
			return
		}
		e, err := c.server.registry.Lookup(data.Table)
		if err != nil {
			c.replyError(msg, err)
			return
		}
		c.reply(msg, MessageTypeTable, e.Snapshot())

	case MessageTypeGetTables:
		c.reply(msg, MessageTypeTables, TablesData{Tables: c.server.registry.Summaries()})

	default:
		c.sendError(msg.RequestID, "unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleJoin(msg *Message, data JoinData) {
	if data.Table == "" {
		c.replyError(msg, ErrMissingTable)
		return
	}
	player, name := c.bind(data.ID, data.Name)
	c.logger.Info("Join request", "table", data.Table, "player", player, "name", name)

	e, _ := c.server.registry.AddTable(data.Table, "")
	c.server.joinRoom(c, data.Table)
	view := e.Join(player, name)
	c.reply(msg, MessageTypeJoined, JoinedData{Table: data.Table, Player: view})
}

func (c *Connection) handleAddTable(msg *Message, data AddTableData) {
	if data.Table == "" {
		c.replyError(msg, ErrMissingTable)
		return
	}
	_, created := c.server.registry.AddTable(data.Table, data.Name)
	c.logger.Info("Add table request", "table", data.Table, "created", created)
	if data.LeaveTable != "" && data.LeaveTable != data.Table {
		c.server.removeFromRoom(c, data.LeaveTable)
	}
	c.server.joinRoom(c, data.Table)
	c.reply(msg, MessageTypeAck, AckData{Table: data.Table, Created: created})
}

// withTable runs fn against the named table as the bound player and replies
// with an error if anything rejects the command.
func (c *Connection) withTable(msg *Message, code string, fn func(*table.Engine, string) error) {
	player := c.Player()
	var err error
	switch {
	case player == "":
		err = ErrNotJoined
	case code == "":
		err = ErrMissingTable
	default:
		var e *table.Engine
		if e, err = c.server.registry.Lookup(code); err == nil {
			err = fn(e, player)
		}
	}
	if err != nil {
		c.logger.Debug("Command rejected", "type", msg.Type, "table", code, "player", player, "error", err)
		c.replyError(msg, err)
	}
}

// decode unmarshals the message payload, replying with an error if it is
// malformed.
func (c *Connection) decode(msg *Message, v any) bool {
	if len(msg.Data) == 0 {
		msg.Data = json.RawMessage("{}")
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		c.sendError(msg.RequestID, "invalid_message", "Failed to parse "+msg.Type.String()+" data")
		return false
	}
	return true
}

func (c *Connection) reply(req *Message, typ MessageType, data any) {
	msg, err := NewMessage(typ, data)
	if err != nil {
		c.logger.Error("Failed to create reply", "type", typ, "error", err)
		return
	}
	msg.RequestID = req.RequestID
	_ = c.SendMessage(msg)
}

func (c *Connection) replyError(req *Message, err error) {
	c.sendError(req.RequestID, errorCode(err), err.Error())
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	errorMsg.RequestID = requestID

	_ = c.SendMessage(errorMsg)
}
