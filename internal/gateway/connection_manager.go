package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/triviarena/triviarena/internal/events"
)

// ConnectionManager tracks every live client connection and the aggregate
// online-player count. It is the engine's Notifier: all server events leave
// through it.
type ConnectionManager struct {
	conns map[uuid.UUID]*Connection
	mu    sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig
	engine   Engine
}

// Connection represents one WebSocket client.
type Connection struct {
	ID      uuid.UUID
	Conn    *websocket.Conn
	Send    chan []byte
	Manager *ConnectionManager

	// closed signals senders and the write pump that the connection is gone.
	closed chan struct{}

	ConnectedAt time.Time
	LastPing    time.Time
}

// ConnectionConfig holds configuration for WebSocket connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default WebSocket configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  4096,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// NewConnectionManager creates a connection manager. BindEngine must be
// called before the manager accepts connections.
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	return &ConnectionManager{
		conns: make(map[uuid.UUID]*Connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

// BindEngine attaches the orchestration engine the gateway dispatches into.
// The engine is constructed with the manager as its notifier, so the two are
// wired in sequence at startup.
func (cm *ConnectionManager) BindEngine(engine Engine) {
	cm.engine = engine
}

// UpgradeConnection upgrades an HTTP request to a WebSocket client.
func (cm *ConnectionManager) UpgradeConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := cm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return err
	}

	connection := &Connection{
		ID:          uuid.New(),
		Conn:        conn,
		Send:        make(chan []byte, 256),
		Manager:     cm,
		closed:      make(chan struct{}),
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}

	cm.registerConnection(connection)

	go connection.writePump()
	go connection.readPump()

	log.Info().
		Str("connection_id", connection.ID.String()).
		Msg("WebSocket connection established")
	return nil
}

// Send implements the engine's Notifier: deliver one event to one client.
// Unknown connection ids (already disconnected) are dropped silently.
func (cm *ConnectionManager) Send(connID uuid.UUID, event events.Event) {
	cm.mu.RLock()
	conn, ok := cm.conns[connID]
	cm.mu.RUnlock()
	if !ok {
		return
	}
	conn.send(event)
}

// OnlineCount returns the number of live connections.
func (cm *ConnectionManager) OnlineCount() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.conns)
}

func (cm *ConnectionManager) registerConnection(conn *Connection) {
	cm.mu.Lock()
	cm.conns[conn.ID] = conn
	total := len(cm.conns)
	cm.mu.Unlock()

	cm.broadcastOnlineCount(total)
	log.Debug().
		Str("connection_id", conn.ID.String()).
		Int("online", total).
		Msg("connection registered")
}

func (cm *ConnectionManager) unregisterConnection(conn *Connection) {
	cm.mu.Lock()
	if _, exists := cm.conns[conn.ID]; !exists {
		cm.mu.Unlock()
		return
	}
	delete(cm.conns, conn.ID)
	close(conn.closed)
	total := len(cm.conns)
	cm.mu.Unlock()

	// Connection loss drives queue removal and session lifecycle policy.
	cm.engine.Disconnect(conn.ID)
	cm.broadcastOnlineCount(total)

	log.Info().
		Str("connection_id", conn.ID.String()).
		Int("online", total).
		Msg("connection unregistered")
}

// broadcastOnlineCount pushes the aggregate count to every client.
func (cm *ConnectionManager) broadcastOnlineCount(total int) {
	event := events.New(events.EventTypeOnlineCount, events.OnlineCountPayload{Online: total})
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.conns))
	for _, c := range cm.conns {
		targets = append(targets, c)
	}
	cm.mu.RUnlock()

	for _, c := range targets {
		c.sendRaw(data)
	}
}

func (c *Connection) send(event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event")
		return
	}
	c.sendRaw(data)
}

func (c *Connection) sendRaw(data []byte) {
	select {
	case <-c.closed:
	case c.Send <- data:
	default:
		log.Warn().
			Str("connection_id", c.ID.String()).
			Msg("connection send buffer full, dropping message")
	}
}

// writePump handles sending messages to the WebSocket connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.Manager.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.closed:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("connection_id", c.ID.String()).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Manager.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump handles reading messages from the WebSocket connection.
func (c *Connection) readPump() {
	defer func() {
		c.Manager.unregisterConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Manager.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("connection_id", c.ID.String()).
					Msg("unexpected WebSocket close error")
			}
			break
		}

		c.handleClientMessage(message)
		c.Conn.SetReadDeadline(time.Now().Add(c.Manager.config.ReadTimeout))
	}
}

// Shutdown closes every connection.
func (cm *ConnectionManager) Shutdown(ctx context.Context) {
	cm.mu.Lock()
	conns := make([]*Connection, 0, len(cm.conns))
	for _, c := range cm.conns {
		conns = append(conns, c)
	}
	cm.mu.Unlock()

	for _, c := range conns {
		c.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.Conn.Close()
	}
}
