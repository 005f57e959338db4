package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionConfig holds websocket tuning for subscriber connections.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	SendBufferSize  int
	ReadBufferSize  int
	WriteBufferSize int
	CheckOrigin     func(r *http.Request) bool
}

func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		SendBufferSize:  256,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// Connection is one live subscription: a websocket bound to exactly one
// group, destroyed on disconnect. Outgoing events go through the buffered
// Send channel; the hub never writes to the socket directly.
type Connection struct {
	ID       string
	GroupID  uuid.UUID
	MemberID uuid.UUID
	Conn     *websocket.Conn
	Send     chan []byte

	hub  *Hub
	done chan struct{}
	once sync.Once

	ConnectedAt time.Time
	LastPing    time.Time
}

func newConnection(hub *Hub, wsConn *websocket.Conn, groupID, memberID uuid.UUID) *Connection {
	now := time.Now()
	return &Connection{
		ID:          uuid.New().String(),
		GroupID:     groupID,
		MemberID:    memberID,
		Conn:        wsConn,
		Send:        make(chan []byte, hub.config.SendBufferSize),
		hub:         hub,
		done:        make(chan struct{}),
		ConnectedAt: now,
		LastPing:    now,
	}
}

// close tears the connection down exactly once. Safe to call from the hub and
// from both pumps.
func (c *Connection) close() {
	c.once.Do(func() {
		close(c.done)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}

// writePump drains the send buffer onto the socket and keeps the peer alive
// with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.hub.Unregister(c)
		c.close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.hub.config.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("websocket ping failed")
				return
			}
			c.LastPing = time.Now()
		}
	}
}

// readPump consumes client frames only to detect disconnects and answer
// pongs; subscribers have nothing to say on this channel.
func (c *Connection) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.Conn.SetReadLimit(c.hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
		c.LastPing = time.Now()
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().
					Err(err).
					Str("connection_id", c.ID).
					Msg("unexpected websocket close")
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(c.hub.config.ReadTimeout))
	}
}
