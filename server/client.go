package main

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a WebSocket connection. It is the game's Session.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	id         string
	enc        Encoding
	remoteAddr string
	log        zerolog.Logger

	mu     sync.Mutex // guards send against close
	send   chan Frame
	closed bool

	msgCount   int
	msgResetAt time.Time
	dropped    int
}

// NewClient creates a new Client with a fresh session id
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string, enc Encoding) *Client {
	id := NewSessionID()
	return &Client{
		hub:        hub,
		conn:       conn,
		id:         id,
		enc:        enc,
		remoteAddr: remoteAddr,
		send:       make(chan Frame, sendBufSize),
		log:        hub.log.With().Str("session", id).Str("remote", remoteAddr).Logger(),
	}
}

func (c *Client) ID() string         { return c.id }
func (c *Client) Encoding() Encoding { return c.enc }

// Send queues a frame. A full queue drops the frame; a slow client misses
// updates rather than stalling the game.
func (c *Client) Send(f Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- f:
	default:
		c.dropped++
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// allow counts one inbound message against the per-second budget
func (c *Client) allow(now time.Time) bool {
	if now.After(c.msgResetAt) {
		if c.msgCount > c.hub.maxMsgPerSec && c.hub.maxMsgPerSec > 0 {
			c.log.Debug().Int("messages", c.msgCount).Msg("rate limit exceeded, surplus dropped")
		}
		c.msgCount = 0
		c.msgResetAt = now.Add(time.Second)
	}
	c.msgCount++
	return c.hub.maxMsgPerSec <= 0 || c.msgCount <= c.hub.maxMsgPerSec
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("ws read error")
			}
			break
		}
		if !c.allow(time.Now()) {
			continue
		}
		if msgType != websocket.TextMessage {
			continue
		}

		in, err := DecodeIntent(message)
		if err != nil {
			c.log.Debug().Err(err).Msg("dropping malformed message")
			continue
		}
		if err := c.hub.game.Dispatch(c.id, in); err != nil {
			break
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.mu.Lock()
		dropped := c.dropped
		c.mu.Unlock()
		if dropped > 0 {
			c.log.Debug().Int("dropped", dropped).Msg("frames dropped for slow client")
		}
	}()

	for {
		select {
		case f, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			kind := websocket.TextMessage
			if f.Binary {
				kind = websocket.BinaryMessage
			}
			if err := c.conn.WriteMessage(kind, f.Data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
