package main

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Hub tracks connected clients, enforces connection limits and hands session
// lifecycle events to the game.
type Hub struct {
	game *Game
	log  zerolog.Logger

	mu         sync.Mutex
	clients    map[*Client]bool
	unregister chan *Client
	done       chan struct{}

	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu        sync.Mutex
	ipConns       map[string]int
	totalConns    int
	maxConnsPerIP int
	maxTotalConns int
	maxMsgPerSec  int
}

// NewHub creates a Hub feeding game
func NewHub(cfg Config, game *Game, logger zerolog.Logger) *Hub {
	return &Hub{
		game:          game,
		log:           logger,
		clients:       make(map[*Client]bool),
		unregister:    make(chan *Client, 64),
		done:          make(chan struct{}),
		ipConns:       make(map[string]int),
		maxConnsPerIP: cfg.MaxConnsPerIP,
		maxTotalConns: cfg.MaxTotalConns,
		maxMsgPerSec:  cfg.MaxMessagesPerSec,
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.maxTotalConns > 0 && h.totalConns >= h.maxTotalConns {
		return false
	}
	if h.maxConnsPerIP > 0 && h.ipConns[ip] >= h.maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Register adds a client and opens its session in the game. Returns false
// once the hub or the game has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	if err := h.game.Connect(c); err != nil {
		h.log.Warn().Err(err).Str("session", c.id).Msg("game refused session")
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		c.closeSend()
		return false
	}
	return true
}

// Unregister queues a client for removal. Safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Run processes unregister events until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				c.closeSend()
			}
			h.mu.Unlock()
			return

		case c := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[c]
			if ok {
				delete(h.clients, c)
			}
			h.mu.Unlock()
			if !ok {
				continue
			}
			c.closeSend()
			// Exactly one disconnect per session reaches the game
			if err := h.game.Disconnect(c.id); err != nil {
				h.log.Debug().Err(err).Str("session", c.id).Msg("disconnect after game stopped")
			}
		}
	}
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
