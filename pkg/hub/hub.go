// Package hub provides a thread-safe websocket broadcast hub using the
// channel-based fan-out pattern. It carries the typing session's state
// snapshots to monitor clients; a freshly connected client immediately
// receives the most recent snapshot.
package hub

import (
	"sync"

	"github.com/blinktalk/go-blinktalk/internal/log"
)

// Hub maintains the set of active clients and broadcasts snapshots.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Inbound snapshots to broadcast
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Latest snapshot, replayed to new clients
	last   []byte
	lastMu sync.RWMutex

	// Mutex for client count (read-only access from outside)
	mu sync.RWMutex

	// Closed by Stop to terminate Run
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a new Hub.
func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. Call it in a goroutine; it returns
// when Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("monitor client connected", "clients", count)

			// Replay the latest state so the client doesn't wait
			// for the next change.
			h.lastMu.RLock()
			last := h.last
			h.lastMu.RUnlock()
			if last != nil {
				select {
				case client.send <- last:
				default:
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			log.Debug("monitor client disconnected", "clients", count)

		case snapshot := <-h.broadcast:
			h.lastMu.Lock()
			h.last = snapshot
			h.lastMu.Unlock()

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- snapshot:
				default:
					// Client's buffer is full, drop it.
					close(client.send)
					delete(h.clients, client)
					log.Warn("dropped slow monitor client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop terminates the Run loop and releases all clients. Idempotent.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast queues a snapshot for delivery to all clients.
func (h *Hub) Broadcast(snapshot []byte) {
	select {
	case h.broadcast <- snapshot:
	default:
		// The hub is saturated; per-frame state is disposable, the
		// next snapshot supersedes this one.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Last returns the most recent snapshot, nil before the first one.
func (h *Hub) Last() []byte {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.last
}
