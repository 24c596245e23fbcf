// Package websocket provides the change-notification hub and its WebSocket
// transport. The hub is fire-and-forget: messages published while nobody is
// subscribed are lost, and a subscriber that falls behind loses its oldest
// buffered messages rather than slowing publishers down.
package websocket

import (
	"log"
	"sync"
)

// clientBufferSize bounds how many messages a slow subscriber may lag behind.
const clientBufferSize = 256

// Hub maintains the set of active subscribers and fans published messages
// out to them. Construct one per process and inject it; it has no global
// state.
type Hub struct {
	// Registered subscribers
	clients map[*Client]bool

	// Messages queued for fan-out
	broadcast chan []byte

	// Register requests from subscribers
	register chan *Client

	// Unregister requests from subscribers
	unregister chan *Client

	// Closed on shutdown
	done chan struct{}

	// Mutex for thread-safe client access
	mu sync.RWMutex

	closeOnce sync.Once
}

// NewHub creates a new hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main event loop.
// This should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("Subscriber connected (total: %d)", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("Subscriber disconnected (total: %d)", total)

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				client.enqueue(message)
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast queues a message for delivery to all current subscribers.
// Never blocks the caller.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		log.Println("Broadcast channel full, dropping message")
	}
}

// Subscribe registers a fresh subscriber handle. The handle receives every
// message published after this call until Unsubscribe or hub shutdown.
func (h *Hub) Subscribe() *Client {
	client := NewClient(h)
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
	return client
}

// Unsubscribe removes a subscriber and releases its buffer. Safe to call
// after shutdown.
func (h *Hub) Unsubscribe(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Close tears the hub down, dropping all subscriber handles. Pending
// messages are discarded.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client is a subscriber handle holding a bounded receive buffer.
type Client struct {
	hub  *Hub
	send chan []byte
}

// NewClient creates a new subscriber handle bound to the hub.
func NewClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, clientBufferSize),
	}
}

// Receive returns the channel messages are delivered on. It is closed when
// the client unsubscribes or the hub shuts down.
func (c *Client) Receive() <-chan []byte {
	return c.send
}

// enqueue delivers a message into the client's buffer. When the buffer is
// full the oldest message is dropped so this subscriber lags without ever
// blocking the hub or other subscribers.
func (c *Client) enqueue(message []byte) {
	for {
		select {
		case c.send <- message:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}
