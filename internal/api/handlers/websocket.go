package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	ws "github.com/cabin-reservations/backend/internal/websocket"
)

const (
	pingInterval  = 30 * time.Second
	writeDeadline = 10 * time.Second
	pongDeadline  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API already serves cross-origin REST traffic; same policy here.
		return true
	},
}

// SubscribeToChanges upgrades the connection to a WebSocket and streams
// every change event published after the subscription, until the observer
// disconnects or the hub shuts down. The stream is one-way; inbound frames
// are drained only so pongs and close frames get processed.
func SubscribeToChanges(hub *ws.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		sub := hub.Subscribe()
		go streamEvents(conn, sub)
		go drainConn(conn, sub, hub)
	}
}

// streamEvents writes hub messages to the connection, pinging between
// events to keep intermediaries from closing an idle stream.
func streamEvents(conn *websocket.Conn, sub *ws.Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case event, ok := <-sub.Receive():
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				// Hub dropped the subscription
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, event); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func drainConn(conn *websocket.Conn, sub *ws.Client, hub *ws.Hub) {
	defer func() {
		hub.Unsubscribe(sub)
		conn.Close()
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongDeadline))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
	}
}
