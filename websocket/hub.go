package websocket

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Client represents a websocket connection bound to a user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID int
}

type notification struct {
	userID  int
	payload []byte
}

// Hub manages active clients and delivers per-user notifications, such as
// "someone liked your post". Registration, unregistration and notification
// all flow through channels consumed by a single goroutine, so clientsByUser
// is only ever touched from run().
type Hub struct {
	register   chan *Client
	unregister chan *Client
	notify     chan notification
	// Map of userID to set of clients; owned by the run() goroutine
	clientsByUser map[int]map[*Client]bool
}

// NewHub creates and starts a new Hub loop.
func NewHub() *Hub {
	h := &Hub{
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		notify:        make(chan notification, 256),
		clientsByUser: make(map[int]map[*Client]bool),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			set, ok := h.clientsByUser[c.userID]
			if !ok {
				set = make(map[*Client]bool)
				h.clientsByUser[c.userID] = set
			}
			set[c] = true
		case c := <-h.unregister:
			if set, ok := h.clientsByUser[c.userID]; ok {
				if _, exists := set[c]; exists {
					delete(set, c)
					close(c.send)
					if len(set) == 0 {
						delete(h.clientsByUser, c.userID)
					}
				}
			}
		case n := <-h.notify:
			set, ok := h.clientsByUser[n.userID]
			if !ok {
				continue
			}
			for c := range set {
				select {
				case c.send <- n.payload:
				default:
					// Backpressure: drop and disconnect slow clients
					delete(set, c)
					close(c.send)
				}
			}
			if len(set) == 0 {
				delete(h.clientsByUser, n.userID)
			}
		}
	}
}

// NotifyUser queues a payload for all connected clients of a given user.
// Delivery is asynchronous and best effort: users without an open connection
// simply miss the notification, and the event is dropped rather than
// blocking the caller when the hub is saturated.
func (h *Hub) NotifyUser(userID int, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.notify <- notification{userID: userID, payload: payload}:
	default:
		slog.Warn("notification queue full, dropping event", "userId", userID)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the HTTP connection to WebSocket and registers the client.
// The token is not parsed here; the caller must authenticate and set userId
// in the gin context first.
func ServeWS(h *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt("userId")
		if userID == 0 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("websocket upgrade failed", "err", err)
			return
		}
		client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), userID: userID}
		h.register <- client

		// Reader goroutine: only consumed for pongs and close detection.
		go func() {
			defer func() {
				h.unregister <- client
				_ = conn.Close()
			}()
			conn.SetReadLimit(1024)
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()

		// Writer loop (same goroutine)
		for msg := range client.send {
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				break
			}
		}
	}
}
