package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"tutsin-digital/internal/cache"
	"tutsin-digital/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsPingInterval = 30 * time.Second

// wsClient binds a socket to the portal client that authenticated it. All
// writes to the connection go through the send channel; the write pump is the
// connection's only writer.
type wsClient struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// enqueue hands a payload to the write pump without blocking. A full buffer
// means the client is not keeping up; the caller decides what to do about it.
func (cl *wsClient) enqueue(payload []byte) bool {
	select {
	case cl.send <- payload:
		return true
	default:
		return false
	}
}

// WebSocketHandler pushes notification events to connected portal clients.
// Each socket is bound to the client that authenticated it; events fan in
// through the cache manager so every instance delivers to its own sockets.
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	authService *services.AuthService
	clients     map[*wsClient]bool
	register    chan *wsClient
	unregister  chan *wsClient
	events      chan services.NotificationEvent
}

func NewWebSocketHandler(authService *services.AuthService, cacheMgr *cache.CacheManager) *WebSocketHandler {
	h := &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		authService: authService,
		clients:     make(map[*wsClient]bool),
		register:    make(chan *wsClient),
		unregister:  make(chan *wsClient),
		events:      make(chan services.NotificationEvent, 64),
	}

	cacheMgr.SetNotificationListener(func(payload []byte) {
		var event services.NotificationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Printf("Failed to parse notification event: %v", err)
			return
		}
		// The listener runs on the publisher's goroutine. Never block it:
		// with the hub disabled or backlogged the event is dropped here and
		// the client picks it up from the notifications list instead.
		select {
		case h.events <- event:
		default:
			log.Printf("Notification hub backlogged, dropping push for %s", event.UserID)
		}
	})

	return h
}

func (h *WebSocketHandler) HandleConnections(c *gin.Context) {
	// Browsers cannot set Authorization headers on websocket upgrades, so
	// the token arrives as a query parameter.
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}
	client, err := h.authService.GetClientByToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid or expired token"})
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	cl := &wsClient{conn: ws, userID: client.ID, send: make(chan []byte, 16)}
	h.register <- cl

	go h.writePump(cl)
	h.readLoop(cl)
	h.unregister <- cl
}

// writePump is the single writer for its connection; pings, replies and
// notification deliveries all pass through here. It owns closing the socket.
func (h *WebSocketHandler) writePump(cl *wsClient) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-cl.send:
			if !ok {
				cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := cl.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) readLoop(cl *wsClient) {
	for {
		var msg map[string]interface{}

		err := cl.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		switch msg["type"] {
		case "ping":
			reply, _ := json.Marshal(map[string]interface{}{
				"type": "pong",
				"time": time.Now().Unix(),
			})
			cl.enqueue(reply)
		default:
			reply, _ := json.Marshal(map[string]interface{}{
				"type":    "error",
				"message": "Unknown message type",
			})
			cl.enqueue(reply)
		}
	}
}

// RunHub owns the socket registry; all membership changes and deliveries go
// through its channels. Closing a client's send channel shuts its write pump
// down, which closes the connection.
func (h *WebSocketHandler) RunHub() {
	log.Println("Starting notification hub")

	for {
		select {
		case cl := <-h.register:
			h.clients[cl] = true
			log.Println("Socket connected. Total sockets:", len(h.clients))

		case cl := <-h.unregister:
			if h.clients[cl] {
				delete(h.clients, cl)
				close(cl.send)
				log.Println("Socket disconnected. Total sockets:", len(h.clients))
			}

		case event := <-h.events:
			payload, err := json.Marshal(map[string]interface{}{
				"type":         "notification",
				"notification": event.Notification,
			})
			if err != nil {
				log.Printf("Failed to marshal notification payload: %v", err)
				continue
			}
			for cl := range h.clients {
				if cl.userID != event.UserID {
					continue
				}
				if !cl.enqueue(payload) {
					log.Printf("Dropping slow socket for %s", cl.userID)
					delete(h.clients, cl)
					close(cl.send)
				}
			}
		}
	}
}
