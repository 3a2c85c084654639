package websocket

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// debounceWindow coalesces invalidation bursts, like a bulk attendance
// submit touching dozens of records, into one broadcast.
const debounceWindow = 200 * time.Millisecond

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// InvalidateMessage tells connected dashboards which resources went stale.
type InvalidateMessage struct {
	Type      string   `json:"type"`
	Resources []string `json:"resources"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the connected dashboard sessions and pushes resource
// invalidations to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		pending:    make(map[string]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Invalidate queues a stale resource name. The broadcast fires once the
// burst quiets down, carrying every resource touched in the window.
func (h *Hub) Invalidate(resource string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pending[resource] = true
	if h.timer == nil {
		h.timer = time.AfterFunc(debounceWindow, h.flush)
		return
	}
	h.timer.Reset(debounceWindow)
}

func (h *Hub) flush() {
	h.mu.Lock()
	resources := make([]string, 0, len(h.pending))
	for r := range h.pending {
		resources = append(resources, r)
	}
	h.pending = make(map[string]bool)
	h.timer = nil
	h.mu.Unlock()

	if len(resources) == 0 {
		return
	}
	sort.Strings(resources)
	data, err := json.Marshal(InvalidateMessage{Type: "invalidate", Resources: resources})
	if err != nil {
		return
	}
	h.broadcast <- data
}

// ServeWS upgrades an authenticated dashboard connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
