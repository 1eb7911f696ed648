package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

// Message is the envelope for everything written to a socket.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Sender  string      `json:"sender"`
}

type outbound struct {
	playerID string
	data     []byte
}

// Client is one socket of one player.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	playerID string
}

// Hub fans engine notifications out to the sockets of the player they
// belong to. It is an engine.Observer.
type Hub struct {
	clients    map[string]map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// mirrors len(clients[player]) for readers outside Run
	countMu sync.RWMutex
	counts  map[string]int
}

// NewHub creates a hub. Run must be started before sockets are served.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan outbound, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		counts:     make(map[string]int),
	}
}

// Run is the hub loop. It closes every client when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			if h.clients[client.playerID] == nil {
				h.clients[client.playerID] = make(map[*Client]bool)
			}
			h.clients[client.playerID][client] = true
			h.setCount(client.playerID)
			logrus.Debugf("ws: player %s connected (%d sockets)", client.playerID, len(h.clients[client.playerID]))

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			for client := range h.clients[msg.playerID] {
				select {
				case client.send <- msg.data:
				default:
					logrus.Warnf("ws: dropping slow socket of player %s", client.playerID)
					h.remove(client)
				}
			}

		case <-ctx.Done():
			for _, set := range h.clients {
				for client := range set {
					close(client.send)
				}
			}
			h.clients = make(map[string]map[*Client]bool)
			h.countMu.Lock()
			h.counts = make(map[string]int)
			h.countMu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	set, ok := h.clients[client.playerID]
	if !ok || !set[client] {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.playerID)
	}
	h.setCount(client.playerID)
}

func (h *Hub) setCount(playerID string) {
	h.countMu.Lock()
	defer h.countMu.Unlock()
	if n := len(h.clients[playerID]); n > 0 {
		h.counts[playerID] = n
	} else {
		delete(h.counts, playerID)
	}
}

// Connected returns how many sockets a player has open.
func (h *Hub) Connected(playerID string) int {
	h.countMu.RLock()
	defer h.countMu.RUnlock()
	return h.counts[playerID]
}

// Notify queues n for the player's sockets. It never blocks the engine: when
// the hub is stopped or saturated the notification is dropped.
func (h *Hub) Notify(_ context.Context, n engine.Notification) {
	data, err := json.Marshal(Message{Type: string(n.Kind), Payload: n, Sender: "engine"})
	if err != nil {
		logrus.Errorf("ws: failed to encode %s notification: %v", n.Kind, err)
		return
	}

	select {
	case <-h.done:
	case h.broadcast <- outbound{playerID: n.PlayerID, data: data}:
	default:
		logrus.Warnf("ws: broadcast queue full, dropping %s for player %s", n.Kind, n.PlayerID)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and attaches the socket to playerID.
func ServeWs(hub *Hub, playerID string, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("ws: upgrade failed for player %s: %v", playerID, err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, sendBuffer), playerID: playerID}
	select {
	case hub.register <- client:
	case <-hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only watches for the close; clients have nothing to say.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Warnf("ws: player %s: %v", c.playerID, err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
