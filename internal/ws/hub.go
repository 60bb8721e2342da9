package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client.
type Client struct {
	conn     *websocket.Conn
	connID   string
	playerID string
	matchID  string // room currently joined, empty if none
	send     chan []byte
}

// Hub maintains the set of active clients and their per-match rooms.
// Each match is its own room; joining one room leaves any previous room,
// so events never leak across matches.
type Hub struct {
	clients    map[string]*Client            // connID -> Client
	rooms      map[string]map[string]*Client // matchID -> connID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister events. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.connID] = client
			h.mu.Unlock()
			log.Printf("[WS] Connection %s registered (player=%s)", client.connID, client.playerID)

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.connID]; ok && cur == client {
				delete(h.clients, client.connID)
				h.leaveRoomLocked(client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("[WS] Connection %s disconnected", client.connID)
		}
	}
}

// SetPlayerID binds a player identity to a connection after upgrade.
// Hub-locked because SendToPlayer scans playerID concurrently.
func (h *Hub) SetPlayerID(client *Client, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.playerID = playerID
}

// JoinRoom subscribes a connection to a match room, leaving any previous
// room first.
func (h *Hub) JoinRoom(client *Client, matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveRoomLocked(client)
	if _, ok := h.rooms[matchID]; !ok {
		h.rooms[matchID] = make(map[string]*Client)
	}
	h.rooms[matchID][client.connID] = client
	client.matchID = matchID
}

func (h *Hub) leaveRoomLocked(client *Client) {
	if client.matchID == "" {
		return
	}
	if room, ok := h.rooms[client.matchID]; ok {
		delete(room, client.connID)
		if len(room) == 0 {
			delete(h.rooms, client.matchID)
		}
	}
	client.matchID = ""
}

// BroadcastToMatch sends a message to every connection in a match room.
func (h *Hub) BroadcastToMatch(matchID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, exists := h.rooms[matchID]; exists {
		for _, client := range room {
			select {
			case client.send <- data:
			default:
				// Client's buffer is full
				log.Printf("Client send buffer full for connection %s in match %s, dropping message", client.connID, matchID)
			}
		}
	}
}

// SendToPlayer sends a message to every connection of one player.
func (h *Hub) SendToPlayer(playerID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := false
	for _, client := range h.clients {
		if client.playerID != playerID {
			continue
		}
		select {
		case client.send <- data:
			sent = true
		default:
			log.Printf("[WS] SendToPlayer dropped message for player %s (buffer full)", playerID)
		}
	}
	if !sent {
		log.Printf("[WS] SendToPlayer no client for player %s", playerID)
	}
}

// BroadcastAll sends a message to every connected client.
func (h *Hub) BroadcastAll(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
		}
	}
}

// WSMessage is the envelope for client messages.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed - connection is being replaced or cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for connection %s: %v", c.connID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for connection %s: %v", c.connID, err)
				return
			}
		}
	}
}

// sendJSON queues a message on this connection only.
func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// sendError delivers an error to the requesting connection only; errors
// are never broadcast to the room.
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
