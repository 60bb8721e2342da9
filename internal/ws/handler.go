package ws

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playarena/backend/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin filtering happens in middleware
	},
}

// Server ties the hub to the game registry and matchmaking queue.
type Server struct {
	Hub      *Hub
	Registry *game.Registry
	Queue    *game.QueueManager
}

// NewServer creates the real-time server and starts its hub.
func NewServer(registry *game.Registry, queue *game.QueueManager) *Server {
	srv := &Server{
		Hub:      NewHub(),
		Registry: registry,
		Queue:    queue,
	}
	go srv.Hub.Run()
	return srv
}

func newConnID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "c_" + hex.EncodeToString(b)
}

// HandleWebSocket upgrades a connection and runs its read loop.
func (s *Server) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:     conn,
		connID:   newConnID(),
		playerID: c.Query("playerId"),
		send:     make(chan []byte, 256),
	}

	s.Hub.register <- client

	go client.writePump()
	go s.readPump(client)
}

// readPump reads client messages until the connection drops.
func (s *Server) readPump(c *Client) {
	defer func() {
		s.Hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for connection %s: %v", c.connID, err)
			} else {
				log.Printf("WebSocket read error for connection %s: %v", c.connID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		s.handleMessage(c, msg)
	}
}

type joinGameData struct {
	MatchID string `json:"matchId"`
}

type makeMoveData struct {
	MatchID  string          `json:"matchId"`
	PlayerID string          `json:"playerId"`
	Move     json.RawMessage `json:"move"`
}

type joinQueueData struct {
	GameID     string `json:"gameId"`
	PlayerID   string `json:"playerId"`
	Stake      int    `json:"stake"`
	WalletMode string `json:"walletMode"`
}

type leaveQueueData struct {
	PlayerID string `json:"playerId"`
}

// handleMessage dispatches one client message.
func (s *Server) handleMessage(c *Client, msg WSMessage) {
	switch msg.Type {
	case "joinGame":
		var data joinGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.MatchID == "" {
			c.sendError("Invalid joinGame payload")
			return
		}
		s.handleJoinGame(c, data)

	case "makeMove":
		var data makeMoveData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid move payload")
			return
		}
		s.handleMakeMove(c, data)

	case "getState":
		var data joinGameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid getState payload")
			return
		}
		_, session, ok := s.Registry.Find(data.MatchID)
		if !ok {
			c.sendError("Game not found")
			return
		}
		c.sendJSON(map[string]interface{}{"type": "gameState", "gameState": session})

	case "joinQueue":
		var data joinQueueData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid joinQueue payload")
			return
		}
		s.handleJoinQueue(c, data)

	case "leaveQueue":
		var data leaveQueueData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.PlayerID == "" {
			c.sendError("Invalid leaveQueue payload")
			return
		}
		s.Queue.Leave(data.PlayerID)
		c.sendJSON(map[string]interface{}{"type": "queueLeft"})

	default:
		c.sendError("Unknown message type")
	}
}

func (s *Server) handleJoinGame(c *Client, data joinGameData) {
	_, session, ok := s.Registry.Find(data.MatchID)
	if !ok {
		c.sendError("Game not found")
		return
	}

	s.Hub.JoinRoom(c, data.MatchID)
	log.Printf("[WS] Connection %s joined match %s", c.connID, data.MatchID)
	c.sendJSON(map[string]interface{}{"type": "gameState", "gameState": session})
}

func (s *Server) handleMakeMove(c *Client, data makeMoveData) {
	if data.MatchID == "" || data.PlayerID == "" {
		c.sendError("matchId and playerId required")
		return
	}

	engine, _, ok := s.Registry.Find(data.MatchID)
	if !ok {
		c.sendError("Game not found")
		return
	}

	// The engine publishes moveMade to the room on success; only errors
	// come back on this connection.
	if _, _, _, err := engine.ApplyMove(data.MatchID, data.PlayerID, data.Move); err != nil {
		c.sendError(moveErrorMessage(err))
	}
}

func (s *Server) handleJoinQueue(c *Client, data joinQueueData) {
	gameType, ok := game.ParseGameType(data.GameID)
	if !ok {
		c.sendError("Unknown game type")
		return
	}
	mode, ok := game.ParseWalletMode(data.WalletMode)
	if !ok {
		c.sendError("Unknown wallet mode")
		return
	}
	if c.playerID == "" {
		s.Hub.SetPlayerID(c, data.PlayerID)
	}

	result, err := s.Queue.Join(context.Background(), gameType, data.PlayerID, data.Stake, mode)
	if err != nil {
		c.sendError(moveErrorMessage(err))
		return
	}

	if result.Matched {
		// matchFound is pushed to both players by the queue's event hook;
		// nothing more to send here.
		return
	}
	c.sendJSON(map[string]interface{}{
		"type":     "queueJoined",
		"position": result.Position,
	})
}

// moveErrorMessage names the violated invariant without leaking internals.
func moveErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return "Game not found"
	case errors.Is(err, game.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, game.ErrIllegalState):
		return "Game is already finished"
	case errors.Is(err, game.ErrIllegalMove):
		return err.Error()
	case errors.Is(err, game.ErrValidation):
		return "Missing or invalid fields"
	case errors.Is(err, game.ErrUpstreamUnavailable):
		return "Service temporarily unavailable"
	}
	return "Internal error"
}
