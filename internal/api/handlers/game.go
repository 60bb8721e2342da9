package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playarena/backend/internal/game"
)

// engineFor resolves the path's game type to its engine, replying 400 on
// unknown types. Returns nil after writing the response.
func engineFor(c *gin.Context, registry *game.Registry) *game.Engine {
	gameType, ok := game.ParseGameType(c.Param("gameType"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game type"})
		return nil
	}
	engine, _ := registry.ByType(gameType)
	return engine
}

// statusForError maps the game error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrValidation),
		errors.Is(err, game.ErrSessionExists),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrIllegalMove),
		errors.Is(err, game.ErrIllegalState):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorBody keeps upstream detail out of client responses.
func errorBody(err error) gin.H {
	if statusForError(err) == http.StatusInternalServerError {
		return gin.H{"error": "internal error"}
	}
	return gin.H{"error": err.Error()}
}

// InitializeGame creates the authoritative session for a match after
// reserving the stake with the wallet service.
func InitializeGame(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := engineFor(c, registry)
		if engine == nil {
			return
		}

		var req struct {
			MatchID    string `json:"matchId" binding:"required"`
			Player1    string `json:"player1" binding:"required"`
			Player2    string `json:"player2" binding:"required"`
			Stake      int    `json:"stake" binding:"required"`
			WalletMode string `json:"walletMode"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "matchId, player1, player2 and stake are required"})
			return
		}
		mode, ok := game.ParseWalletMode(req.WalletMode)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown wallet mode"})
			return
		}

		session, err := engine.Initialize(c.Request.Context(), req.MatchID, req.Player1, req.Player2, req.Stake, mode)
		if err != nil {
			log.Printf("[API] Initialize failed for match %s: %v", req.MatchID, err)
			c.JSON(statusForError(err), errorBody(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"gameState": session,
		})
	}
}

// MakeMove validates and applies one move over HTTP.
func MakeMove(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := engineFor(c, registry)
		if engine == nil {
			return
		}

		var req struct {
			MatchID  string          `json:"matchId" binding:"required"`
			PlayerID string          `json:"playerId" binding:"required"`
			Move     json.RawMessage `json:"move" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "matchId, playerId and move are required"})
			return
		}

		session, moveResult, winResult, err := engine.ApplyMove(req.MatchID, req.PlayerID, req.Move)
		if err != nil {
			c.JSON(statusForError(err), errorBody(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"gameState":  session,
			"moveResult": moveResult,
			"winResult":  winResult,
		})
	}
}

// GetGame returns the current session for a match.
func GetGame(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := engineFor(c, registry)
		if engine == nil {
			return
		}

		session, err := engine.GetSession(c.Param("matchId"))
		if err != nil {
			c.JSON(statusForError(err), errorBody(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "gameState": session})
	}
}

// DeleteGame removes a session. Idempotent: deleting an unknown match
// still returns success.
func DeleteGame(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := engineFor(c, registry)
		if engine == nil {
			return
		}

		engine.EndSession(c.Param("matchId"))
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ForceEndGame terminates a session administratively and notifies the
// match room with a gameEnded event.
func ForceEndGame(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		engine := engineFor(c, registry)
		if engine == nil {
			return
		}

		var req struct {
			MatchID string `json:"matchId" binding:"required"`
			Winner  string `json:"winner"`
			Reason  string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "matchId is required"})
			return
		}
		if req.Reason == "" {
			req.Reason = "forced"
		}

		session, err := engine.ForceEnd(req.MatchID, req.Winner, req.Reason)
		if err != nil {
			c.JSON(statusForError(err), errorBody(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "gameState": session})
	}
}
