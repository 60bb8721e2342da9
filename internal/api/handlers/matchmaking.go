package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playarena/backend/internal/config"
	"github.com/playarena/backend/internal/game"
)

// JoinQueue enqueues a player; if a compatible opponent is waiting the
// match plus its initialized session come back synchronously.
func JoinQueue(queue *game.QueueManager, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			GameID     string `json:"gameId" binding:"required"`
			PlayerID   string `json:"playerId" binding:"required"`
			Stake      int    `json:"stake" binding:"required"`
			WalletMode string `json:"walletMode"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gameId, playerId and stake are required"})
			return
		}

		gameType, ok := game.ParseGameType(req.GameID)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game type"})
			return
		}
		mode, ok := game.ParseWalletMode(req.WalletMode)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown wallet mode"})
			return
		}
		if req.Stake < cfg.MinStakeAmount {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("minimum stake is %d", cfg.MinStakeAmount)})
			return
		}

		result, err := queue.Join(c.Request.Context(), gameType, req.PlayerID, req.Stake, mode)
		if err != nil {
			log.Printf("[API] Queue join failed for player %s: %v", req.PlayerID, err)
			switch {
			case errors.Is(err, game.ErrValidation):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, game.ErrUpstreamUnavailable):
				c.JSON(http.StatusBadGateway, gin.H{"error": "stake reservation failed, you have been returned to the queue"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		if result.Matched {
			c.JSON(http.StatusOK, gin.H{
				"success":     true,
				"matched":     true,
				"match":       result.Match,
				"gameSession": result.Session,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"matched":  false,
			"position": result.Position,
		})
	}
}

// LeaveQueue removes a player's queue entry.
func LeaveQueue(queue *game.QueueManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			PlayerID string `json:"playerId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "playerId is required"})
			return
		}

		removed := queue.Leave(req.PlayerID)
		c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
	}
}

// QueueStatus returns current queue depth by bucket.
func QueueStatus(queue *game.QueueManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "buckets": queue.Depth()})
	}
}
