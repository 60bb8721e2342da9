package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playarena/backend/internal/game"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status and the live session count.
func HealthCheck(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"service":     "playarena-api",
			"version":     version,
			"uptime":      time.Since(startTime).String(),
			"activeGames": registry.ActiveTotal(),
		})
	}
}
