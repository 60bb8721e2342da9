package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playarena/backend/internal/matches"
)

// GetMatch returns the durable match record. Sessions are ephemeral;
// after an eviction or a restart this row is all that remains of a match.
func GetMatch(repo *matches.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := repo.Get(c.Param("matchId"))
		if err != nil {
			if errors.Is(err, matches.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "match": m})
	}
}
