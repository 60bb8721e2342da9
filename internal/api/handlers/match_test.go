package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/playarena/backend/internal/matches"
)

func TestGetMatchUnknownReturns404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/match/:matchId", GetMatch(matches.NewRepository(nil)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/match/m_missing", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown match, got %d (%s)", w.Code, w.Body.String())
	}
}
