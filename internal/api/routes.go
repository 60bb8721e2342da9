package api

import (
	"github.com/gin-gonic/gin"
	"github.com/playarena/backend/internal/api/handlers"
	"github.com/playarena/backend/internal/config"
	"github.com/playarena/backend/internal/game"
	"github.com/playarena/backend/internal/matches"
	"github.com/playarena/backend/internal/middleware"
	"github.com/playarena/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, registry *game.Registry, queue *game.QueueManager, matchRepo *matches.Repository, server *ws.Server, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	router.GET("/health", handlers.HealthCheck(registry))

	api := router.Group("/api")
	{
		g := api.Group("/game/:gameType")
		{
			g.POST("/initialize", handlers.InitializeGame(registry))
			g.POST("/move", handlers.MakeMove(registry))
			g.POST("/end", handlers.ForceEndGame(registry))
			g.GET("/:matchId", handlers.GetGame(registry))
			g.DELETE("/:matchId", handlers.DeleteGame(registry))
		}

		api.GET("/match/:matchId", handlers.GetMatch(matchRepo))

		mm := api.Group("/matchmaking")
		{
			mm.POST("/join", handlers.JoinQueue(queue, cfg))
			mm.POST("/leave", handlers.LeaveQueue(queue))
			mm.GET("/status", handlers.QueueStatus(queue))
		}
	}

	router.GET("/ws", server.HandleWebSocket)
}
