package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playarena/backend/internal/api"
	"github.com/playarena/backend/internal/config"
	"github.com/playarena/backend/internal/database"
	"github.com/playarena/backend/internal/game"
	"github.com/playarena/backend/internal/matches"
	"github.com/playarena/backend/internal/migrations"
	"github.com/playarena/backend/internal/redis"
	"github.com/playarena/backend/internal/wallet"
	"github.com/playarena/backend/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if os.Getenv("MIGRATE_ON_START") == "true" {
		log.Println("Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis. Optional: without it, events stay process-local.
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Println("Redis not configured, real-time events are process-local")
	}

	ctx := context.Background()

	matchRepo := matches.NewRepository(db)

	// Session engines, one per game type, sharing the wallet and match
	// record collaborators. Events are wired below once the hub exists.
	deps := game.EngineDeps{Matches: matchRepo}

	// Wallet client + payout dispatcher (payouts never block game state)
	if walletClient := wallet.NewClient(cfg); walletClient != nil {
		payouts := wallet.NewDispatcher(walletClient)
		payouts.Start(ctx)
		deps.Wallet = walletClient
		deps.Payouts = payouts
	} else {
		log.Printf("[WALLET] Running without wallet service - stakes will not be reserved")
	}

	registry := game.NewRegistry(deps)

	queue := game.NewQueueManager(registry, matchRepo, nil)

	// Real-time server and event bridge
	server := ws.NewServer(registry, queue)
	events := ws.NewEngineEvents(server.Hub, rdb)
	registry.SetEvents(events)
	queue.SetEvents(events)
	ws.StartEventSubscriber(ctx, rdb, server.Hub)

	// Background workers
	queue.StartStatsBroadcaster(ctx, time.Duration(cfg.QueueStatsIntervalSeconds)*time.Second)
	queue.StartExpiryChecker(ctx,
		time.Duration(cfg.QueueSweepIntervalSeconds)*time.Second,
		time.Duration(cfg.QueueEntryTimeoutMinutes)*time.Minute)
	game.StartReaper(ctx, registry,
		time.Duration(cfg.ReaperIntervalMinutes)*time.Minute,
		time.Duration(cfg.SessionMaxAgeHours)*time.Hour,
		time.Duration(cfg.SessionIdleHours)*time.Hour)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, registry, queue, matchRepo, server, cfg)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting PlayArena server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
