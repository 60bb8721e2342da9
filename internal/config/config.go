package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Wallet service (stake reservation + payout)
	WalletBaseURL        string
	WalletServiceID      string
	WalletJWTSecret      string
	WalletTimeoutSeconds int
	WalletCurrency       string

	// Game Settings
	MinStakeAmount            int
	QueueStatsIntervalSeconds int
	QueueSweepIntervalSeconds int
	QueueEntryTimeoutMinutes  int

	// Session Reaper
	ReaperIntervalMinutes int
	SessionMaxAgeHours    int
	SessionIdleHours      int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/playarena?sslmode=disable"),

		// Redis (empty disables the cross-process event bridge)
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Wallet service
		WalletBaseURL:        getEnv("WALLET_BASE_URL", "http://localhost:8090"),
		WalletServiceID:      getEnv("WALLET_SERVICE_ID", "game-orchestrator"),
		WalletJWTSecret:      getEnv("WALLET_JWT_SECRET", "change-me-in-production"),
		WalletTimeoutSeconds: getEnvInt("WALLET_TIMEOUT_SECONDS", 10),
		WalletCurrency:       getEnv("WALLET_CURRENCY", "USD"),

		// Game Settings
		MinStakeAmount:            getEnvInt("MIN_STAKE_AMOUNT", 100),
		QueueStatsIntervalSeconds: getEnvInt("QUEUE_STATS_INTERVAL_SECONDS", 5),
		QueueSweepIntervalSeconds: getEnvInt("QUEUE_SWEEP_INTERVAL_SECONDS", 30),
		QueueEntryTimeoutMinutes:  getEnvInt("QUEUE_ENTRY_TIMEOUT_MINUTES", 10),

		// Session Reaper
		ReaperIntervalMinutes: getEnvInt("REAPER_INTERVAL_MINUTES", 60),
		SessionMaxAgeHours:    getEnvInt("SESSION_MAX_AGE_HOURS", 24),
		SessionIdleHours:      getEnvInt("SESSION_IDLE_HOURS", 2),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
