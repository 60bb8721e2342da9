package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Connect establishes a connection to Redis. An empty URL disables Redis
// entirely: the caller gets a nil client and events are delivered to the
// local hub only.
func Connect(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
