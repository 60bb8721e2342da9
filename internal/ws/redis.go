package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const gameEventsChannel = "game_events"

// Event scopes control how the subscriber fans a payload out.
const (
	scopeMatch   = "match"
	scopePlayers = "players"
	scopeAll     = "all"
)

// gameEvent is the cross-process envelope published to Redis.
type gameEvent struct {
	Scope   string      `json:"scope"`
	MatchID string      `json:"match_id,omitempty"`
	Players []string    `json:"players,omitempty"`
	Payload interface{} `json:"payload"`
}

func publishGameEvent(rdb *redis.Client, ev gameEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[WS] Failed to marshal game event: %v", err)
		return
	}
	if err := rdb.Publish(context.Background(), gameEventsChannel, data).Err(); err != nil {
		log.Printf("[WS] Failed to publish game event: %v", err)
	}
}

// StartEventSubscriber subscribes to the game_events channel and fans
// incoming events out to this process's connected clients.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, gameEventsChannel)
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] game_events subscriber started")
		for msg := range ch {
			var ev struct {
				Scope   string          `json:"scope"`
				MatchID string          `json:"match_id"`
				Players []string        `json:"players"`
				Payload json.RawMessage `json:"payload"`
			}
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			switch ev.Scope {
			case scopeMatch:
				hub.BroadcastToMatch(ev.MatchID, json.RawMessage(ev.Payload))
			case scopePlayers:
				for _, playerID := range ev.Players {
					hub.SendToPlayer(playerID, json.RawMessage(ev.Payload))
				}
			case scopeAll:
				hub.BroadcastAll(json.RawMessage(ev.Payload))
			default:
				log.Printf("[WS] unknown event scope: %s", ev.Scope)
			}
		}
	}()
}
