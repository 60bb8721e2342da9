package ws

import (
	"github.com/redis/go-redis/v9"
)

// EngineEvents bridges engine and queue notifications to connected
// clients. With Redis configured, events go through the game_events
// channel so every process's hub sees them; without it they are delivered
// to the local hub directly.
type EngineEvents struct {
	hub *Hub
	rdb *redis.Client
}

// NewEngineEvents creates the event sink. rdb may be nil.
func NewEngineEvents(hub *Hub, rdb *redis.Client) *EngineEvents {
	return &EngineEvents{hub: hub, rdb: rdb}
}

// MoveMade fans an accepted move out to the match room.
func (e *EngineEvents) MoveMade(matchID string, payload interface{}) {
	if e.rdb != nil {
		publishGameEvent(e.rdb, gameEvent{Scope: scopeMatch, MatchID: matchID, Payload: payload})
		return
	}
	e.hub.BroadcastToMatch(matchID, payload)
}

// GameEnded announces an administrative termination to the match room.
func (e *EngineEvents) GameEnded(matchID string, payload interface{}) {
	if e.rdb != nil {
		publishGameEvent(e.rdb, gameEvent{Scope: scopeMatch, MatchID: matchID, Payload: payload})
		return
	}
	e.hub.BroadcastToMatch(matchID, payload)
}

// MatchFound notifies both paired players on whatever connections they
// hold.
func (e *EngineEvents) MatchFound(player1, player2 string, payload interface{}) {
	if e.rdb != nil {
		publishGameEvent(e.rdb, gameEvent{Scope: scopePlayers, Players: []string{player1, player2}, Payload: payload})
		return
	}
	e.hub.SendToPlayer(player1, payload)
	e.hub.SendToPlayer(player2, payload)
}

// QueueStats pushes advisory queue depth to every connected client.
func (e *EngineEvents) QueueStats(payload interface{}) {
	if e.rdb != nil {
		publishGameEvent(e.rdb, gameEvent{Scope: scopeAll, Payload: payload})
		return
	}
	e.hub.BroadcastAll(payload)
}
