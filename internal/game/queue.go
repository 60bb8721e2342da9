package game

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/playarena/backend/internal/models"
)

// QueueEntry represents a player waiting in the matchmaking queue.
type QueueEntry struct {
	ID         string     `json:"id"`
	GameType   GameType   `json:"game_type"`
	PlayerID   string     `json:"player_id"`
	Stake      int        `json:"stake"`
	WalletMode WalletMode `json:"wallet_mode"`
	JoinedAt   time.Time  `json:"joined_at"`
}

func (e *QueueEntry) bucket() string {
	return fmt.Sprintf("%s:%d:%s", e.GameType, e.Stake, e.WalletMode)
}

// JoinResult is what a join request returns: either a match with its live
// session, or the caller's position estimate within their bucket.
type JoinResult struct {
	Matched  bool          `json:"matched"`
	Match    *models.Match `json:"match,omitempty"`
	Session  *GameSession  `json:"game_session,omitempty"`
	Position int           `json:"position,omitempty"`
}

// QueueEvents receives matchmaking notifications for real-time fan-out.
type QueueEvents interface {
	MatchFound(player1, player2 string, payload interface{})
	QueueStats(payload interface{})
}

// QueueManager pairs waiting players and drives session creation. A
// single mutex serializes joins, so pairing plus match creation is atomic
// and no partial match state is ever observable.
type QueueManager struct {
	mu      sync.Mutex
	entries []*QueueEntry
	engines *Registry
	matches MatchStore
	events  QueueEvents
}

// NewQueueManager creates a queue manager. matches and events may be nil.
func NewQueueManager(engines *Registry, matches MatchStore, events QueueEvents) *QueueManager {
	return &QueueManager{
		engines: engines,
		matches: matches,
		events:  events,
	}
}

// SetEvents attaches the matchmaking event sink. Called once during
// wiring, before the queue serves traffic.
func (qm *QueueManager) SetEvents(events QueueEvents) {
	qm.events = events
}

// Join enqueues a player or, if a compatible opponent is already waiting,
// creates the match and synchronously initializes its game session. A
// player holds at most one entry: re-joining evicts the previous entry
// first, last request wins.
func (qm *QueueManager) Join(ctx context.Context, gameType GameType, playerID string, stake int, mode WalletMode) (*JoinResult, error) {
	if playerID == "" || stake <= 0 {
		return nil, ErrValidation
	}
	engine, ok := qm.engines.ByType(gameType)
	if !ok {
		return nil, ErrValidation
	}

	qm.mu.Lock()
	defer qm.mu.Unlock()

	// Idempotent re-join: drop any prior entry for this player.
	qm.removeLocked(playerID)

	entry := &QueueEntry{
		ID:         generateEntryID(),
		GameType:   gameType,
		PlayerID:   playerID,
		Stake:      stake,
		WalletMode: mode,
		JoinedAt:   time.Now(),
	}

	// FIFO scan for the first compatible opponent.
	oppIdx := -1
	for i, other := range qm.entries {
		if other.bucket() == entry.bucket() && other.PlayerID != playerID {
			oppIdx = i
			break
		}
	}

	if oppIdx < 0 {
		// No match yet; queue the entry and report the bucket depth ahead.
		position := 0
		for _, other := range qm.entries {
			if other.bucket() == entry.bucket() {
				position++
			}
		}
		qm.entries = append(qm.entries, entry)
		return &JoinResult{Matched: false, Position: position}, nil
	}

	opponent := qm.entries[oppIdx]
	qm.entries = append(qm.entries[:oppIdx], qm.entries[oppIdx+1:]...)

	// Coin flip decides player1/player2, independent of queue order.
	player1, player2 := opponent.PlayerID, playerID
	if rand.Intn(2) == 1 {
		player1, player2 = player2, player1
	}

	match := &models.Match{
		ID:          generateMatchID(),
		GameType:    string(gameType),
		Player1ID:   player1,
		Player2ID:   player2,
		StakeAmount: stake,
		WalletMode:  string(mode),
		Status:      MatchCreated,
		CreatedAt:   time.Now(),
	}
	if qm.matches != nil {
		if err := qm.matches.Create(match); err != nil {
			log.Printf("[DB] Failed to persist match %s: %v", match.ID, err)
		}
	}

	log.Printf("[MATCHMAKING] Match created: %s (%s, stake=%d, %s vs %s)",
		match.ID, gameType, stake, player1, player2)

	session, err := engine.Initialize(ctx, match.ID, player1, player2, stake, mode)
	if err != nil {
		// Roll back the pairing: the opponent returns to their original
		// position, the requester re-queues behind their bucket, and the
		// match record is discarded.
		qm.entries = append(qm.entries, nil)
		copy(qm.entries[oppIdx+1:], qm.entries[oppIdx:])
		qm.entries[oppIdx] = opponent
		qm.entries = append(qm.entries, entry)

		if qm.matches != nil {
			if derr := qm.matches.Delete(match.ID); derr != nil {
				log.Printf("[DB] Failed to discard match %s after rollback: %v", match.ID, derr)
			}
		}
		log.Printf("[MATCHMAKING] Pairing rolled back for match %s: %v", match.ID, err)
		return nil, err
	}

	match.Status = MatchActive
	if qm.events != nil {
		qm.events.MatchFound(player1, player2, map[string]interface{}{
			"type":      "matchFound",
			"match":     match,
			"gameState": session,
		})
	}

	return &JoinResult{Matched: true, Match: match, Session: session}, nil
}

// Leave removes a player's queue entry. Returns false if none existed.
func (qm *QueueManager) Leave(playerID string) bool {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	return qm.removeLocked(playerID)
}

func (qm *QueueManager) removeLocked(playerID string) bool {
	for i, entry := range qm.entries {
		if entry.PlayerID == playerID {
			qm.entries = append(qm.entries[:i], qm.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Depth returns the number of waiting players per compatibility bucket.
func (qm *QueueManager) Depth() map[string]int {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	depth := make(map[string]int)
	for _, entry := range qm.entries {
		depth[entry.bucket()]++
	}
	return depth
}

// ExpireStale destroys queue entries that have waited longer than
// maxWait. Expired players simply re-join; no event is published.
func (qm *QueueManager) ExpireStale(maxWait time.Duration) int {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	now := time.Now()
	kept := qm.entries[:0]
	expired := 0
	for _, entry := range qm.entries {
		if now.Sub(entry.JoinedAt) > maxWait {
			expired++
			log.Printf("[MATCHMAKING] Queue entry expired for player %s (%s, waited %v)",
				entry.PlayerID, entry.bucket(), now.Sub(entry.JoinedAt).Round(time.Second))
			continue
		}
		kept = append(kept, entry)
	}
	qm.entries = kept
	return expired
}

// StartExpiryChecker runs the fixed-interval sweep that evicts entries
// past the wait limit, so nobody sits in a dead bucket forever.
func (qm *QueueManager) StartExpiryChecker(ctx context.Context, interval, maxWait time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		log.Printf("[MATCHMAKING] Queue expiry checker started (interval=%v maxWait=%v)", interval, maxWait)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[MATCHMAKING] Queue expiry checker stopped")
				return
			case <-ticker.C:
				qm.ExpireStale(maxWait)
			}
		}
	}()
}

// StartStatsBroadcaster periodically publishes queue depth by bucket for
// client UI feedback. Advisory only, never authoritative.
func (qm *QueueManager) StartStatsBroadcaster(ctx context.Context, interval time.Duration) {
	if qm.events == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				qm.events.QueueStats(map[string]interface{}{
					"type":    "queueStats",
					"buckets": qm.Depth(),
				})
			}
		}
	}()
}
