package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestQueue() (*QueueManager, *Registry) {
	registry := NewRegistry(EngineDeps{})
	return NewQueueManager(registry, nil, nil), registry
}

func TestQueueFirstJoinWaits(t *testing.T) {
	qm, _ := newTestQueue()

	res, err := qm.Join(context.Background(), GameTicTacToe, "alice", 100, WalletReal)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if res.Matched {
		t.Fatalf("First player should wait, got %+v", res)
	}
	if res.Position != 0 {
		t.Errorf("First in bucket should see position 0, got %d", res.Position)
	}
}

func TestQueuePairsCompatiblePlayers(t *testing.T) {
	qm, registry := newTestQueue()

	qm.Join(context.Background(), GameConnectFour, "alice", 100, WalletReal)
	res, err := qm.Join(context.Background(), GameConnectFour, "bob", 100, WalletReal)
	if err != nil {
		t.Fatalf("Second join failed: %v", err)
	}
	if !res.Matched || res.Match == nil || res.Session == nil {
		t.Fatalf("Expected a match, got %+v", res)
	}

	// Coin flip decides sides; both players must appear exactly once.
	p1, p2 := res.Session.Player1, res.Session.Player2
	if !(p1 == "alice" && p2 == "bob") && !(p1 == "bob" && p2 == "alice") {
		t.Errorf("Unexpected player assignment: %s vs %s", p1, p2)
	}

	// The live session is owned by the connect-four engine.
	engine, _ := registry.ByType(GameConnectFour)
	if _, err := engine.GetSession(res.Match.ID); err != nil {
		t.Errorf("Session missing from engine: %v", err)
	}

	// Both entries consumed.
	if len(qm.Depth()) != 0 {
		t.Errorf("Queue should be empty after pairing, got %v", qm.Depth())
	}
}

func TestQueueBucketIsolation(t *testing.T) {
	qm, _ := newTestQueue()

	qm.Join(context.Background(), GameChess, "alice", 100, WalletReal)

	// Different stake, different game, and different wallet mode must
	// each wait instead of matching alice.
	cases := []struct {
		player string
		gt     GameType
		stake  int
		mode   WalletMode
	}{
		{"bob", GameChess, 200, WalletReal},
		{"carol", GameDice, 100, WalletReal},
		{"dave", GameChess, 100, WalletVirtual},
	}
	for _, tc := range cases {
		res, err := qm.Join(context.Background(), tc.gt, tc.player, tc.stake, tc.mode)
		if err != nil {
			t.Fatalf("%s: join failed: %v", tc.player, err)
		}
		if res.Matched {
			t.Errorf("%s matched across buckets: %+v", tc.player, res)
		}
	}

	if len(qm.Depth()) != 4 {
		t.Errorf("Expected 4 distinct buckets, got %v", qm.Depth())
	}
}

func TestQueueRejoinReplacesEntry(t *testing.T) {
	qm, _ := newTestQueue()

	qm.Join(context.Background(), GameChess, "alice", 100, WalletReal)
	qm.Join(context.Background(), GameChess, "alice", 500, WalletReal)

	depth := qm.Depth()
	if depth["chess:100:real"] != 0 || depth["chess:500:real"] != 1 {
		t.Errorf("Re-join should evict the old entry: %v", depth)
	}

	// The stale stake no longer matches.
	res, _ := qm.Join(context.Background(), GameChess, "bob", 100, WalletReal)
	if res.Matched {
		t.Errorf("Matched against an evicted entry: %+v", res)
	}
}

func TestQueueLeave(t *testing.T) {
	qm, _ := newTestQueue()

	qm.Join(context.Background(), GameDice, "alice", 100, WalletReal)
	if !qm.Leave("alice") {
		t.Errorf("Leave should report an existing entry")
	}
	if qm.Leave("alice") {
		t.Errorf("Second leave should report nothing to remove")
	}

	res, _ := qm.Join(context.Background(), GameDice, "bob", 100, WalletReal)
	if res.Matched {
		t.Errorf("Matched against a departed player: %+v", res)
	}
}

func TestQueuePositionCountsOnlyOwnBucket(t *testing.T) {
	qm, _ := newTestQueue()

	// Three waiters in unrelated buckets, then two in the same one.
	qm.Join(context.Background(), GameChess, "w1", 50, WalletReal)
	qm.Join(context.Background(), GameDice, "w2", 50, WalletReal)
	qm.Join(context.Background(), GameTicTacToe, "w3", 50, WalletVirtual)

	res, _ := qm.Join(context.Background(), GameConnectFour, "alice", 100, WalletReal)
	if res.Position != 0 {
		t.Errorf("Foreign buckets counted toward position: %d", res.Position)
	}
}

func TestQueueValidation(t *testing.T) {
	qm, _ := newTestQueue()

	if _, err := qm.Join(context.Background(), GameChess, "", 100, WalletReal); !errors.Is(err, ErrValidation) {
		t.Errorf("Empty player accepted: %v", err)
	}
	if _, err := qm.Join(context.Background(), GameChess, "alice", 0, WalletReal); !errors.Is(err, ErrValidation) {
		t.Errorf("Zero stake accepted: %v", err)
	}
	if _, err := qm.Join(context.Background(), GameType("crokinole"), "alice", 100, WalletReal); !errors.Is(err, ErrValidation) {
		t.Errorf("Unknown game type accepted: %v", err)
	}
}

func TestQueueRollbackOnReservationFailure(t *testing.T) {
	reserver := &failingReserver{}
	registry := NewRegistry(EngineDeps{Wallet: reserver})
	qm := NewQueueManager(registry, nil, nil)

	qm.Join(context.Background(), GameTicTacToe, "alice", 100, WalletReal)
	_, err := qm.Join(context.Background(), GameTicTacToe, "bob", 100, WalletReal)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("Expected upstream error, got %v", err)
	}

	// Both players are back in the queue, alice still first.
	depth := qm.Depth()
	if depth["tic-tac-toe:100:real"] != 2 {
		t.Errorf("Expected both players re-queued, got %v", depth)
	}

	// No session leaked into the engine.
	engine, _ := registry.ByType(GameTicTacToe)
	if engine.ActiveCount() != 0 {
		t.Errorf("Rolled-back pairing left %d sessions", engine.ActiveCount())
	}
}

func TestQueueExpiryEvictsStaleEntries(t *testing.T) {
	qm, _ := newTestQueue()

	qm.Join(context.Background(), GameChess, "alice", 100, WalletReal)
	qm.Join(context.Background(), GameDice, "bob", 100, WalletReal)
	qm.entries[0].JoinedAt = time.Now().Add(-48 * time.Hour)

	expired := qm.ExpireStale(10 * time.Minute)
	if expired != 1 {
		t.Errorf("Expected 1 expired entry, got %d", expired)
	}

	depth := qm.Depth()
	if depth["chess:100:real"] != 0 {
		t.Errorf("Stale entry survived the sweep: %v", depth)
	}
	if depth["dice:100:real"] != 1 {
		t.Errorf("Fresh entry evicted by the sweep: %v", depth)
	}

	// The expired player is simply gone and can re-join.
	if qm.Leave("alice") {
		t.Errorf("Expired entry still removable")
	}
	res, err := qm.Join(context.Background(), GameChess, "alice", 100, WalletReal)
	if err != nil || res.Matched {
		t.Errorf("Re-join after expiry failed: %+v %v", res, err)
	}
}

func TestQueueMatchFoundEvent(t *testing.T) {
	registry := NewRegistry(EngineDeps{})
	events := &recordingQueueEvents{}
	qm := NewQueueManager(registry, nil, events)

	qm.Join(context.Background(), GameDice, "alice", 100, WalletReal)
	if len(events.matches) != 0 {
		t.Errorf("Event published before any match: %v", events.matches)
	}

	qm.Join(context.Background(), GameDice, "bob", 100, WalletReal)
	if len(events.matches) != 1 {
		t.Fatalf("Expected one matchFound event, got %d", len(events.matches))
	}
	pair := events.matches[0]
	if !(pair[0] == "alice" && pair[1] == "bob") && !(pair[0] == "bob" && pair[1] == "alice") {
		t.Errorf("Event names wrong players: %v", pair)
	}
}

// recordingQueueEvents captures matchmaking notifications.
type recordingQueueEvents struct {
	matches [][2]string
	stats   int
}

func (r *recordingQueueEvents) MatchFound(player1, player2 string, payload interface{}) {
	r.matches = append(r.matches, [2]string{player1, player2})
}

func (r *recordingQueueEvents) QueueStats(payload interface{}) {
	r.stats++
}
