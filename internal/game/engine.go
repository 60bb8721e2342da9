package game

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/playarena/backend/internal/models"
	"github.com/playarena/backend/internal/wallet"
)

// StakeReserver is the synchronous wallet call made before a session may
// exist. Satisfied by *wallet.Client.
type StakeReserver interface {
	ReserveStake(ctx context.Context, req wallet.ReserveRequest) error
}

// PayoutQueue accepts settlement requests after a terminal transition.
// Satisfied by *wallet.Dispatcher.
type PayoutQueue interface {
	Enqueue(req wallet.PayoutRequest)
}

// Events receives accepted state transitions for real-time fan-out.
type Events interface {
	MoveMade(matchID string, payload interface{})
	GameEnded(matchID string, payload interface{})
}

// MatchStore records durable match lifecycle transitions.
type MatchStore interface {
	Create(m *models.Match) error
	MarkActive(matchID string) error
	MarkFinished(matchID, winnerID string, isDraw bool) error
	Delete(matchID string) error
}

// EngineDeps carries the engine's collaborators. Any of them may be nil;
// the engine degrades to pure in-memory play (used heavily by tests).
type EngineDeps struct {
	Store   SessionStore
	Wallet  StakeReserver
	Payouts PayoutQueue
	Matches MatchStore
	Events  Events
}

// Engine owns every in-progress session of one game type. A single mutex
// serializes the check-and-apply sequence, so a whole move is atomic with
// respect to other requests on the same engine.
type Engine struct {
	rules   Rules
	mu      sync.Mutex
	store   SessionStore
	pending map[string]bool // match ids with a stake reservation in flight
	wallet  StakeReserver
	payouts PayoutQueue
	matches MatchStore
	events  Events
}

// NewEngine creates a session engine for one game type.
func NewEngine(rules Rules, deps EngineDeps) *Engine {
	if deps.Store == nil {
		deps.Store = NewMemoryStore()
	}
	return &Engine{
		rules:   rules,
		store:   deps.Store,
		pending: make(map[string]bool),
		wallet:  deps.Wallet,
		payouts: deps.Payouts,
		matches: deps.Matches,
		events:  deps.Events,
	}
}

// GameType returns the game type this engine is responsible for.
func (e *Engine) GameType() GameType {
	return e.rules.Type()
}

// SetEvents attaches the real-time event sink. Called once during wiring,
// before the engine serves traffic.
func (e *Engine) SetEvents(events Events) {
	e.events = events
}

// Initialize reserves the stake from both players and creates the
// authoritative session. On reservation failure no session exists. The
// match id is held as pending while the reservation is in flight, so a
// concurrent duplicate cannot reserve the stake twice.
func (e *Engine) Initialize(ctx context.Context, matchID, player1, player2 string, stake int, mode WalletMode) (*GameSession, error) {
	if matchID == "" || player1 == "" || player2 == "" || player1 == player2 || stake <= 0 {
		return nil, ErrValidation
	}

	e.mu.Lock()
	if _, exists := e.store.Get(matchID); exists {
		e.mu.Unlock()
		return nil, ErrSessionExists
	}
	if e.pending[matchID] {
		e.mu.Unlock()
		return nil, ErrSessionExists
	}
	e.pending[matchID] = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		delete(e.pending, matchID)
		e.mu.Unlock()
	}()

	// Stake reservation must complete before the session is visible.
	if e.wallet != nil {
		err := e.wallet.ReserveStake(ctx, wallet.ReserveRequest{
			MatchID:    matchID,
			Player1ID:  player1,
			Player2ID:  player2,
			BetAmount:  stake,
			WalletMode: string(mode),
		})
		if err != nil {
			log.Printf("[SESSION] Stake reservation failed for match %s: %v", matchID, err)
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
	}

	now := time.Now()
	session := &GameSession{
		MatchID:      matchID,
		GameType:     e.rules.Type(),
		Player1:      player1,
		Player2:      player2,
		CurrentTurn:  player1,
		Board:        e.rules.NewBoard(),
		MoveHistory:  []MoveRecord{},
		Status:       SessionActive,
		Stake:        stake,
		WalletMode:   mode,
		CreatedAt:    now,
		LastActivity: now,
	}

	e.mu.Lock()
	e.store.Put(session)
	e.mu.Unlock()

	if e.matches != nil {
		if err := e.matches.MarkActive(matchID); err != nil {
			log.Printf("[DB] Failed to mark match %s active: %v", matchID, err)
		}
	}

	log.Printf("[SESSION] Session created: match=%s type=%s players=[%s,%s] stake=%d",
		matchID, e.rules.Type(), player1, player2, stake)
	return session, nil
}

// ApplyMove validates and applies one move. The board is only mutated
// after the move is fully validated; rejected moves leave the session
// untouched.
func (e *Engine) ApplyMove(matchID, playerID string, move json.RawMessage) (*GameSession, interface{}, WinResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.store.Get(matchID)
	if !ok {
		return nil, nil, WinResult{}, ErrSessionNotFound
	}
	if session.Status == SessionFinished {
		return nil, nil, WinResult{}, ErrIllegalState
	}
	if !session.IsPlayer(playerID) || playerID != session.CurrentTurn {
		return nil, nil, WinResult{}, ErrNotYourTurn
	}

	moveResult, err := e.rules.ApplyMove(session, playerID, move)
	if err != nil {
		return nil, nil, WinResult{}, err
	}

	session.MoveHistory = append(session.MoveHistory, MoveRecord{
		PlayerID: playerID,
		Move:     append(json.RawMessage(nil), move...),
		PlayedAt: time.Now(),
	})
	session.CurrentTurn = session.Opponent(playerID)
	session.LastActivity = time.Now()

	winResult := e.rules.Evaluate(session)
	if winResult.GameOver {
		e.finishLocked(session, winResult)
	}
	e.store.Put(session)

	if e.events != nil {
		e.events.MoveMade(matchID, map[string]interface{}{
			"type":       "moveMade",
			"gameState":  session,
			"moveResult": moveResult,
			"winResult":  winResult,
		})
	}

	return session, moveResult, winResult, nil
}

// finishLocked transitions a session to finished and dispatches the
// payout. Callers hold e.mu. The payout is queued, never awaited: a
// wallet failure cannot roll back the finished state.
func (e *Engine) finishLocked(session *GameSession, win WinResult) {
	session.Status = SessionFinished
	session.Winner = win.Winner
	session.IsDraw = win.IsDraw
	session.WinReason = win.Reason

	log.Printf("[SESSION] Session finished: match=%s winner=%s draw=%v reason=%s",
		session.MatchID, win.Winner, win.IsDraw, win.Reason)

	if e.matches != nil {
		if err := e.matches.MarkFinished(session.MatchID, win.Winner, win.IsDraw); err != nil {
			log.Printf("[DB] Failed to mark match %s finished: %v", session.MatchID, err)
		}
	}

	if e.payouts != nil {
		e.payouts.Enqueue(wallet.PayoutRequest{
			MatchID:   session.MatchID,
			GameType:  string(session.GameType),
			Player1ID: session.Player1,
			Player2ID: session.Player2,
			WinnerID:  win.Winner,
			BetAmount: session.Stake,
			IsDraw:    win.IsDraw,
		})
	}
}

// GetSession returns the live session for a match.
func (e *Engine) GetSession(matchID string) (*GameSession, error) {
	session, ok := e.store.Get(matchID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// EndSession removes a session. Idempotent: removing an unknown match is
// not an error.
func (e *Engine) EndSession(matchID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.Delete(matchID)
}

// ForceEnd terminates a session administratively. The winner may be empty
// (treated as a draw-style settlement).
func (e *Engine) ForceEnd(matchID, winnerID, reason string) (*GameSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.store.Get(matchID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Status == SessionFinished {
		return session, nil
	}

	win := WinResult{GameOver: true, Winner: winnerID, IsDraw: winnerID == "", Reason: reason}
	e.finishLocked(session, win)
	e.store.Put(session)

	if e.events != nil {
		e.events.GameEnded(matchID, map[string]interface{}{
			"type":    "gameEnded",
			"matchId": matchID,
			"winner":  winnerID,
			"reason":  reason,
		})
	}
	return session, nil
}

// ActiveCount returns the number of sessions currently held, finished or
// not, until the reaper evicts them.
func (e *Engine) ActiveCount() int {
	return e.store.Len()
}

// ReapStale evicts sessions past the age or inactivity thresholds.
// Eviction is silent: no event is published, clients simply get
// SessionNotFound afterwards.
func (e *Engine) ReapStale(maxAge, maxIdle time.Duration) int {
	now := time.Now()
	evicted := 0
	for _, s := range e.store.List() {
		if now.Sub(s.CreatedAt) > maxAge || now.Sub(s.LastActivity) > maxIdle {
			e.mu.Lock()
			e.store.Delete(s.MatchID)
			e.mu.Unlock()
			evicted++
			log.Printf("[REAPER] Evicted session %s (age=%v idle=%v)",
				s.MatchID, now.Sub(s.CreatedAt).Round(time.Minute), now.Sub(s.LastActivity).Round(time.Minute))
		}
	}
	return evicted
}
