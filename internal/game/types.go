package game

import (
	"encoding/json"
	"time"
)

// GameType identifies which session engine owns a match.
type GameType string

const (
	GameChess       GameType = "chess"
	GameConnectFour GameType = "connect-four"
	GameDiamondHunt GameType = "diamond-hunt"
	GameTicTacToe   GameType = "tic-tac-toe"
	GameDice        GameType = "dice"
)

// ParseGameType validates a client-supplied game type string.
func ParseGameType(s string) (GameType, bool) {
	switch GameType(s) {
	case GameChess, GameConnectFour, GameDiamondHunt, GameTicTacToe, GameDice:
		return GameType(s), true
	}
	return "", false
}

// WalletMode selects which of the two independent balances a stake is
// drawn from.
type WalletMode string

const (
	WalletReal    WalletMode = "real"
	WalletVirtual WalletMode = "virtual"
)

// ParseWalletMode validates a wallet mode string; empty defaults to real.
func ParseWalletMode(s string) (WalletMode, bool) {
	switch WalletMode(s) {
	case "":
		return WalletReal, true
	case WalletReal, WalletVirtual:
		return WalletMode(s), true
	}
	return "", false
}

// SessionStatus represents the lifecycle of a live session.
type SessionStatus string

const (
	SessionActive   SessionStatus = "active"
	SessionFinished SessionStatus = "finished"
)

// Match statuses persisted on the durable match record.
const (
	MatchCreated  = "created"
	MatchActive   = "active"
	MatchFinished = "finished"
)

// MoveRecord is one entry of a session's move history.
type MoveRecord struct {
	PlayerID string          `json:"player_id"`
	Move     json.RawMessage `json:"move"`
	PlayedAt time.Time       `json:"played_at"`
}

// WinResult is the outcome evaluation after a move. Winner is empty for
// draws and non-terminal states.
type WinResult struct {
	GameOver bool   `json:"gameOver"`
	Winner   string `json:"winner,omitempty"`
	IsDraw   bool   `json:"isDraw,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// GameSession is the live, mutable state for one match. Owned exclusively
// by the engine responsible for its game type; never shared across
// engines. Once Status is finished, board and winner are immutable.
type GameSession struct {
	MatchID      string        `json:"match_id"`
	GameType     GameType      `json:"game_type"`
	Player1      string        `json:"player1"`
	Player2      string        `json:"player2"`
	CurrentTurn  string        `json:"current_turn"`
	Board        interface{}   `json:"board"`
	MoveHistory  []MoveRecord  `json:"move_history"`
	Status       SessionStatus `json:"status"`
	Winner       string        `json:"winner,omitempty"`
	IsDraw       bool          `json:"is_draw,omitempty"`
	WinReason    string        `json:"win_reason,omitempty"`
	Stake        int           `json:"stake"`
	WalletMode   WalletMode    `json:"wallet_mode"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
}

// IsPlayer reports whether id is one of the session's two players.
func (s *GameSession) IsPlayer(id string) bool {
	return id == s.Player1 || id == s.Player2
}

// Opponent returns the other player's id, or empty if id is not a player.
func (s *GameSession) Opponent(id string) string {
	switch id {
	case s.Player1:
		return s.Player2
	case s.Player2:
		return s.Player1
	}
	return ""
}
