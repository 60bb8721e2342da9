package models

import (
	"database/sql"
	"time"
)

// Match is the durable record pairing two players, a stake and a game type.
// Live board state is held in memory by the session engine; only this row
// survives a restart.
type Match struct {
	ID          string         `db:"id" json:"id"`
	GameType    string         `db:"game_type" json:"game_type"`
	Player1ID   string         `db:"player1_id" json:"player1_id"`
	Player2ID   string         `db:"player2_id" json:"player2_id"`
	StakeAmount int            `db:"stake_amount" json:"stake_amount"`
	WalletMode  string         `db:"wallet_mode" json:"wallet_mode"`
	Status      string         `db:"status" json:"status"`
	WinnerID    sql.NullString `db:"winner_id" json:"winner_id,omitempty"`
	IsDraw      bool           `db:"is_draw" json:"is_draw"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	CompletedAt sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
}
