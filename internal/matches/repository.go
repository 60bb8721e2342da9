package matches

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/playarena/backend/internal/models"
)

// ErrNotFound is returned when no match row exists for an id.
var ErrNotFound = errors.New("match not found")

// Repository persists durable match records in Postgres. Sessions are
// ephemeral; this is the only state that survives a restart.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps a DB handle. A nil handle yields a repository whose
// writes are no-ops, so the engine can run without Postgres in dev/tests.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) enabled() bool {
	return r != nil && r.db != nil
}

// Create inserts a match in created status.
func (r *Repository) Create(m *models.Match) error {
	if !r.enabled() {
		return nil
	}
	_, err := r.db.Exec(
		`INSERT INTO matches (id, game_type, player1_id, player2_id, stake_amount, wallet_mode, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		m.ID, m.GameType, m.Player1ID, m.Player2ID, m.StakeAmount, m.WalletMode, m.Status)
	return err
}

// MarkActive transitions a match to active once its session exists.
func (r *Repository) MarkActive(matchID string) error {
	if !r.enabled() {
		return nil
	}
	_, err := r.db.Exec(`UPDATE matches SET status='active' WHERE id=$1 AND status='created'`, matchID)
	return err
}

// MarkFinished records the terminal result. Status transitions are
// monotonic; a finished match is never reopened.
func (r *Repository) MarkFinished(matchID, winnerID string, isDraw bool) error {
	if !r.enabled() {
		return nil
	}
	winner := sql.NullString{String: winnerID, Valid: winnerID != ""}
	_, err := r.db.Exec(
		`UPDATE matches SET status='finished', winner_id=$1, is_draw=$2, completed_at=NOW()
		 WHERE id=$3 AND status != 'finished'`,
		winner, isDraw, matchID)
	return err
}

// Delete discards a match record, used when a pairing is rolled back.
func (r *Repository) Delete(matchID string) error {
	if !r.enabled() {
		return nil
	}
	_, err := r.db.Exec(`DELETE FROM matches WHERE id=$1`, matchID)
	return err
}

// Get fetches one match row.
func (r *Repository) Get(matchID string) (*models.Match, error) {
	if !r.enabled() {
		return nil, ErrNotFound
	}
	var m models.Match
	if err := r.db.Get(&m, `SELECT * FROM matches WHERE id=$1`, matchID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
