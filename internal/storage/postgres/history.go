package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/gridtactics/internal/session"
)

// HistoryRepository archives resolved battles. It implements
// session.ResultRecorder.
type HistoryRepository struct {
	db       *pgxpool.Pool
	playerID *int64
}

var _ session.ResultRecorder = (*HistoryRepository)(nil)

// NewHistoryRepository creates a HistoryRepository. When playerID is non-nil
// every recorded battle is attributed to that player.
func NewHistoryRepository(db *pgxpool.Pool, playerID *int64) *HistoryRepository {
	return &HistoryRepository{db: db, playerID: playerID}
}

// Record inserts r. Recording the same session twice is a no-op.
//
// Precondition: r.SessionID must be a UUID string.
func (h *HistoryRepository) Record(ctx context.Context, r session.Result) error {
	id, err := uuid.Parse(r.SessionID)
	if err != nil {
		return fmt.Errorf("session id %q: %w", r.SessionID, err)
	}
	_, err = h.db.Exec(ctx, `
		INSERT INTO battle_results
			(session_id, player_id, battlefield, outcome, rounds, survivors, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO NOTHING`,
		id, h.playerID, r.Battlefield, r.Outcome, r.Rounds, r.Survivors, r.StartedAt, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("recording battle %s: %w", r.SessionID, err)
	}
	return nil
}

// Recent returns up to n archived battles for the repository's player, newest
// first. Player names are not archived and come back empty.
func (h *HistoryRepository) Recent(ctx context.Context, n int) ([]session.Result, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := h.db.Query(ctx, `
		SELECT session_id, battlefield, outcome, rounds, survivors, started_at, finished_at
		FROM battle_results
		WHERE player_id IS NOT DISTINCT FROM $1
		ORDER BY finished_at DESC
		LIMIT $2`, h.playerID, n)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (session.Result, error) {
		var (
			r  session.Result
			id uuid.UUID
		)
		err := row.Scan(&id, &r.Battlefield, &r.Outcome, &r.Rounds, &r.Survivors, &r.StartedAt, &r.FinishedAt)
		r.SessionID = id.String()
		return r, err
	})
}
