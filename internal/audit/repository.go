package audit

import (
	"context"
	"database/sql"
	"time"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PostgresRepo writes to ai_optimization_log.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	return insertEvent(ctx, r.db, e)
}

// InsertTx appends e inside tx so it commits or rolls back together with the
// action it describes.
func InsertTx(ctx context.Context, tx *sql.Tx, e Event, now time.Time) error {
	e, err := Stamp(e, now)
	if err != nil {
		return err
	}
	return insertEvent(ctx, tx, e)
}

func insertEvent(ctx context.Context, x execer, e Event) error {
	const q = `
INSERT INTO ai_optimization_log (id, action_type, campaign_id, details, reason, applied, created_at)
VALUES ($1, $2, NULLIF($3, ''), $4::jsonb, $5, $6, $7)
`
	_, err := x.ExecContext(ctx, q,
		e.ID,
		string(e.ActionType),
		e.CampaignID,
		string(e.Details),
		e.Reason,
		e.Applied,
		e.CreatedAt,
	)
	return err
}
