package calls

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrStoreUnavailable = errors.New("calls: store not configured")

// Repository persists call logs. Upsert is atomic per call id.
type Repository interface {
	Upsert(ctx context.Context, p Patch) (CallLog, error)
	ListByLead(ctx context.Context, leadID string) ([]CallLog, error)
}

// PostgresRepo relies on the UNIQUE (call_id) constraint for the merge.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const callLogColumns = `id, call_id, lead_id, status, timestamp, started_at, ended_at, duration, cost, error, transcript, updated_at`

func (r *PostgresRepo) Upsert(ctx context.Context, p Patch) (CallLog, error) {
	const q = `
INSERT INTO call_logs (call_id, lead_id, status, timestamp, started_at, ended_at, duration, cost, error, transcript, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $4)
ON CONFLICT (call_id) DO UPDATE SET
  lead_id    = COALESCE(EXCLUDED.lead_id, call_logs.lead_id),
  status     = CASE WHEN $11::boolean THEN call_logs.status ELSE EXCLUDED.status END,
  started_at = COALESCE(EXCLUDED.started_at, call_logs.started_at),
  ended_at   = COALESCE(EXCLUDED.ended_at, call_logs.ended_at),
  duration   = COALESCE(EXCLUDED.duration, call_logs.duration),
  cost       = COALESCE(EXCLUDED.cost, call_logs.cost),
  error      = COALESCE(EXCLUDED.error, call_logs.error),
  transcript = COALESCE(EXCLUDED.transcript, call_logs.transcript),
  updated_at = EXCLUDED.updated_at
RETURNING ` + callLogColumns

	row := r.db.QueryRowContext(ctx, q,
		p.CallID,
		nullString(p.LeadID),
		string(p.Status),
		p.At,
		nullTime(p.StartedAt),
		nullTime(p.EndedAt),
		nullFloat(p.Duration),
		nullFloat(p.Cost),
		nullString(p.Error),
		nullString(p.Transcript),
		p.KeepStatus,
	)
	return scanCallLog(row)
}

func (r *PostgresRepo) ListByLead(ctx context.Context, leadID string) ([]CallLog, error) {
	q := `SELECT ` + callLogColumns + `
FROM call_logs
WHERE lead_id = $1
ORDER BY timestamp DESC
`
	rows, err := r.db.QueryContext(ctx, q, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []CallLog{}
	for rows.Next() {
		c, err := scanCallLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCallLog(s scanner) (CallLog, error) {
	var (
		c                  CallLog
		leadID, errText    sql.NullString
		transcript         sql.NullString
		startedAt, endedAt sql.NullTime
		duration, cost     sql.NullFloat64
	)
	if err := s.Scan(
		&c.ID,
		&c.CallID,
		&leadID,
		&c.Status,
		&c.Timestamp,
		&startedAt,
		&endedAt,
		&duration,
		&cost,
		&errText,
		&transcript,
		&c.UpdatedAt,
	); err != nil {
		return CallLog{}, err
	}
	c.LeadID = leadID.String
	c.Error = errText.String
	c.Transcript = transcript.String
	if startedAt.Valid {
		c.StartedAt = &startedAt.Time
	}
	if endedAt.Valid {
		c.EndedAt = &endedAt.Time
	}
	if duration.Valid {
		c.Duration = &duration.Float64
	}
	if cost.Valid {
		c.Cost = &cost.Float64
	}
	return c, nil
}

// UnavailableRepo stands in when no database is configured.
type UnavailableRepo struct{}

func (UnavailableRepo) Upsert(context.Context, Patch) (CallLog, error) {
	return CallLog{}, ErrStoreUnavailable
}

func (UnavailableRepo) ListByLead(context.Context, string) ([]CallLog, error) {
	return nil, ErrStoreUnavailable
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
