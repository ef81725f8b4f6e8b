package leads

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrStoreUnavailable = errors.New("leads: store not configured")

// Repository is the persistence contract for leads. Insert-only plus a full listing.
type Repository interface {
	Insert(ctx context.Context, in Input, ts time.Time) (Lead, error)
	List(ctx context.Context) ([]Lead, error)
}

// PostgresRepo stores leads in the leads table. Ids come from the column default.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Insert(ctx context.Context, in Input, ts time.Time) (Lead, error) {
	const q = `
INSERT INTO leads (timestamp, from_airport_or_city, to_airport_or_city, date_time, pax, name, phone, email, urgency, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id
`
	var id string
	if err := r.db.QueryRowContext(ctx, q,
		ts,
		in.FromAirportOrCity,
		in.ToAirportOrCity,
		in.DateTime,
		in.Pax,
		in.Name,
		in.Phone,
		in.Email,
		string(in.Urgency),
		nullString(in.Notes),
	).Scan(&id); err != nil {
		return Lead{}, err
	}
	return in.toLead(id, ts), nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]Lead, error) {
	const q = `
SELECT id, timestamp, from_airport_or_city, to_airport_or_city, date_time, pax, name, phone, email, urgency, notes
FROM leads
ORDER BY timestamp DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Lead{}
	for rows.Next() {
		var (
			l     Lead
			notes sql.NullString
		)
		if err := rows.Scan(
			&l.ID,
			&l.Timestamp,
			&l.FromAirportOrCity,
			&l.ToAirportOrCity,
			&l.DateTime,
			&l.Pax,
			&l.Name,
			&l.Phone,
			&l.Email,
			&l.Urgency,
			&notes,
		); err != nil {
			return nil, err
		}
		l.Notes = notes.String
		out = append(out, l)
	}
	return out, rows.Err()
}

// UnavailableRepo stands in when no database is configured.
type UnavailableRepo struct{}

func (UnavailableRepo) Insert(context.Context, Input, time.Time) (Lead, error) {
	return Lead{}, ErrStoreUnavailable
}

func (UnavailableRepo) List(context.Context) ([]Lead, error) {
	return nil, ErrStoreUnavailable
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
