package marketing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"charter-leads/internal/audit"
	"charter-leads/pkg/utils"
)

var ErrCampaignNotFound = errors.New("marketing: campaign not found")

// Store applies plan actions. Each applied action and its log entry are
// written together or not at all.
type Store interface {
	ApplyBudgetChange(ctx context.Context, ch BudgetChange, entry audit.Event) error
	PauseCampaign(ctx context.Context, campaignID string, entry audit.Event) error
	ListActiveAdCopy(ctx context.Context, platform string) ([]AdCopyRecord, error)
}

type PostgresStore struct {
	db    *sql.DB
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

func (s *PostgresStore) ApplyBudgetChange(ctx context.Context, ch BudgetChange, entry audit.Event) error {
	const q = `
UPDATE ad_campaigns
SET daily_budget = $2, updated_at = now()
WHERE id::text = $1
`
	return s.updateWithLog(ctx, q, entry, ch.CampaignID, ch.NewBudget)
}

func (s *PostgresStore) PauseCampaign(ctx context.Context, campaignID string, entry audit.Event) error {
	const q = `
UPDATE ad_campaigns
SET status = 'paused', updated_at = now()
WHERE id::text = $1
`
	return s.updateWithLog(ctx, q, entry, campaignID)
}

func (s *PostgresStore) updateWithLog(ctx context.Context, q string, entry audit.Event, args ...any) error {
	return utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCampaignNotFound
		}
		return audit.InsertTx(ctx, tx, entry, s.clock())
	})
}

func (s *PostgresStore) ListActiveAdCopy(ctx context.Context, platform string) ([]AdCopyRecord, error) {
	const q = `
SELECT id, COALESCE(campaign_id::text, ''), platform, headlines, descriptions, status
FROM ad_copy
WHERE platform = $1 AND status = 'active'
ORDER BY created_at ASC
`
	rows, err := s.db.QueryContext(ctx, q, platform)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AdCopyRecord{}
	for rows.Next() {
		var (
			r            AdCopyRecord
			headlines    []byte
			descriptions []byte
		)
		if err := rows.Scan(&r.ID, &r.CampaignID, &r.Platform, &headlines, &descriptions, &r.Status); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(headlines, &r.Headlines); err != nil {
			return nil, fmt.Errorf("ad copy %s headlines: %w", r.ID, err)
		}
		if err := json.Unmarshal(descriptions, &r.Descriptions); err != nil {
			return nil, fmt.Errorf("ad copy %s descriptions: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
