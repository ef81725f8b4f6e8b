package reporting

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// PostgresRepo reads ad_campaigns and ad_performance.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) ListActiveCampaigns(ctx context.Context) ([]Campaign, error) {
	const q = `
SELECT id, name, platform, status, daily_budget, created_at
FROM ad_campaigns
WHERE status = 'active'
ORDER BY created_at ASC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Campaign{}
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Platform, &c.Status, &c.DailyBudget, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListPerformance(ctx context.Context, campaignIDs []string, since time.Time) ([]PerformanceRow, error) {
	if len(campaignIDs) == 0 {
		return []PerformanceRow{}, nil
	}

	args := make([]any, 0, len(campaignIDs)+1)
	args = append(args, since)
	marks := make([]string, 0, len(campaignIDs))
	for i, id := range campaignIDs {
		args = append(args, id)
		marks = append(marks, "$"+strconv.Itoa(i+2))
	}
	q := `
SELECT campaign_id, date, impressions, clicks, conversions, spend
FROM ad_performance
WHERE date >= $1::date AND campaign_id IN (` + strings.Join(marks, ", ") + `)
ORDER BY date ASC
`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PerformanceRow{}
	for rows.Next() {
		var p PerformanceRow
		if err := rows.Scan(&p.CampaignID, &p.Date, &p.Impressions, &p.Clicks, &p.Conversions, &p.Spend); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
