package reporting

import "time"

// Campaign is an ad campaign as stored in ad_campaigns.
type Campaign struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Platform    string    `json:"platform" db:"platform"`
	Status      string    `json:"status" db:"status"`
	DailyBudget float64   `json:"daily_budget" db:"daily_budget"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

const (
	CampaignActive = "active"
	CampaignPaused = "paused"
)

// PerformanceRow is one day of platform-reported metrics for a campaign.
type PerformanceRow struct {
	CampaignID  string    `json:"campaign_id" db:"campaign_id"`
	Date        time.Time `json:"date" db:"date"`
	Impressions int64     `json:"impressions" db:"impressions"`
	Clicks      int64     `json:"clicks" db:"clicks"`
	Conversions int64     `json:"conversions" db:"conversions"`
	Spend       float64   `json:"spend" db:"spend"`
}

// CampaignPerformance is the rolling-window aggregate handed to the advisor.
// Field names match what the advisor prompt and the API response expose.
type CampaignPerformance struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Platform string `json:"platform"`

	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Spend       float64 `json:"spend"`

	CTR               float64 `json:"ctr"`
	CPC               float64 `json:"cpc"`
	ConversionRate    float64 `json:"conversionRate"`
	CostPerConversion float64 `json:"costPerConversion"`
}
