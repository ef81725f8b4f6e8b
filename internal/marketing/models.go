package marketing

import (
	"time"

	"charter-leads/internal/reporting"
)

// OptimizationPlan is the advisor's structured recommendation.
// Only budget changes and pauses are applied automatically.
type OptimizationPlan struct {
	BudgetChanges      []BudgetChange      `json:"budgetChanges"`
	BidAdjustments     []BidAdjustment     `json:"bidAdjustments"`
	PauseCampaigns     []string            `json:"pauseCampaigns"`
	NewAdCopy          []AdCopy            `json:"newAdCopy"`
	KeywordAdjustments []KeywordAdjustment `json:"keywordAdjustments"`
}

type BudgetChange struct {
	CampaignID    string  `json:"campaignId"`
	CurrentBudget float64 `json:"currentBudget"`
	NewBudget     float64 `json:"newBudget"`
	Reason        string  `json:"reason"`
}

type BidAdjustment struct {
	CampaignID string  `json:"campaignId"`
	CurrentBid float64 `json:"currentBid"`
	NewBid     float64 `json:"newBid"`
	Reason     string  `json:"reason"`
}

type KeywordAdjustment struct {
	CampaignID string   `json:"campaignId"`
	Action     string   `json:"action"`
	Keywords   []string `json:"keywords"`
	Reason     string   `json:"reason"`
}

// AdCopy is one search ad variation.
type AdCopy struct {
	Platform     string   `json:"platform"`
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
}

// AdCopyRecord is a stored ad variation.
type AdCopyRecord struct {
	ID           string   `json:"id"`
	CampaignID   string   `json:"campaign_id,omitempty"`
	Platform     string   `json:"platform"`
	Headlines    []string `json:"headlines"`
	Descriptions []string `json:"descriptions"`
	Status       string   `json:"status"`
}

const PlatformGoogle = "google"

// Summary counts what one run did.
type Summary struct {
	CampaignsAnalyzed  int     `json:"campaignsAnalyzed"`
	BudgetChanges      int     `json:"budgetChanges"`
	CampaignsPaused    int     `json:"campaignsPaused"`
	NewAdCopyGenerated int     `json:"newAdCopyGenerated"`
	DailyBudget        float64 `json:"dailyBudget"`
}

// Report is the outcome of one optimization run.
type Report struct {
	Timestamp   time.Time                       `json:"timestamp"`
	Summary     Summary                         `json:"summary"`
	Plan        OptimizationPlan                `json:"optimizationPlan"`
	Performance []reporting.CampaignPerformance `json:"-"`
}

func (p *OptimizationPlan) normalize() {
	if p.BudgetChanges == nil {
		p.BudgetChanges = []BudgetChange{}
	}
	if p.BidAdjustments == nil {
		p.BidAdjustments = []BidAdjustment{}
	}
	if p.PauseCampaigns == nil {
		p.PauseCampaigns = []string{}
	}
	if p.NewAdCopy == nil {
		p.NewAdCopy = []AdCopy{}
	}
	if p.KeywordAdjustments == nil {
		p.KeywordAdjustments = []KeywordAdjustment{}
	}
}
