package audit

import (
	"encoding/json"
	"time"
)

// Event is one row of the marketing optimization log.
//
// Invariants:
// - Events are never updated or deleted.
// - Applied=false means the action still needs manual review.
type Event struct {
	ID         string     `json:"id" db:"id"`
	ActionType ActionType `json:"action_type" db:"action_type"`

	// CampaignID is empty for account-wide actions such as new ad copy.
	CampaignID string `json:"campaign_id,omitempty" db:"campaign_id"`

	// Details is the full decision as JSON.
	Details json.RawMessage `json:"details,omitempty" db:"details"`
	Reason  string          `json:"reason" db:"reason"`
	Applied bool            `json:"applied" db:"applied"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ActionType string

const (
	ActionBudgetChange  ActionType = "budget_change"
	ActionPauseCampaign ActionType = "pause_campaign"
	ActionNewAdCopy     ActionType = "new_ad_copy"
)
