package marketing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"charter-leads/internal/audit"
	"charter-leads/internal/reporting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocker struct {
	held     bool
	released int
}

func (l *fakeLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, bool, error) {
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func(context.Context) error {
		l.held = false
		l.released++
		return nil
	}, true, nil
}

type fixture struct {
	campaigns *reporting.MemoryRepo
	log       *audit.MemoryRepo
	store     *MemoryStore
	gen       *scriptedGenerator
	locker    *fakeLocker
	svc       *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Now().UTC()

	f := &fixture{
		campaigns: reporting.NewMemoryRepo(),
		log:       audit.NewMemoryRepo(),
		locker:    &fakeLocker{},
	}
	f.campaigns.Campaigns = []reporting.Campaign{
		{ID: "c1", Name: "Emergency Charter", Platform: "google", Status: reporting.CampaignActive, DailyBudget: 40},
		{ID: "c2", Name: "Generic Jets", Platform: "google", Status: reporting.CampaignActive, DailyBudget: 30},
	}
	f.campaigns.Performance = []reporting.PerformanceRow{
		{CampaignID: "c1", Date: now.AddDate(0, 0, -1), Impressions: 2000, Clicks: 100, Conversions: 5, Spend: 100},
		{CampaignID: "c2", Date: now.AddDate(0, 0, -1), Impressions: 1000, Clicks: 50, Conversions: 1, Spend: 87.5},
	}
	f.store = NewMemoryStore(f.campaigns, f.log)
	f.store.AdCopy = []AdCopyRecord{{ID: "a1", Platform: "google", Status: "active", Headlines: []string{"Fly Today"}}}
	f.gen = &scriptedGenerator{
		analysis: `{"budgetChanges":[{"campaignId":"c1","currentBudget":40,"newBudget":60,"reason":"CPL under target"},{"campaignId":"ghost","currentBudget":1,"newBudget":2,"reason":"x"}],"pauseCampaigns":["c2"]}`,
		adCopy:   `[{"platform":"google","headlines":["a","b","c"],"descriptions":["d","e"]},{"platform":"google","headlines":["f"],"descriptions":["g"]}]`,
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewService(
		reporting.NewService(f.campaigns),
		f.store,
		NewAdvisor(f.gen, DefaultSettings(), "ASAP Jet"),
		audit.NewService(f.log),
		Options{Enabled: true, Locker: f.locker, Logger: quiet},
	)
	return f
}

func TestOptimize_AppliesPlanAndLogsDecisions(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.Optimize(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Summary{
		CampaignsAnalyzed:  2,
		BudgetChanges:      2,
		CampaignsPaused:    1,
		NewAdCopyGenerated: 2,
		DailyBudget:        50,
	}, report.Summary)

	c1, _ := f.campaigns.Campaign("c1")
	assert.Equal(t, 60.0, c1.DailyBudget)
	c2, _ := f.campaigns.Campaign("c2")
	assert.Equal(t, reporting.CampaignPaused, c2.Status)

	evs := f.log.Events()
	require.Len(t, evs, 3, "unknown campaign budget change is not logged")

	assert.Equal(t, audit.ActionBudgetChange, evs[0].ActionType)
	assert.Equal(t, "c1", evs[0].CampaignID)
	assert.True(t, evs[0].Applied)
	assert.Equal(t, "CPL under target", evs[0].Reason)

	assert.Equal(t, audit.ActionPauseCampaign, evs[1].ActionType)
	assert.Equal(t, "Underperforming: CPL $87.50 exceeds target", evs[1].Reason)

	assert.Equal(t, audit.ActionNewAdCopy, evs[2].ActionType)
	assert.False(t, evs[2].Applied)
	assert.Empty(t, evs[2].CampaignID)
	assert.Equal(t, "Generated 2 new Google Search ad variations for testing", evs[2].Reason)
	var details struct {
		Platform string   `json:"platform"`
		Ads      []AdCopy `json:"ads"`
	}
	require.NoError(t, json.Unmarshal(evs[2].Details, &details))
	assert.Equal(t, "google", details.Platform)
	assert.Len(t, details.Ads, 2)

	assert.Contains(t, f.gen.prompts[1], "Fly Today")
	assert.Equal(t, 1, f.locker.released)
}

func TestOptimize_Disabled(t *testing.T) {
	f := newFixture(t)
	f.svc.enabled = false

	_, err := f.svc.Optimize(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Empty(t, f.gen.prompts)
}

func TestOptimize_WithoutPlanner(t *testing.T) {
	f := newFixture(t)
	f.svc.planner = nil

	_, err := f.svc.Optimize(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestOptimize_LockHeld(t *testing.T) {
	f := newFixture(t)
	f.locker.held = true

	_, err := f.svc.Optimize(context.Background())
	assert.ErrorIs(t, err, ErrLocked)
	assert.Empty(t, f.gen.prompts)
}

func TestOptimize_AdvisorFailureReleasesLock(t *testing.T) {
	f := newFixture(t)
	f.gen.err = errors.New("overloaded")

	_, err := f.svc.Optimize(context.Background())
	require.Error(t, err)
	assert.False(t, f.locker.held)
	assert.Empty(t, f.log.Events())
}

func TestOptimize_NoAdsNoAdCopyLog(t *testing.T) {
	f := newFixture(t)
	f.gen.analysis = `{}`
	f.gen.adCopy = `[]`

	report, err := f.svc.Optimize(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Summary.NewAdCopyGenerated)
	assert.Empty(t, f.log.Events())
	assert.NotNil(t, report.Plan.BudgetChanges)
}
