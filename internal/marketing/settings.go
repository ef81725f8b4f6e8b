package marketing

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings are the budget and performance targets the advisor works toward.
type Settings struct {
	Budget       BudgetSettings       `toml:"budget" json:"budget"`
	Targets      TargetSettings       `toml:"targets" json:"targets"`
	Optimization OptimizationSettings `toml:"optimization" json:"optimization"`
	AdTesting    AdTestingSettings    `toml:"ad_testing" json:"adTesting"`
}

type BudgetSettings struct {
	// Total is the monthly budget.
	Total float64 `toml:"total" json:"total"`
	// GoogleAds is the share of Total spent on Google Search.
	GoogleAds float64 `toml:"google_ads" json:"googleAds"`
	DailyMax  float64 `toml:"daily_max" json:"dailyMax"`
}

type TargetSettings struct {
	CostPerLead    float64 `toml:"cost_per_lead" json:"costPerLead"`
	CostPerClick   float64 `toml:"cost_per_click" json:"costPerClick"`
	ConversionRate float64 `toml:"conversion_rate" json:"conversionRate"`
	QualityScore   float64 `toml:"quality_score" json:"qualityScore"`
}

type OptimizationSettings struct {
	MinDataPoints        int     `toml:"min_data_points" json:"minDataPoints"`
	BidAdjustmentMax     float64 `toml:"bid_adjustment_max" json:"bidAdjustmentMax"`
	PauseUnderperformers bool    `toml:"pause_underperformers" json:"pauseUnderperformers"`
}

type AdTestingSettings struct {
	VariationsPerCampaign int `toml:"variations_per_campaign" json:"variationsPerCampaign"`
	MinImpressions        int `toml:"min_impressions" json:"minImpressions"`
}

func DefaultSettings() Settings {
	return Settings{
		Budget: BudgetSettings{Total: 1000, GoogleAds: 1.0, DailyMax: 50},
		Targets: TargetSettings{
			CostPerLead:    25,
			CostPerClick:   3,
			ConversionRate: 0.05,
			QualityScore:   7,
		},
		Optimization: OptimizationSettings{
			MinDataPoints:        30,
			BidAdjustmentMax:     0.2,
			PauseUnderperformers: true,
		},
		AdTesting: AdTestingSettings{VariationsPerCampaign: 3, MinImpressions: 1000},
	}
}

// LoadSettings decodes path over the defaults. An empty path or a missing
// file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return s, fmt.Errorf("marketing: decode settings: %w", err)
	}
	return s, s.Validate()
}

func (s Settings) Validate() error {
	var errs []error
	if s.Budget.Total <= 0 {
		errs = append(errs, errors.New("budget.total must be positive"))
	}
	if s.Budget.DailyMax <= 0 {
		errs = append(errs, errors.New("budget.daily_max must be positive"))
	}
	if s.Targets.CostPerLead <= 0 {
		errs = append(errs, errors.New("targets.cost_per_lead must be positive"))
	}
	if s.Targets.ConversionRate < 0 || s.Targets.ConversionRate > 1 {
		errs = append(errs, errors.New("targets.conversion_rate must be within 0..1"))
	}
	return errors.Join(errs...)
}
