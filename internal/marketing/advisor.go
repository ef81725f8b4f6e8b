package marketing

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"charter-leads/internal/reporting"
)

const (
	analysisMaxTokens = 4000
	adCopyMaxTokens   = 2000
)

// HighIntentQueries steer both the analysis and the ad copy.
var HighIntentQueries = []string{
	"last minute private jet",
	"emergency charter flight",
	"same day private flight",
	"urgent air charter",
	"asap private jet booking",
}

// Advisor turns campaign performance into a plan and writes ad copy.
type Advisor struct {
	gen      TextGenerator
	settings Settings
	brand    string
}

func NewAdvisor(gen TextGenerator, settings Settings, brand string) *Advisor {
	return &Advisor{gen: gen, settings: settings, brand: brand}
}

func (a *Advisor) AnalyzePerformance(ctx context.Context, perf []reporting.CampaignPerformance) (OptimizationPlan, error) {
	prompt, err := a.analysisPrompt(perf)
	if err != nil {
		return OptimizationPlan{}, err
	}
	text, err := a.gen.Complete(ctx, prompt, analysisMaxTokens)
	if err != nil {
		return OptimizationPlan{}, fmt.Errorf("marketing: analyze performance: %w", err)
	}

	var plan OptimizationPlan
	if err := json.Unmarshal([]byte(extractJSON(text)), &plan); err != nil {
		return OptimizationPlan{}, fmt.Errorf("marketing: parse optimization plan: %w", err)
	}
	plan.normalize()
	return plan, nil
}

func (a *Advisor) GenerateAdCopy(ctx context.Context, existing []AdCopyRecord) ([]AdCopy, error) {
	prompt, err := a.adCopyPrompt(existing)
	if err != nil {
		return nil, err
	}
	text, err := a.gen.Complete(ctx, prompt, adCopyMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("marketing: generate ad copy: %w", err)
	}

	raw := []byte(extractJSON(text))
	var ads []AdCopy
	if err := json.Unmarshal(raw, &ads); err != nil {
		// Some answers wrap the list in an object.
		var wrapped struct {
			Ads []AdCopy `json:"ads"`
		}
		if err2 := json.Unmarshal(raw, &wrapped); err2 != nil {
			return nil, fmt.Errorf("marketing: parse ad copy: %w", err)
		}
		ads = wrapped.Ads
	}
	for i := range ads {
		if ads[i].Platform == "" {
			ads[i].Platform = PlatformGoogle
		}
	}
	if ads == nil {
		ads = []AdCopy{}
	}
	return ads, nil
}

// DailyBudget is the pacing cap for Google Search spend.
func (a *Advisor) DailyBudget() float64 {
	return a.settings.Budget.DailyMax
}

func (a *Advisor) analysisPrompt(perf []reporting.CampaignPerformance) (string, error) {
	data, err := json.MarshalIndent(perf, "", "  ")
	if err != nil {
		return "", err
	}
	t := a.settings.Targets

	var b strings.Builder
	fmt.Fprintf(&b, "You are a performance marketing expert managing ad campaigns for %s, a private air charter service.\n\n", a.brand)
	b.WriteString("CURRENT CAMPAIGN DATA:\n")
	b.Write(data)
	b.WriteString("\n\nBUDGET & TARGETS:\n")
	fmt.Fprintf(&b, "- Total Budget: $%g/month\n", a.settings.Budget.Total)
	fmt.Fprintf(&b, "- Target Cost Per Lead: $%g\n", t.CostPerLead)
	fmt.Fprintf(&b, "- Target CPC: $%g\n", t.CostPerClick)
	fmt.Fprintf(&b, "- Target Conversion Rate: %g%%\n\n", t.ConversionRate*100)
	b.WriteString(`Analyze the performance and provide:
1. Which campaigns to increase/decrease budgets on
2. Which ads to pause (underperforming)
3. Bid adjustment recommendations
4. New ad copy suggestions to test
5. Keyword adjustments (add high-intent keywords, remove low-performers)

Focus on HIGH-INTENT SEARCH QUERIES - we want customers actively searching for:
`)
	for _, q := range HighIntentQueries {
		fmt.Fprintf(&b, "- %q\n", q)
	}
	b.WriteString(`
Return your response as a structured JSON plan with specific, actionable changes, using exactly these keys:
{"budgetChanges":[{"campaignId":"","currentBudget":0,"newBudget":0,"reason":""}],
 "bidAdjustments":[{"campaignId":"","currentBid":0,"newBid":0,"reason":""}],
 "pauseCampaigns":["campaignId"],
 "newAdCopy":[{"platform":"google","headlines":[],"descriptions":[]}],
 "keywordAdjustments":[{"campaignId":"","action":"","keywords":[],"reason":""}]}`)
	return b.String(), nil
}

func (a *Advisor) adCopyPrompt(existing []AdCopyRecord) (string, error) {
	ads := make([]AdCopy, 0, len(existing))
	for _, r := range existing {
		ads = append(ads, AdCopy{Platform: r.Platform, Headlines: r.Headlines, Descriptions: r.Descriptions})
	}
	data, err := json.MarshalIndent(ads, "", "  ")
	if err != nil {
		return "", err
	}
	n := a.settings.AdTesting.VariationsPerCampaign
	if n <= 0 {
		n = 3
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d Google Search Ad variations for %s private charter flights.\n\n", n, a.brand)
	b.WriteString(`REQUIREMENTS:
- Headlines: Max 30 characters each (provide 3 headlines per ad)
- Descriptions: Max 90 characters each (provide 2 descriptions per ad)
- Focus on URGENCY and IMMEDIATE availability
- Keywords: last-minute flights, private jet, charter flights, ASAP

TARGET AUDIENCE: Business executives, urgent travelers, groups needing immediate air travel

EXISTING ADS (don't duplicate):
`)
	b.Write(data)
	b.WriteString("\n\nReturn as JSON array of ad objects with headlines and descriptions.")
	return b.String(), nil
}

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\n?(.*?)\\n?```")
	bareObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJSON pulls the JSON payload out of a model answer: a fenced json
// block first, then the whole answer if it is valid JSON, then the outermost
// {...} span.
func extractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return trimmed
	}
	if m := bareObject.FindString(text); m != "" {
		return m
	}
	return text
}
