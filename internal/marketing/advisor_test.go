package marketing

import (
	"context"
	"errors"
	"testing"

	"charter-leads/internal/reporting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator answers by max token budget: analysis or ad copy.
type scriptedGenerator struct {
	analysis string
	adCopy   string
	err      error
	prompts  []string
}

func (g *scriptedGenerator) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	if maxTokens == analysisMaxTokens {
		return g.analysis, nil
	}
	return g.adCopy, nil
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"fenced", "Here you go:\n```json\n{\"a\":1}\n```\nthanks", `{"a":1}`},
		{"bare object in prose", "Plan: {\"a\":{\"b\":2}} done", `{"a":{"b":2}}`},
		{"bare array", "  [{\"a\":1},{\"a\":2}]  ", `[{"a":1},{"a":2}]`},
		{"no json", "nothing here", "nothing here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractJSON(tc.in))
		})
	}
}

func TestAnalyzePerformance_ParsesPlan(t *testing.T) {
	gen := &scriptedGenerator{analysis: "```json\n" + `{"budgetChanges":[{"campaignId":"c1","currentBudget":40,"newBudget":55,"reason":"strong CPL"}],"pauseCampaigns":["c2"]}` + "\n```"}
	a := NewAdvisor(gen, DefaultSettings(), "ASAP Jet")

	plan, err := a.AnalyzePerformance(context.Background(), []reporting.CampaignPerformance{{ID: "c1", Name: "Emergency"}})
	require.NoError(t, err)
	require.Len(t, plan.BudgetChanges, 1)
	assert.Equal(t, 55.0, plan.BudgetChanges[0].NewBudget)
	assert.Equal(t, []string{"c2"}, plan.PauseCampaigns)
	assert.NotNil(t, plan.BidAdjustments)
	assert.NotNil(t, plan.KeywordAdjustments)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "ASAP Jet")
	assert.Contains(t, gen.prompts[0], "Target Cost Per Lead: $25")
	assert.Contains(t, gen.prompts[0], "Target Conversion Rate: 5%")
	assert.Contains(t, gen.prompts[0], `"emergency charter flight"`)
	assert.Contains(t, gen.prompts[0], `"id": "c1"`)
}

func TestAnalyzePerformance_Errors(t *testing.T) {
	a := NewAdvisor(&scriptedGenerator{analysis: "I cannot help with that"}, DefaultSettings(), "ASAP Jet")
	_, err := a.AnalyzePerformance(context.Background(), nil)
	assert.ErrorContains(t, err, "parse optimization plan")

	a = NewAdvisor(&scriptedGenerator{err: errors.New("overloaded")}, DefaultSettings(), "ASAP Jet")
	_, err = a.AnalyzePerformance(context.Background(), nil)
	assert.ErrorContains(t, err, "overloaded")
}

func TestGenerateAdCopy(t *testing.T) {
	gen := &scriptedGenerator{adCopy: `[{"headlines":["Jet Today","Fly ASAP","Charter Now"],"descriptions":["a","b"]}]`}
	a := NewAdvisor(gen, DefaultSettings(), "ASAP Jet")

	ads, err := a.GenerateAdCopy(context.Background(), []AdCopyRecord{{ID: "x", Platform: "google", Headlines: []string{"Old Headline"}}})
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, PlatformGoogle, ads[0].Platform)
	assert.Len(t, ads[0].Headlines, 3)
	assert.Contains(t, gen.prompts[0], "Old Headline")
	assert.Contains(t, gen.prompts[0], "Generate 3 Google Search Ad variations")
}

func TestGenerateAdCopy_WrappedObject(t *testing.T) {
	gen := &scriptedGenerator{adCopy: "Sure!\n```json\n{\"ads\":[{\"platform\":\"google\",\"headlines\":[\"h\"],\"descriptions\":[\"d\"]}]}\n```"}
	a := NewAdvisor(gen, DefaultSettings(), "ASAP Jet")

	ads, err := a.GenerateAdCopy(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, []string{"h"}, ads[0].Headlines)
}
