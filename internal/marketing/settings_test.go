package marketing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_DefaultsWithoutFile(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)

	s, err = LoadSettings(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, 50.0, s.Budget.DailyMax)
}

func TestLoadSettings_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketing.toml")
	body := `
[budget]
total = 3000
daily_max = 120

[targets]
cost_per_lead = 40
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, s.Budget.Total)
	assert.Equal(t, 120.0, s.Budget.DailyMax)
	assert.Equal(t, 40.0, s.Targets.CostPerLead)
	// untouched keys keep their defaults
	assert.Equal(t, 3.0, s.Targets.CostPerClick)
	assert.Equal(t, 0.05, s.Targets.ConversionRate)
}

func TestLoadSettings_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marketing.toml")
	require.NoError(t, os.WriteFile(path, []byte("[budget]\ndaily_max = -1\n"), 0o600))

	_, err := LoadSettings(path)
	assert.ErrorContains(t, err, "daily_max")
}
