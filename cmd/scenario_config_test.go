package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
population: 1000
recovery_time: 10.0
seed: 42
forecast: 5
data: [1, 2, 4, 8, 5, 3, 2, 1, 0, 0]
`)
	cfg, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Population)
	assert.Equal(t, 10.0, cfg.RecoveryTime)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 5, cfg.Forecast)
	assert.Len(t, cfg.Data, 10)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	path := writeScenario(t, "population: [not a number")
	_, err := LoadScenario(path)
	assert.Error(t, err)
}

func TestScenarioConfig_Validate(t *testing.T) {
	valid := ScenarioConfig{Population: 100, RecoveryTime: 5, Data: []float64{1, 2}}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*ScenarioConfig)
	}{
		{"zero population", func(c *ScenarioConfig) { c.Population = 0 }},
		{"zero recovery time", func(c *ScenarioConfig) { c.RecoveryTime = 0 }},
		{"empty data", func(c *ScenarioConfig) { c.Data = nil }},
		{"negative count", func(c *ScenarioConfig) { c.Data = []float64{1, -1} }},
		{"negative forecast", func(c *ScenarioConfig) { c.Forecast = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			cfg.Data = append([]float64(nil), valid.Data...)
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseCounts_CommaSeparated(t *testing.T) {
	counts := parseCounts(" 1, 2,4 ,8 ")
	assert.Equal(t, []float64{1, 2, 4, 8}, counts)
	assert.Nil(t, parseCounts("  "))
}
