package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ames-casefile/internal/strategy"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NilError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	assert.NilError(t, c.Validate())

	lp := c.DefaultLearning()
	assert.Equal(t, lp.InitPropensity, 6000.0)
	assert.Equal(t, lp.M1, 10)
	assert.Equal(t, lp.M3, 1)
	assert.Equal(t, lp.RIMinC, 1.0)
	assert.Equal(t, lp.RewardSelection, 1)

	sim := c.SimulationDefaults()
	assert.Equal(t, sim.MaxDay, 50)
	assert.Equal(t, sim.CapacityMargin, 0.10)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
learning:
  m1: 3
  ri_min_c: 0.2
simulation:
  max_day: 7
  capacity_margin_pct: 20
server:
  port: "9090"
  cache_ttl: 10m
`)
	c, err := Load(path)
	assert.NilError(t, err)

	assert.Equal(t, c.Learning.M1, 3)
	assert.Equal(t, c.Learning.M2, 10)
	assert.Equal(t, c.Learning.RIMinC, 0.2)
	assert.Equal(t, c.Learning.Cooling, 1000.0)

	sim := c.SimulationDefaults()
	assert.Equal(t, sim.MaxDay, 7)
	assert.Equal(t, sim.CapacityMargin, 0.2)
	assert.Equal(t, sim.RandomSeed, int64(695672061))

	assert.Equal(t, c.Server.Port, "9090")
	assert.Equal(t, c.Server.CacheTTL, 10*time.Minute)
	assert.DeepEqual(t, c.Server.AllowedOrigins, []string{"*"})
}

func TestLearningFileRelativeToConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "learning.yaml", `
learning:
  m1: 4
  m2: 5
  recency: 0.1
`)
	path := writeFile(t, dir, "config.yaml", `
learning_file: learning.yaml
learning:
  m2: 6
`)
	c, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, c.Learning.M1, 4)
	assert.Equal(t, c.Learning.M2, 6)
	assert.Equal(t, c.Learning.Recency, 0.1)
	assert.Equal(t, c.Learning.Experimentation, 0.96)
}

func TestValidateRejectsBadActionDomain(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
learning:
  ri_max_lower: 1.5
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, strategy.ErrParameterRange)

	c, err := LoadUnchecked(path)
	assert.NilError(t, err)
	assert.Equal(t, c.Learning.RIMaxLower, 1.5)
}

func TestValidateRejectsBadProbabilities(t *testing.T) {
	c := Default()
	c.Learning.Recency = 2
	assert.ErrorContains(t, c.Validate(), "recency")

	c = Default()
	c.Simulation.ThresholdProbability = 1.2
	assert.ErrorContains(t, c.Validate(), "threshold_probability")

	var nilCfg *Config
	assert.Assert(t, is.ErrorContains(nilCfg.Validate(), "nil"))
}

func TestMergeLearning(t *testing.T) {
	base := Default().Learning
	out := MergeLearning(base, LearningConfig{M3: 4, SlopeStart: 0.5})
	assert.Equal(t, out.M3, 4)
	assert.Equal(t, out.SlopeStart, 0.5)
	assert.Equal(t, out.M1, base.M1)
	assert.Equal(t, out.InitPropensity, base.InitPropensity)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Assert(t, os.IsNotExist(err))
}

func TestLoadExampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.yaml"))
	assert.NilError(t, err)

	assert.Equal(t, c.Learning.M1, 10)
	assert.Equal(t, c.Learning.M2, 5)
	assert.Equal(t, c.Learning.RIMinC, 1.0)
	assert.Equal(t, c.Server.CacheTTL, 30*time.Minute)
	assert.DeepEqual(t, c.Server.AllowedOrigins, []string{"http://localhost:5173"})

	sim := c.SimulationDefaults()
	assert.Equal(t, sim.MaxDay, 60)
	assert.Equal(t, sim.CapacityMargin, 0.15)
}
