package model

import (
	"errors"
	"fmt"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

type stubDefaults struct{ p LearningParams }

func (s stubDefaults) DefaultLearning() LearningParams { return s.p }

var testLearning = LearningParams{
	InitPropensity: 6000, Cooling: 1000, Recency: 0.04, Experimentation: 0.96,
	M1: 10, M2: 10, M3: 1, RIMaxLower: 0.75, RIMaxUpper: 0.75, RIMinC: 1,
	SlopeStart: 0.001, RewardSelection: 1,
}

func newTestCase(t *testing.T, gens ...string) *CaseData {
	t.Helper()
	c := NewCaseData(DefaultSimulation())
	assert.NilError(t, c.Zones.Put("Z1", 1))
	assert.NilError(t, c.Zones.Put("Z2", 2))
	for i, name := range gens {
		g, err := NewGenData(name, i+1, 1, 0, 10, 0.01, 5, float64(100*(i+1)), 1000)
		assert.NilError(t, err)
		c.Generators = append(c.Generators, *g)
	}
	return c
}

func collectWarnings(out *[]string) WarnFunc {
	return func(format string, args ...any) {
		*out = append(*out, fmt.Sprintf(format, args...))
	}
}

func TestFinishStageOrder(t *testing.T) {
	var names []string
	for _, st := range (Finisher{}).Stages() {
		names = append(names, st.Name)
	}
	assert.DeepEqual(t, names, []string{
		"ensure-learning-data",
		"mark-canary-generators",
		"ensure-scuc-data",
		"check-no-load-names",
		"check-hybrid-demand-sources",
		"ensure-lse-data",
		"ensure-price-sensitive-demand",
	})
}

func TestFinishFillsLearningAndSCUC(t *testing.T) {
	c := newTestCase(t, "G1", "G2", "G3")
	c.PutSCUC("G2", SCUCInput{PowerT0: 42, MinUpTime: 3})

	assert.NilError(t, Finisher{Defaults: stubDefaults{testLearning}}.Run(c))

	assert.Equal(t, len(c.Learning), 3)
	for _, g := range c.Generators {
		lp, err := c.LearningFor(g.Name)
		assert.NilError(t, err)
		assert.DeepEqual(t, lp, testLearning)
	}

	scuc := c.SCUCData()
	assert.Equal(t, len(scuc), 3)
	assert.DeepEqual(t, scuc["G2"], SCUCInput{PowerT0: 42, MinUpTime: 3})
	for _, name := range []string{"G1", "G3"} {
		g, _ := c.Generator(name)
		in := scuc[name]
		assert.Equal(t, in.PowerT0, g.CapU)
		assert.Equal(t, in.UnitOnT0, 1)
		assert.Equal(t, in.Schedule1, 1)
		assert.Equal(t, in.Schedule2, 1)
	}
}

func TestFinishNeedsDefaultsProvider(t *testing.T) {
	c := newTestCase(t, "G1")
	err := Finisher{}.Run(c)
	assert.Assert(t, errors.Is(err, ErrNoLearningDefaults))
	assert.ErrorContains(t, err, "ensure-learning-data")

	c.HasLearningData = true
	c.Learning = []LearningParams{testLearning}
	assert.NilError(t, Finisher{}.Run(c))
}

func TestMarkCanaryGenerators(t *testing.T) {
	c := newTestCase(t, "G1", "G2", "G3", "g2")
	c.AlertGenerators = []string{"G2", "G3", "G9"}

	var warnings []string
	c.MarkCanaryGenerators(collectWarnings(&warnings))

	for _, g := range c.Generators {
		want := g.Name == "G2" || g.Name == "G3"
		assert.Equal(t, g.IsCanary, want, g.Name)
	}
	assert.DeepEqual(t, warnings, []string{"AlertGen G9 Not Found"})
}

func TestCheckNoLoadNames(t *testing.T) {
	c := newTestCase(t, "G1")
	c.PutGenCost("G1", GenCost{NoLoad: 1})
	assert.Equal(t, c.CheckNoLoadNames(), "")

	c.PutGenCost("Zed", GenCost{})
	c.PutGenCost("Abe", GenCost{})
	assert.Equal(t, c.CheckNoLoadNames(), "Abe\nZed\n")

	err := Finisher{Defaults: stubDefaults{testLearning}}.Run(c)
	assert.Assert(t, errors.Is(err, ErrUnknownNoLoadNames))
	assert.ErrorContains(t, err, "Zed")
}

func TestHybridFlagsForcedForLoadCase(t *testing.T) {
	c := newTestCase(t, "G1")
	c.Hybrid = []HybridDemand{{Name: "L1", ID: 1, AtBus: 1}}
	c.Hybrid[0].Flags[4] = 1

	var warnings []string
	c.CheckHybridDemandSources(collectWarnings(&warnings))
	assert.Equal(t, c.Hybrid[0].Flags[0], 0)
	assert.Equal(t, len(warnings), 0)

	c.LSEDemandSource = DemandFromLoadCase
	c.CheckHybridDemandSources(collectWarnings(&warnings))
	for _, f := range c.Hybrid[0].Flags {
		assert.Equal(t, f, 1)
	}
	assert.Equal(t, len(warnings), HoursPerDay-1)
	assert.Assert(t, is.Contains(warnings[0], "L1 hour 1"))
}

func TestLoadCaseDemandSynthesis(t *testing.T) {
	c := newTestCase(t, "G1")
	c.LSEDemandSource = DemandFromLoadCase
	assert.NilError(t, Finisher{Defaults: stubDefaults{testLearning}}.Run(c))

	assert.Equal(t, c.NumLSE, 2)
	assert.DeepEqual(t, c.LSE, []LSEData{
		{Name: "LSE1", ID: 1, AtBus: 1},
		{Name: "LSE2", ID: 2, AtBus: 2},
	})
	for s := range c.LSESections {
		assert.Equal(t, len(c.LSESections[s]), 2)
	}
	assert.Equal(t, len(c.PriceSensitive), 2)
	for l, lse := range c.LSE {
		for h, row := range c.PriceSensitive[l] {
			assert.DeepEqual(t, row, PriceSensitiveHour{Name: lse.Name, ID: lse.ID, AtBus: lse.AtBus, Hour: h})
		}
	}
}

func TestTestCaseDemandIsLeftAlone(t *testing.T) {
	c := newTestCase(t, "G1")
	assert.NilError(t, Finisher{Defaults: stubDefaults{testLearning}}.Run(c))
	assert.Assert(t, c.LSE == nil)
	assert.Assert(t, c.PriceSensitive == nil)
	assert.Equal(t, c.NumLSE, 0)
}

func TestPriceSensitiveDefaultsNeedFixedDemand(t *testing.T) {
	c := newTestCase(t, "G1")
	c.LSEDemandSource = DemandFromLoadCase

	err := c.EnsurePriceSensitiveDemand()
	assert.Assert(t, errors.Is(err, ErrStageOrder))
	assert.Assert(t, c.PriceSensitive == nil)

	c.EnsureLSEData()
	assert.NilError(t, c.EnsurePriceSensitiveDemand())
	assert.Equal(t, len(c.PriceSensitive), 2)
}

func TestFinishIsIdempotent(t *testing.T) {
	c := newTestCase(t, "G1", "G2")
	c.LSEDemandSource = DemandFromLoadCase
	c.AlertGenerators = []string{"G1"}
	f := Finisher{Defaults: stubDefaults{testLearning}}
	assert.NilError(t, f.Run(c))

	learning := append([]LearningParams(nil), c.Learning...)
	gens := append([]GenData(nil), c.Generators...)
	scuc := c.SCUCData()
	lse := append([]LSEData(nil), c.LSE...)
	ps := append([]PriceSensitiveDemand(nil), c.PriceSensitive...)

	other := LearningParams{M1: 1, M2: 1, M3: 1, RIMinC: 0.5}
	assert.NilError(t, Finisher{Defaults: stubDefaults{other}}.Run(c))

	assert.DeepEqual(t, c.Learning, learning)
	assert.DeepEqual(t, c.Generators, gens)
	assert.DeepEqual(t, c.SCUCData(), scuc)
	assert.DeepEqual(t, c.LSE, lse)
	assert.DeepEqual(t, c.PriceSensitive, ps)
}

func TestCostLookupsOnUnknownName(t *testing.T) {
	c := newTestCase(t, "G1")
	c.PutGenCost("G1", GenCost{NoLoad: 1, ColdStartUp: 2, HotStartUp: 3, ShutDown: 4})
	c.PutFuelType("G1", "Gas")

	v, err := c.HotStartUpCost("G1")
	assert.NilError(t, err)
	assert.Equal(t, v, 3.0)
	assert.Assert(t, c.HasNoLoadCost("G1"))
	assert.Assert(t, c.HasFuelType("G1"))

	for _, lookup := range []func(string) (float64, error){
		c.NoLoadCost, c.ColdStartUpCost, c.HotStartUpCost, c.ShutDownCost,
	} {
		_, err := lookup("G7")
		assert.Assert(t, errors.Is(err, ErrUnknownGenerator))
	}
	_, err = c.FuelType("G7")
	assert.Assert(t, errors.Is(err, ErrUnknownGenerator))
	_, err = c.SCUC("G7")
	assert.Assert(t, errors.Is(err, ErrUnknownGenerator))
	_, err = c.LearningFor("G7")
	assert.Assert(t, errors.Is(err, ErrUnknownGenerator))
}

func TestLearningVectorOrder(t *testing.T) {
	v := testLearning.Vector()
	assert.Equal(t, len(v), LearningFields)
	back, err := LearningFromVector(v)
	assert.NilError(t, err)
	assert.DeepEqual(t, back, testLearning)

	_, err = LearningFromVector(v[:11])
	assert.ErrorContains(t, err, "expected 12")
}

func TestNewGenDataValidates(t *testing.T) {
	_, err := NewGenData("G1", 1, 1, 0, 10, 0.01, 200, 100, 0)
	assert.ErrorContains(t, err, "exceeds CapU")
	_, err = NewGenData("", 1, 1, 0, 10, 0.01, 0, 100, 0)
	assert.ErrorContains(t, err, "name is required")
}
