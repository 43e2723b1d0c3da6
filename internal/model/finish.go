package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownNoLoadNames = errors.New("unknown gencos with no load costs")
	ErrNoLearningDefaults = errors.New("no learning defaults provider")
	// ErrStageOrder means a stage ran before a stage it depends on.
	ErrStageOrder = errors.New("finishing stage ran out of order")
)

// WarnFunc reports a non-fatal problem.
type WarnFunc func(format string, args ...any)

// FinishStage is one named step of the finishing pipeline.
type FinishStage struct {
	Name string
	Run  func(c *CaseData) error
}

// Finisher runs the cross-table defaulting and validation that can only
// happen once every section has been read.
type Finisher struct {
	Defaults LearningDefaults
	Warn     WarnFunc
}

// Stages lists the pipeline in execution order. Later stages rely on the
// earlier ones: the price-sensitive defaults are built from the fixed demand
// table that ensure-lse-data may have just synthesized.
func (f Finisher) Stages() []FinishStage {
	warn := f.Warn
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return []FinishStage{
		{"ensure-learning-data", func(c *CaseData) error { return c.EnsureLearningData(f.Defaults) }},
		{"mark-canary-generators", func(c *CaseData) error { c.MarkCanaryGenerators(warn); return nil }},
		{"ensure-scuc-data", func(c *CaseData) error { c.EnsureSCUCData(); return nil }},
		{"check-no-load-names", func(c *CaseData) error {
			if report := c.CheckNoLoadNames(); report != "" {
				return fmt.Errorf("%w\n%s", ErrUnknownNoLoadNames, report)
			}
			return nil
		}},
		{"check-hybrid-demand-sources", func(c *CaseData) error { c.CheckHybridDemandSources(warn); return nil }},
		{"ensure-lse-data", func(c *CaseData) error { c.EnsureLSEData(); return nil }},
		{"ensure-price-sensitive-demand", func(c *CaseData) error { return c.EnsurePriceSensitiveDemand() }},
	}
}

// Run executes every stage in order and stops at the first failure. Running
// it again on a finished case changes nothing.
func (f Finisher) Run(c *CaseData) error {
	for _, st := range f.Stages() {
		if err := st.Run(c); err != nil {
			return fmt.Errorf("%s: %w", st.Name, err)
		}
	}
	return nil
}

// EnsureLearningData gives every generator the default learning vector when
// the case had no learning section.
func (c *CaseData) EnsureLearningData(defaults LearningDefaults) error {
	if c.HasLearningData || c.learningDefaulted {
		return nil
	}
	if defaults == nil {
		return ErrNoLearningDefaults
	}
	def := defaults.DefaultLearning()
	c.Learning = make([]LearningParams, len(c.Generators))
	for i := range c.Learning {
		c.Learning[i] = def
	}
	c.learningDefaulted = true
	return nil
}

// MarkCanaryGenerators flags each generator named in the alert list. Names are
// matched exactly; a name with no generator is only a warning.
func (c *CaseData) MarkCanaryGenerators(warn WarnFunc) {
	for _, name := range c.AlertGenerators {
		g, ok := c.Generator(name)
		if !ok {
			warn("AlertGen %s Not Found", name)
			continue
		}
		g.IsCanary = true
	}
}

// EnsureSCUCData synthesizes commitment inputs for generators without any.
func (c *CaseData) EnsureSCUCData() {
	for _, g := range c.Generators {
		if _, ok := c.scuc[g.Name]; !ok {
			c.scuc[g.Name] = DefaultSCUCInput(g)
		}
	}
}

// CheckNoLoadNames returns one line per cost-table name that is not a
// generator, or "" when every name is known.
func (c *CaseData) CheckNoLoadNames() string {
	var sb strings.Builder
	for _, name := range sortedKeys(c.costs) {
		if _, ok := c.Generator(name); !ok {
			sb.WriteString(name)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// CheckHybridDemandSources forces every hybrid flag to 1 when demand comes
// from the load case.
func (c *CaseData) CheckHybridDemandSources(warn WarnFunc) {
	if c.LSEDemandSource != DemandFromLoadCase {
		return
	}
	for i := range c.Hybrid {
		h := &c.Hybrid[i]
		for hour, flag := range h.Flags {
			if flag == 1 {
				continue
			}
			warn("LSEDemandSource is LoadCase. Expected %s hour %d demand flag to be 1. Found %d. Setting flag to 1",
				h.Name, hour+1, flag)
			h.Flags[hour] = 1
		}
	}
}

// EnsureLSEData builds a zero fixed demand table, one LSE per zone, when
// demand comes from the load case and the case had no fixed demand section.
func (c *CaseData) EnsureLSEData() {
	if c.LSEDemandSource == DemandFromTestCase || c.LSE != nil {
		return
	}
	n := c.Zones.NumZones()
	c.LSE = make([]LSEData, n)
	for s := range c.LSESections {
		c.LSESections[s] = make([]LSESection, n)
	}
	for z := 0; z < n; z++ {
		name := fmt.Sprintf("LSE%d", z+1)
		c.LSE[z] = LSEData{Name: name, ID: z + 1, AtBus: z + 1}
		for s := range c.LSESections {
			c.LSESections[s][z] = LSESection{Name: name, ID: z + 1, AtBus: z + 1}
		}
	}
	c.NumLSE = n
}

// EnsurePriceSensitiveDemand builds zero price-sensitive demand from the
// fixed demand table. It must run after EnsureLSEData.
func (c *CaseData) EnsurePriceSensitiveDemand() error {
	if c.LSEDemandSource == DemandFromTestCase || c.PriceSensitive != nil {
		return nil
	}
	if c.LSE == nil {
		return fmt.Errorf("%w: price-sensitive demand needs the fixed demand table", ErrStageOrder)
	}
	c.PriceSensitive = make([]PriceSensitiveDemand, len(c.LSE))
	for l, lse := range c.LSE {
		for h := 0; h < HoursPerDay; h++ {
			c.PriceSensitive[l][h] = PriceSensitiveHour{
				Name:  lse.Name,
				ID:    lse.ID,
				AtBus: lse.AtBus,
				Hour:  h,
			}
		}
	}
	c.NumLSE = len(c.LSE)
	return nil
}
