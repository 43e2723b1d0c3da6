package strategy

import (
	"errors"
	"sync"
	"testing"

	"ames-casefile/internal/model"

	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/v3/assert"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestActionDomainSinglePoint(t *testing.T) {
	ad, err := NewActionDomain(ActionDomainParams{M1: 1, M2: 1, M3: 1, RIMaxL: 0.4, RIMaxU: 0.3, RIMinC: 0.2})
	assert.NilError(t, err)
	assert.DeepEqual(t, ad, []Action{{LowerRI: 0, UpperRI: 0, UpperRCap: 0.2}})
}

func TestActionDomainLowerAxis(t *testing.T) {
	ad, err := NewActionDomain(ActionDomainParams{M1: 2, M2: 1, M3: 1, RIMaxL: 0.4, RIMaxU: 0.3, RIMinC: 0.2})
	assert.NilError(t, err)
	assert.DeepEqual(t, ad, []Action{
		{LowerRI: 0, UpperRI: 0, UpperRCap: 0.2},
		{LowerRI: 0.4, UpperRI: 0, UpperRCap: 0.2},
	})
}

func TestActionDomainOrder(t *testing.T) {
	ad, err := NewActionDomain(ActionDomainParams{M1: 2, M2: 2, M3: 3, RIMaxL: 0.4, RIMaxU: 0.3, RIMinC: 0.2})
	assert.NilError(t, err)
	assert.Equal(t, len(ad), 12)

	want := []Action{
		{0, 0, 1.0}, {0, 0, 0.6}, {0, 0, 0.2},
		{0, 0.3, 1.0}, {0, 0.3, 0.6}, {0, 0.3, 0.2},
		{0.4, 0, 1.0}, {0.4, 0, 0.6}, {0.4, 0, 0.2},
		{0.4, 0.3, 1.0}, {0.4, 0.3, 0.6}, {0.4, 0.3, 0.2},
	}
	assert.DeepEqual(t, ad, want, approx)
}

func TestActionDomainBoundsAreInclusive(t *testing.T) {
	p := ActionDomainParams{M1: 5, M2: 4, M3: 6, RIMaxL: 0.75, RIMaxU: 0.5, RIMinC: 0.1}
	ad, err := NewActionDomain(p)
	assert.NilError(t, err)
	assert.Equal(t, len(ad), p.M1*p.M2*p.M3)

	first, last := ad[0], ad[len(ad)-1]
	assert.DeepEqual(t, first, Action{0, 0, 1}, approx)
	assert.DeepEqual(t, last, Action{0.75, 0.5, 0.1}, approx)
	for _, a := range ad {
		assert.Assert(t, a.LowerRI >= 0 && a.LowerRI <= p.RIMaxL+1e-12)
		assert.Assert(t, a.UpperRI >= 0 && a.UpperRI <= p.RIMaxU+1e-12)
		assert.Assert(t, a.UpperRCap >= p.RIMinC-1e-12 && a.UpperRCap <= 1+1e-12)
	}
}

func TestActionDomainZeroWidthRanges(t *testing.T) {
	ad, err := NewActionDomain(ActionDomainParams{M1: 3, M2: 1, M3: 4, RIMaxL: 0, RIMaxU: 0.3, RIMinC: 1})
	assert.NilError(t, err)
	assert.DeepEqual(t, ad, []Action{{0, 0, 1}})
}

func TestActionDomainParameterRange(t *testing.T) {
	base := ActionDomainParams{M1: 2, M2: 2, M3: 2, RIMaxL: 0.4, RIMaxU: 0.3, RIMinC: 0.2}
	cases := map[string]func(p *ActionDomainParams){
		"M1 zero":          func(p *ActionDomainParams) { p.M1 = 0 },
		"M2 negative":      func(p *ActionDomainParams) { p.M2 = -1 },
		"M3 zero":          func(p *ActionDomainParams) { p.M3 = 0 },
		"RIMaxL one":       func(p *ActionDomainParams) { p.RIMaxL = 1 },
		"RIMaxL negative":  func(p *ActionDomainParams) { p.RIMaxL = -0.1 },
		"RIMaxU too large": func(p *ActionDomainParams) { p.RIMaxU = 1.5 },
		"RIMinC zero":      func(p *ActionDomainParams) { p.RIMinC = 0 },
		"RIMinC above one": func(p *ActionDomainParams) { p.RIMinC = 1.01 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			ad, err := NewActionDomain(p)
			assert.Assert(t, errors.Is(err, ErrParameterRange))
			assert.Assert(t, ad == nil)
		})
	}
}

func TestActionDomainForLearning(t *testing.T) {
	lp := model.LearningParams{M1: 10, M2: 10, M3: 1, RIMaxLower: 0.75, RIMaxUpper: 0.75, RIMinC: 1}
	ad, err := ActionDomainFor(lp)
	assert.NilError(t, err)
	assert.Equal(t, len(ad), 100)
	assert.DeepEqual(t, ad[99], Action{0.75, 0.75, 1}, approx)
}

func TestActionDomainConcurrentCallers(t *testing.T) {
	p := ActionDomainParams{M1: 4, M2: 3, M3: 2, RIMaxL: 0.6, RIMaxU: 0.6, RIMinC: 0.5}
	want, err := NewActionDomain(p)
	assert.NilError(t, err)

	var wg sync.WaitGroup
	results := make([][]Action, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = NewActionDomain(p)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.DeepEqual(t, got, want)
	}
}
