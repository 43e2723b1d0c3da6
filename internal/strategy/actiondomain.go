package strategy

import (
	"errors"
	"fmt"

	"ames-casefile/internal/model"

	"gonum.org/v1/gonum/floats"
)

// ErrParameterRange is returned when a resolution count or bound is outside
// its legal range.
var ErrParameterRange = errors.New("incorrect parameter ranges: M1, M2, M3, RIMaxL, RIMaxU, RIMinC")

// Action is one point of a generator's action domain.
// - LowerRI: lower range index, [0, RIMaxL]
// - UpperRI: upper range index, [0, RIMaxU]
// - UpperRCap: upper relative capacity, [RIMinC, 1]
type Action struct {
	LowerRI   float64 `json:"lower_ri"`
	UpperRI   float64 `json:"upper_ri"`
	UpperRCap float64 `json:"upper_rcap"`
}

// ActionDomainParams are the six inputs of the action domain.
type ActionDomainParams struct {
	M1     int
	M2     int
	M3     int
	RIMaxL float64
	RIMaxU float64
	RIMinC float64
}

func ParamsFromLearning(p model.LearningParams) ActionDomainParams {
	return ActionDomainParams{
		M1:     p.M1,
		M2:     p.M2,
		M3:     p.M3,
		RIMaxL: p.RIMaxLower,
		RIMaxU: p.RIMaxUpper,
		RIMinC: p.RIMinC,
	}
}

func (p ActionDomainParams) Validate() error {
	if p.M1 < 1 || p.M2 < 1 || p.M3 < 1 {
		return fmt.Errorf("%w: M1=%d M2=%d M3=%d must be >= 1", ErrParameterRange, p.M1, p.M2, p.M3)
	}
	if p.RIMaxL < 0 || p.RIMaxL >= 1 {
		return fmt.Errorf("%w: RIMaxL=%g must be in [0,1)", ErrParameterRange, p.RIMaxL)
	}
	if p.RIMaxU < 0 || p.RIMaxU >= 1 {
		return fmt.Errorf("%w: RIMaxU=%g must be in [0,1)", ErrParameterRange, p.RIMaxU)
	}
	if p.RIMinC <= 0 || p.RIMinC > 1 {
		return fmt.Errorf("%w: RIMinC=%g must be in (0,1]", ErrParameterRange, p.RIMinC)
	}
	return nil
}

// NewActionDomain enumerates the M1*M2*M3 grid. LowerRI varies slowest and
// UpperRCap fastest; UpperRCap runs from 1 down to RIMinC.
func NewActionDomain(p ActionDomainParams) ([]Action, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	lower := axis(p.M1, 0, p.RIMaxL)
	upper := axis(p.M2, 0, p.RIMaxU)

	// Capacity offsets count down from 1-RIMinC to 0 and are shifted back
	// into [RIMinC, 1]. A single step keeps only the minimum.
	var caps []float64
	if p.M3 == 1 {
		caps = []float64{p.RIMinC}
	} else {
		caps = axis(p.M3, 0, 1-p.RIMinC)
		floats.Reverse(caps)
		floats.AddConst(p.RIMinC, caps)
	}

	ad := make([]Action, 0, len(lower)*len(upper)*len(caps))
	for _, l := range lower {
		for _, u := range upper {
			for _, c := range caps {
				ad = append(ad, Action{LowerRI: l, UpperRI: u, UpperRCap: c})
			}
		}
	}
	return ad, nil
}

// ActionDomainFor builds the action domain described by a learning vector.
func ActionDomainFor(p model.LearningParams) ([]Action, error) {
	return NewActionDomain(ParamsFromLearning(p))
}

// axis returns m evenly spaced values from lo to hi inclusive. One step, or
// an empty range, yields just lo.
func axis(m int, lo, hi float64) []float64 {
	if m == 1 || lo == hi {
		return []float64{lo}
	}
	return floats.Span(make([]float64, m), lo, hi)
}
