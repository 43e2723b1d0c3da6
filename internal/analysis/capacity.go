package analysis

import (
	"ames-casefile/internal/model"

	"gonum.org/v1/gonum/floats"
)

// ZoneCapacity is a zone-level supply/demand summary you can use for ranking.
// Demand is the fixed demand of the LSEs located in the zone.
type ZoneCapacity struct {
	Zone  string `json:"zone"`
	Index int    `json:"index"`

	Generators int `json:"generators"`
	Canaries   int `json:"canaries"`

	CapL float64 `json:"cap_l"`
	CapU float64 `json:"cap_u"`

	LSEs       int     `json:"lses"`
	PeakDemand float64 `json:"peak_demand"`
	MeanDemand float64 `json:"mean_demand"`

	// Headroom is CapU minus PeakDemand. Negative means the zone imports at peak.
	Headroom float64 `json:"headroom"`
}

// SummarizeZones returns one entry per zone, in zone index order.
func SummarizeZones(c *model.CaseData) []ZoneCapacity {
	names := c.Zones.Names()
	out := make([]ZoneCapacity, len(names))
	hourly := make([][]float64, len(names))
	pos := make(map[int]int, len(names))
	for i, name := range names {
		idx, _ := c.Zones.Get(name)
		out[i] = ZoneCapacity{Zone: name, Index: idx}
		hourly[i] = make([]float64, model.HoursPerDay)
		pos[idx] = i
	}

	for _, g := range c.Generators {
		i, ok := pos[g.AtBus]
		if !ok {
			continue
		}
		out[i].Generators++
		out[i].CapL += g.CapL
		out[i].CapU += g.CapU
		if g.IsCanary {
			out[i].Canaries++
		}
	}
	for _, l := range c.LSE {
		i, ok := pos[l.AtBus]
		if !ok {
			continue
		}
		out[i].LSEs++
		floats.Add(hourly[i], l.Demand[:])
	}
	for i := range out {
		out[i].PeakDemand = floats.Max(hourly[i])
		out[i].MeanDemand = floats.Sum(hourly[i]) / model.HoursPerDay
		out[i].Headroom = out[i].CapU - out[i].PeakDemand
	}
	return out
}

// Adequacy compares installed capacity with the system fixed demand peak
// raised by the capacity margin.
type Adequacy struct {
	TotalCapU      float64 `json:"total_cap_u"`
	PeakDemand     float64 `json:"peak_demand"`
	PeakHour       int     `json:"peak_hour"`
	CapacityMargin float64 `json:"capacity_margin"`
	Required       float64 `json:"required"`
	Reserve        float64 `json:"reserve_requirements"`
	Surplus        float64 `json:"surplus"`
	Adequate       bool    `json:"adequate"`
}

func CheckAdequacy(c *model.CaseData) Adequacy {
	caps := make([]float64, len(c.Generators))
	for i, g := range c.Generators {
		caps[i] = g.CapU
	}
	system := make([]float64, model.HoursPerDay)
	for _, l := range c.LSE {
		floats.Add(system, l.Demand[:])
	}

	a := Adequacy{
		TotalCapU:      floats.Sum(caps),
		PeakHour:       floats.MaxIdx(system) + 1,
		CapacityMargin: c.CapacityMargin,
		Reserve:        c.ReserveRequirements,
	}
	a.PeakDemand = system[a.PeakHour-1]
	a.Required = a.PeakDemand * (1 + a.CapacityMargin)
	a.Surplus = a.TotalCapU - a.Required
	a.Adequate = a.Surplus >= 0
	return a
}
