package analysis

import (
	"sort"

	"ames-casefile/internal/model"
)

type RankedZone struct {
	Rank int `json:"rank"`
	ZoneCapacity
}

// RankByHeadroom summarizes zones and sorts descending by Headroom. Ties keep
// zone index order.
func RankByHeadroom(c *model.CaseData) []RankedZone {
	zones := SummarizeZones(c)
	sort.SliceStable(zones, func(i, j int) bool {
		return zones[i].Headroom > zones[j].Headroom
	})
	out := make([]RankedZone, len(zones))
	for i, z := range zones {
		out[i] = RankedZone{Rank: i + 1, ZoneCapacity: z}
	}
	return out
}
