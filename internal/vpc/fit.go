package vpc

import (
	"math"

	"github.com/louisbranch/atelier.studio/internal/block"
)

// Gap is a profile item not yet addressed by any value map link.
type Gap struct {
	Block ProfileBlockName `json:"block"`
	Item  block.Item       `json:"item"`
}

// FitReport summarizes how completely a value map addresses its profile.
type FitReport struct {
	Score     int   `json:"score"`
	Addressed int   `json:"addressed"`
	Total     int   `json:"total"`
	Gaps      []Gap `json:"gaps"`
}

// ComputeFit scores a value map against its customer profile. The score is
// addressed/total expressed as a percentage, clamped to [0,100] and rounded
// to the nearest integer. An empty profile scores zero.
func ComputeFit(profile *CustomerProfile, valueMap *ValueMap) FitReport {
	report := FitReport{Gaps: []Gap{}}
	if profile == nil {
		return report
	}

	addressed := make(map[string]bool)
	if valueMap != nil {
		for _, link := range valueMap.Links {
			if valueMap.HasItem(link.SourceID) && profile.HasItem(link.TargetID) {
				addressed[link.TargetID] = true
			}
		}
	}

	for _, name := range ProfileBlockNames {
		b := profile.Blocks[name]
		for _, item := range b.Items {
			report.Total++
			if addressed[item.ID] {
				report.Addressed++
				continue
			}
			report.Gaps = append(report.Gaps, Gap{Block: name, Item: item})
		}
	}

	if report.Total == 0 {
		return report
	}
	score := int(math.Round(float64(report.Addressed) / float64(report.Total) * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	report.Score = score
	return report
}
