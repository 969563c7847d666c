package analytics

import (
	"math"

	"github.com/montanaflynn/stats"

	"paddytrack/models"
)

// Season length model for paddy: stress is lowest when the analysed window
// matches the optimal season and grows linearly until the tolerance is used up.
const (
	OptimalSeasonDays   = 135
	SeasonToleranceDays = 60

	DefaultBaseRisk = 35.0 // percent, regions without a risk profile
	MaxRisk         = 80.0
	seasonRiskSpan  = 40.0
)

const (
	RiskHigh     = "High Stress"
	RiskModerate = "Moderate Stress"
	RiskLow      = "Low Stress"
)

// RiskTable resolves the base water-stress risk (percent) of a region.
type RiskTable interface {
	BaseRisk(regionID string) (float64, bool)
}

// StaticRiskBases is an in-memory RiskTable.
type StaticRiskBases map[string]float64

func (t StaticRiskBases) BaseRisk(regionID string) (float64, bool) {
	v, ok := t[regionID]
	return v, ok
}

// SeasonFactor is 1 for a season of OptimalSeasonDays and falls to 0 at
// SeasonToleranceDays away from it.
func SeasonFactor(days int) float64 {
	dev := math.Abs(float64(days - OptimalSeasonDays))
	return math.Max(0, 1-dev/SeasonToleranceDays)
}

// AssessHealth derives the crop stress level and the matching water
// recommendation from the season length and the region's base risk.
func AssessHealth(regionID string, ph models.Phenology, risks RiskTable) models.CropHealth {
	base := DefaultBaseRisk
	if risks != nil {
		if v, ok := risks.BaseRisk(regionID); ok {
			base = v
		}
	}
	f := SeasonFactor(ph.SeasonDays)
	risk, _ := stats.Round(math.Min(MaxRisk, base+(1-f)*seasonRiskSpan), 0)

	h := models.CropHealth{SeasonFactor: f, RiskLevel: int(risk)}
	switch {
	case f < 0.6:
		h.RiskValue = RiskHigh
		h.Recommendation = "Severe stress detected. Immediate water and nutrient assessment needed."
	case f < 0.85:
		h.RiskValue = RiskModerate
		h.Recommendation = "Monitor water levels closely. Consider supplemental irrigation."
	default:
		h.RiskValue = RiskLow
		h.Recommendation = "Optimal growth confirmed. Maintain current standing water."
	}
	return h
}
