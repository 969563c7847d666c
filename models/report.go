package models

import (
	"time"

	"github.com/google/uuid"
)

// ConfusionMatrix is the serialisable view of the label-pair counts.
// Counts[i][j] is the number of samples predicted as Categories[i] whose
// reference label is Categories[j].
type ConfusionMatrix struct {
	Categories []Category `json:"categories"`
	Counts     [][]int    `json:"counts"`
}

// CategoryScore holds per-category classification scores.
type CategoryScore struct {
	Category  Category `json:"category"`
	Precision float64  `json:"precision"`
	Recall    float64  `json:"recall"`
	F1        float64  `json:"f1"`
	Support   int      `json:"support"` // reference-label count
}

// MetricsResult holds classification quality derived from labeled samples.
type MetricsResult struct {
	Accuracy    float64         `json:"accuracy"` // 0..1
	Kappa       float64         `json:"kappa"`
	MacroF1     float64         `json:"macroF1"`
	Total       int             `json:"total"`
	Correct     int             `json:"correct"`
	PerCategory []CategoryScore `json:"perCategory"`
	Matrix      ConfusionMatrix `json:"confusionMatrix"`
}

// Score returns the per-category score for c.
func (m MetricsResult) Score(c Category) (CategoryScore, bool) {
	for _, s := range m.PerCategory {
		if s.Category == c {
			return s, true
		}
	}
	return CategoryScore{}, false
}

// TimeSeriesPoint is one aggregation bucket of vegetation-index samples.
type TimeSeriesPoint struct {
	BucketStart time.Time `json:"bucketStart"`
	MeanIndex   float64   `json:"meanNdvi"`
	SampleCount int       `json:"sampleCount"`
}

// Phenology summarises the NDVI curve of one season.
type Phenology struct {
	PeakIndex   float64   `json:"peakNdvi"`
	PeakAt      time.Time `json:"peakAt"`
	SeasonDays  int       `json:"seasonDays"`
	Stage       string    `json:"stage"`
	TrendPerDay float64   `json:"trendPerDay"` // least-squares NDVI slope
}

// CropHealth is the water-stress assessment of one season.
type CropHealth struct {
	SeasonFactor   float64 `json:"seasonFactor"`   // 1 at the optimal season length
	RiskLevel      int     `json:"riskLevel"`      // pest & disease risk, percent
	RiskValue      string  `json:"riskValue"`
	Recommendation string  `json:"recommendation"` // water management
}

// CategoryShare is one entry of a land-cover distribution.
type CategoryShare struct {
	Category   Category `json:"category"`
	Count      int      `json:"count"`
	Proportion float64  `json:"proportion"` // 0..1
}

// LandCoverDistribution holds category proportions summing to 1.
// Shares are ordered by descending count, then category name.
type LandCoverDistribution struct {
	Total  int             `json:"total"`
	Shares []CategoryShare `json:"shares"`
}

// Proportion returns the share of c, 0 when absent.
func (d LandCoverDistribution) Proportion(c Category) float64 {
	for _, s := range d.Shares {
		if s.Category == c {
			return s.Proportion
		}
	}
	return 0
}

// BaselineStatus marks whether a regional comparison was possible.
type BaselineStatus string

const (
	BaselineAvailable   BaselineStatus = "available"
	BaselineUnavailable BaselineStatus = "no baseline available"
)

// YieldEstimate is the modelled yield for a region with optional regional comparison.
type YieldEstimate struct {
	RegionID       string         `json:"regionId"`
	Estimate       float64        `json:"estimate"`
	Unit           string         `json:"unit"` // default "t/ha"
	RangeLow       float64        `json:"rangeLow"`
	RangeHigh      float64        `json:"rangeHigh"`
	Baseline       *float64       `json:"baseline"` // null when unknown
	BaselineStatus BaselineStatus `json:"baselineStatus"`
	DeviationPct   *float64       `json:"deviationPct,omitempty"`
	MeanIndex      float64        `json:"meanNdvi"`
	CropShare      float64        `json:"cropShare"`
	Model          string         `json:"model"`
}

// Report is the single artifact handed to the presentation layer and to
// download renderers. Field names are a stable schema.
type Report struct {
	ID              uuid.UUID             `json:"id"`
	GeneratedAt     time.Time             `json:"generatedAt"`
	Region          Region                `json:"region"`
	Window          TimeWindow            `json:"window"`
	ClassifierModel string                `json:"classifierModel,omitempty"`
	Metrics         MetricsResult         `json:"metrics"`
	NDVI            []TimeSeriesPoint     `json:"ndvi"`
	Phenology       Phenology             `json:"phenology"`
	Health          CropHealth            `json:"health"`
	LandCover       LandCoverDistribution `json:"landCover"`
	Yield           YieldEstimate         `json:"yield"`
}
