package analytics

import (
	"fmt"
	"math"

	"paddytrack/models"
)

// BaselineTable resolves historical yield per region.
type BaselineTable interface {
	Lookup(regionID string) (float64, bool)
}

// StaticBaselines is an in-memory BaselineTable.
type StaticBaselines map[string]float64

func (b StaticBaselines) Lookup(regionID string) (float64, bool) {
	v, ok := b[regionID]
	return v, ok
}

// FallbackBaselines answers every lookup Table misses with Value. It is used
// for custom drawn areas, which have no historical record of their own.
type FallbackBaselines struct {
	Table BaselineTable // may be nil
	Value float64
}

func (f FallbackBaselines) Lookup(regionID string) (float64, bool) {
	if f.Table != nil {
		if v, ok := f.Table.Lookup(regionID); ok {
			return v, true
		}
	}
	return f.Value, true
}

// YieldModel maps window-level summaries to a yield value.
type YieldModel interface {
	Estimate(meanIndex, cropShare float64) float64
	Unit() string
	Name() string
}

// LinearYieldModel: yield = Intercept + IndexCoef*meanNDVI + CropShareCoef*cropShare,
// floored at zero.
type LinearYieldModel struct {
	Intercept     float64
	IndexCoef     float64
	CropShareCoef float64
	YieldUnit     string
}

// DefaultYieldModel is calibrated for paddy in t/ha: a healthy season
// (mean NDVI ≈ 0.6, 60% paddy cover) lands around 5.4 t/ha.
var DefaultYieldModel = LinearYieldModel{
	Intercept:     1.2,
	IndexCoef:     5.5,
	CropShareCoef: 1.5,
	YieldUnit:     "t/ha",
}

func (m LinearYieldModel) Estimate(meanIndex, cropShare float64) float64 {
	return math.Max(0, m.Intercept+m.IndexCoef*meanIndex+m.CropShareCoef*cropShare)
}

func (m LinearYieldModel) Unit() string {
	if m.YieldUnit == "" {
		return "t/ha"
	}
	return m.YieldUnit
}

func (m LinearYieldModel) Name() string {
	return fmt.Sprintf("linear(%.2f + %.2f*ndvi + %.2f*crop)", m.Intercept, m.IndexCoef, m.CropShareCoef)
}

// DefaultCropCategory is the land-cover class treated as the crop of interest.
const DefaultCropCategory models.Category = "paddy"

// YieldRangeFraction is the half-width of the reported yield range.
const YieldRangeFraction = 0.10

// YieldInput bundles what the estimator needs for one region.
type YieldInput struct {
	RegionID     string
	LandCover    models.LandCoverDistribution
	Series       []models.TimeSeriesPoint
	Baselines    BaselineTable   // nil means no table
	Model        YieldModel      // nil means DefaultYieldModel
	CropCategory models.Category // empty means DefaultCropCategory
}

// EstimateYield applies the yield model to the window mean NDVI and crop
// share. A region missing from the baseline table is reported through
// BaselineStatus, not as an error.
func EstimateYield(in YieldInput) (models.YieldEstimate, error) {
	meanIndex, err := MeanIndex(in.Series)
	if err != nil {
		return models.YieldEstimate{}, &InsufficientDataError{Op: SectionYield, Reason: "no vegetation-index series"}
	}
	model := in.Model
	if model == nil {
		model = DefaultYieldModel
	}
	crop := in.CropCategory
	if crop == "" {
		crop = DefaultCropCategory
	}
	cropShare := in.LandCover.Proportion(crop)

	est := model.Estimate(meanIndex, cropShare)
	out := models.YieldEstimate{
		RegionID:       in.RegionID,
		Estimate:       est,
		Unit:           model.Unit(),
		RangeLow:       est * (1 - YieldRangeFraction),
		RangeHigh:      est * (1 + YieldRangeFraction),
		BaselineStatus: models.BaselineUnavailable,
		MeanIndex:      meanIndex,
		CropShare:      cropShare,
		Model:          model.Name(),
	}

	if in.Baselines == nil {
		return out, nil
	}
	if base, ok := in.Baselines.Lookup(in.RegionID); ok {
		out.Baseline = &base
		out.BaselineStatus = models.BaselineAvailable
		if base != 0 {
			dev := (est - base) / base * 100
			out.DeviationPct = &dev
		}
	}
	return out, nil
}
