package analytics

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"paddytrack/models"
)

// ReportParts carries each section's outcome into AssembleReport.
type ReportParts struct {
	Region          models.Region
	Window          models.TimeWindow
	ClassifierModel string

	Metrics    models.MetricsResult
	MetricsErr error

	Series    []models.TimeSeriesPoint
	Phenology models.Phenology
	Health    models.CropHealth
	NDVIErr   error

	LandCover    models.LandCoverDistribution
	LandCoverErr error

	Yield    models.YieldEstimate
	YieldErr error

	Now func() time.Time // defaults to time.Now
}

// AssembleReport shapes the section results into a Report. Any failed
// section aborts assembly with an *AssemblyError naming every failure.
func AssembleReport(p ReportParts) (*models.Report, error) {
	var failed []SectionError
	for _, s := range []SectionError{
		{SectionMetrics, p.MetricsErr},
		{SectionNDVI, p.NDVIErr},
		{SectionLandCover, p.LandCoverErr},
		{SectionYield, p.YieldErr},
	} {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	if len(failed) > 0 {
		return nil, &AssemblyError{Failed: failed}
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	region := p.Region
	if region.Name == "" {
		region.Name = displayName(region.ID)
	}

	return &models.Report{
		ID:              uuid.New(),
		GeneratedAt:     now().UTC(),
		Region:          region,
		Window:          p.Window,
		ClassifierModel: p.ClassifierModel,
		Metrics:         p.Metrics,
		NDVI:            p.Series,
		Phenology:       p.Phenology,
		Health:          p.Health,
		LandCover:       p.LandCover,
		Yield:           p.Yield,
	}, nil
}

// displayName turns "west_bengal" into "West Bengal".
func displayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '_' || r == '-' })
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(words, " "))
}
