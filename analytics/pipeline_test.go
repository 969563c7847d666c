package analytics

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddytrack/models"
)

func seasonSamples() []models.Sample {
	var out []models.Sample
	for week := 0; week < 8; week++ {
		ts := day0.AddDate(0, 0, 7*week)
		v := 0.3 + 0.05*float64(week)
		out = append(out,
			models.Sample{RegionID: "punjab", Timestamp: ts, Predicted: "paddy", Reference: cat("paddy"), Index: ndvi(v)},
			models.Sample{RegionID: "punjab", Timestamp: ts, Predicted: "paddy", Reference: cat("fallow"), Index: ndvi(v - 0.1)},
			models.Sample{RegionID: "punjab", Timestamp: ts, Predicted: "water", Reference: cat("water")},
			models.Sample{RegionID: "punjab", Timestamp: ts, Predicted: "fallow", Index: ndvi(0.15)},
		)
	}
	return out
}

func TestRun_AssemblesAllSections(t *testing.T) {
	window := models.TimeWindow{Start: day0, End: day0.AddDate(0, 0, 120)}

	rep, err := Run(context.Background(), Request{
		Region:          models.Region{ID: "punjab"},
		Window:          window,
		Samples:         seasonSamples(),
		ClassifierModel: "random_forest",
		Bucket:          BucketRule{Unit: BucketWeek},
		Baselines:       StaticBaselines{"punjab": 6.8},
		RiskBases:       StaticRiskBases{"punjab": 15},
		ExtraCategories: []models.Category{DefaultCropCategory},
	})
	require.NoError(t, err)
	require.NotNil(t, rep)

	assert.Equal(t, "Punjab", rep.Region.Name)
	assert.Equal(t, "random_forest", rep.ClassifierModel)
	assert.Equal(t, 24, rep.Metrics.Total)
	assert.InDelta(t, 16.0/24.0, rep.Metrics.Accuracy, 1e-12)
	assert.Len(t, rep.NDVI, 8)
	assert.Equal(t, StageLate, rep.Phenology.Stage)
	assert.Greater(t, rep.Phenology.TrendPerDay, 0.0)
	assert.InDelta(t, 0.5, rep.LandCover.Proportion("paddy"), 1e-12)
	assert.InDelta(t, 0.5, rep.Yield.CropShare, 1e-12)
	require.NotNil(t, rep.Yield.Baseline)
	assert.Equal(t, models.BaselineAvailable, rep.Yield.BaselineStatus)
	assert.Equal(t, 25, rep.Health.RiskLevel)
	assert.Equal(t, RiskModerate, rep.Health.RiskValue)
	assert.NotEqual(t, uuid.Nil, rep.ID)
	assert.False(t, rep.GeneratedAt.IsZero())
}

func TestRun_UnlabeledSamplesAbortWithMetricsSection(t *testing.T) {
	var samples []models.Sample
	for i := 0; i < 5; i++ {
		samples = append(samples, indexAt(day0.AddDate(0, 0, i), "paddy", 0.5))
	}
	rep, err := Run(context.Background(), Request{
		Region:  models.Region{ID: "tamil_nadu"},
		Window:  models.TimeWindow{Start: day0, End: day0.AddDate(0, 0, 30)},
		Samples: samples,
	})
	assert.Nil(t, rep)

	var ae *AssemblyError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{SectionMetrics}, ae.Sections())
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestRun_EmptySamplesNamesEverySection(t *testing.T) {
	_, err := Run(context.Background(), Request{
		Region: models.Region{ID: "punjab"},
		Window: models.TimeWindow{Start: day0, End: day0.AddDate(0, 0, 30)},
	})
	var ae *AssemblyError
	require.ErrorAs(t, err, &ae)
	// yield never runs when its inputs are missing
	assert.Equal(t, []string{SectionMetrics, SectionNDVI, SectionLandCover}, ae.Sections())
}

func TestRun_UnknownBaselineIsNotAFailure(t *testing.T) {
	rep, err := Run(context.Background(), Request{
		Region:    models.Region{ID: "custom", Name: "Drawn area"},
		Window:    models.TimeWindow{Start: day0, End: day0.AddDate(0, 0, 40)},
		Samples:   seasonSamples(),
		Baselines: StaticBaselines{"punjab": 6.8},
	})
	require.NoError(t, err)
	assert.Equal(t, "Drawn area", rep.Region.Name)
	assert.Nil(t, rep.Yield.Baseline)
	assert.Equal(t, models.BaselineUnavailable, rep.Yield.BaselineStatus)
	assert.Greater(t, rep.Yield.Estimate, 0.0)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Request{Region: models.Region{ID: "punjab"}, Samples: seasonSamples()})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestAssembleReport_FixedOrderAndUnwrap(t *testing.T) {
	ndviErr := &InsufficientDataError{Op: SectionNDVI, Reason: "none"}
	yieldErr := errors.New("model blew up")
	_, err := AssembleReport(ReportParts{NDVIErr: ndviErr, YieldErr: yieldErr})

	var ae *AssemblyError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, []string{SectionNDVI, SectionYield}, ae.Sections())
	assert.ErrorIs(t, err, yieldErr)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Contains(t, err.Error(), "ndvi")
}

func TestAssembleReport_UsesClock(t *testing.T) {
	at := time.Date(2025, 10, 1, 12, 0, 0, 0, time.FixedZone("IST", 19800))
	rep, err := AssembleReport(ReportParts{Region: models.Region{ID: "west_bengal"}, Now: func() time.Time { return at }})
	require.NoError(t, err)
	assert.Equal(t, at.UTC(), rep.GeneratedAt)
	assert.Equal(t, "West Bengal", rep.Region.Name)
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"west_bengal": "West Bengal",
		"eastern-up":  "Eastern Up",
		"école_nord":  "École Nord",
		"öland":       "Öland",
		"custom":      "Custom",
	}
	for id, want := range tests {
		got := displayName(id)
		assert.Equal(t, want, got, id)
		assert.True(t, utf8.ValidString(got), id)
	}
}
