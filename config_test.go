package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paddytrack/analytics"
	"paddytrack/source"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "SAMPLE_SOURCE", "NDVI_BUCKET", "CROP_CATEGORY", "YIELD_INTERCEPT", "YIELD_INDEX_COEF", "YIELD_CROP_COEF", "YIELD_UNIT", "CORS_ORIGINS", "CUSTOM_AREA_BASELINE"} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.SampleSource)
	assert.Equal(t, analytics.DefaultBucketRule, cfg.Bucket)
	assert.Equal(t, analytics.DefaultCropCategory, cfg.CropCategory)
	assert.Equal(t, analytics.DefaultYieldModel, cfg.YieldModel)
	assert.Len(t, cfg.CORSOrigins, 3)
	assert.InDelta(t, source.DefaultCustomBaseline, cfg.CustomBaseline, 1e-12)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SAMPLE_SOURCE", "CSV")
	t.Setenv("NDVI_BUCKET", "10d")
	t.Setenv("CROP_CATEGORY", " Rice ")
	t.Setenv("YIELD_INTERCEPT", "0.5")
	t.Setenv("YIELD_UNIT", "kg/ha")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("CUSTOM_AREA_BASELINE", "0")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.SampleSource)
	assert.Equal(t, analytics.BucketRule{Unit: analytics.BucketSpan, Days: 10}, cfg.Bucket)
	assert.EqualValues(t, "rice", cfg.CropCategory)
	assert.InDelta(t, 0.5, cfg.YieldModel.Intercept, 1e-12)
	assert.InDelta(t, analytics.DefaultYieldModel.IndexCoef, cfg.YieldModel.IndexCoef, 1e-12)
	assert.Equal(t, "kg/ha", cfg.YieldModel.YieldUnit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Zero(t, cfg.CustomBaseline)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string][2]string{
		"unknown source": {"SAMPLE_SOURCE", "kafka"},
		"bad bucket":     {"NDVI_BUCKET", "fortnight"},
		"bad float":      {"YIELD_INDEX_COEF", "five"},
		"bad baseline":   {"CUSTOM_AREA_BASELINE", "lots"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := loadConfig()
			assert.ErrorContains(t, err, kv[0])
		})
	}
}
