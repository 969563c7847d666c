package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"paddytrack/analytics"
	"paddytrack/models"
	"paddytrack/source"
)

type Config struct {
	Port         string
	MongoURI     string
	MongoDB      string
	SampleSource string // mongo | processor | csv
	ProcessorURI string
	SamplesCSV   string
	CORSOrigins  []string

	Bucket       analytics.BucketRule
	CropCategory models.Category
	YieldModel   analytics.LinearYieldModel

	// Baseline for custom drawn areas; <= 0 reports "no baseline available".
	CustomBaseline float64
}

// loadConfig reads .env (if present) and the process environment.
func loadConfig() (Config, error) {
	_ = godotenv.Load() // optional

	cfg := Config{
		Port:         getenv("PORT", "8080"),
		MongoURI:     getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getenv("MONGO_DB", "paddytrack"),
		SampleSource: strings.ToLower(getenv("SAMPLE_SOURCE", "mongo")),
		ProcessorURI: getenv("PROCESSOR_URL", "http://127.0.0.1:8000"),
		SamplesCSV:   getenv("SAMPLES_CSV", "data/samples.csv"),
		CORSOrigins:  splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000")),
		CropCategory: models.NormalizeCategory(getenv("CROP_CATEGORY", string(analytics.DefaultCropCategory))),
	}

	switch cfg.SampleSource {
	case "mongo", "processor", "csv":
	default:
		return Config{}, fmt.Errorf("SAMPLE_SOURCE: unknown source %q", cfg.SampleSource)
	}

	bucket, err := analytics.ParseBucketRule(getenv("NDVI_BUCKET", "week"))
	if err != nil {
		return Config{}, fmt.Errorf("NDVI_BUCKET: %w", err)
	}
	cfg.Bucket = bucket

	m := analytics.DefaultYieldModel
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"YIELD_INTERCEPT", &m.Intercept},
		{"YIELD_INDEX_COEF", &m.IndexCoef},
		{"YIELD_CROP_COEF", &m.CropShareCoef},
	} {
		if err := getenvFloat(f.key, f.dst); err != nil {
			return Config{}, err
		}
	}
	m.YieldUnit = getenv("YIELD_UNIT", m.YieldUnit)
	cfg.YieldModel = m

	cfg.CustomBaseline = source.DefaultCustomBaseline
	if err := getenvFloat("CUSTOM_AREA_BASELINE", &cfg.CustomBaseline); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvFloat overwrites *dst when k is set.
func getenvFloat(k string, dst *float64) error {
	v := os.Getenv(k)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", k, err)
	}
	*dst = f
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
