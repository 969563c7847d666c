// Package source holds the collaborators that feed the analytics engine:
// sample sources, the AOI region registry and the yield baseline table.
package source

import (
	"context"
	"fmt"

	"paddytrack/models"
)

// SampleSource returns the samples of a region inside a time window. Custom
// regions are matched by sample location, other regions by id. Returned
// samples are already cleaned. An empty slice means "no data" and is not an error.
type SampleSource interface {
	Samples(ctx context.Context, region models.Region, window models.TimeWindow) ([]models.Sample, error)
}

// RegionStore resolves AOI identifiers. Unknown ids yield *analytics.UnknownRegionError.
type RegionStore interface {
	Region(ctx context.Context, id string) (models.Region, error)
	Regions(ctx context.Context) ([]models.Region, error)
}

// Clean normalises labels and validates samples coming from outside.
// Samples outside the window or not covered by the region are dropped.
func Clean(raw []models.Sample, region models.Region, window models.TimeWindow) ([]models.Sample, error) {
	out := make([]models.Sample, 0, len(raw))
	for i, s := range raw {
		s.Predicted = models.NormalizeCategory(string(s.Predicted))
		if s.Reference != nil {
			ref := models.NormalizeCategory(string(*s.Reference))
			if ref == "" {
				s.Reference = nil
			} else {
				s.Reference = &ref
			}
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if !region.Covers(s) || !window.Contains(s.Timestamp) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
