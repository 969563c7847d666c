package source

import (
	"context"
	"errors"
	"sort"

	"paddytrack/analytics"
	"paddytrack/models"
)

// DefaultBaselines are historical average paddy yields (t/ha) of the
// predefined study areas.
var DefaultBaselines = analytics.StaticBaselines{
	"eastern_up":  4.0,
	"tamil_nadu":  5.5,
	"punjab":      6.8,
	"west_bengal": 4.5,
}

// DefaultCustomBaseline is the average yield (t/ha) compared against for
// user-drawn areas.
const DefaultCustomBaseline = 5.0

// DefaultRiskBases are the base water-stress risks (percent) of the
// predefined study areas.
var DefaultRiskBases = analytics.StaticRiskBases{
	"eastern_up":  50,
	"tamil_nadu":  30,
	"punjab":      15,
	"west_bengal": 40,
}

// StaticRegions is an in-memory RegionStore.
type StaticRegions map[string]models.Region

// DefaultRegions lists the predefined study areas.
var DefaultRegions = StaticRegions{
	"eastern_up":  {ID: "eastern_up", Name: "Eastern Uttar Pradesh", Tag: models.TagPredefined},
	"tamil_nadu":  {ID: "tamil_nadu", Name: "Tamil Nadu", Tag: models.TagPredefined},
	"punjab":      {ID: "punjab", Name: "Punjab", Tag: models.TagPredefined},
	"west_bengal": {ID: "west_bengal", Name: "West Bengal", Tag: models.TagPredefined},
}

func (s StaticRegions) Region(_ context.Context, id string) (models.Region, error) {
	r, ok := s[id]
	if !ok {
		return models.Region{}, &analytics.UnknownRegionError{RegionID: id}
	}
	return r.WithArea(), nil
}

func (s StaticRegions) Regions(_ context.Context) ([]models.Region, error) {
	out := make([]models.Region, 0, len(s))
	for _, r := range s {
		out = append(out, r.WithArea())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MergeBaselines overlays override on base into a new table.
func MergeBaselines(base, override analytics.StaticBaselines) analytics.StaticBaselines {
	out := make(analytics.StaticBaselines, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Layered tries each store in order; an unknown region falls through to the next.
type Layered []RegionStore

func (l Layered) Region(ctx context.Context, id string) (models.Region, error) {
	for _, s := range l {
		r, err := s.Region(ctx, id)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, analytics.ErrUnknownRegion) {
			return models.Region{}, err
		}
	}
	return models.Region{}, &analytics.UnknownRegionError{RegionID: id}
}

// Regions merges every store; earlier stores win on duplicate ids.
func (l Layered) Regions(ctx context.Context) ([]models.Region, error) {
	seen := map[string]bool{}
	var out []models.Region
	for _, s := range l {
		rs, err := s.Regions(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range rs {
			if !seen[r.ID] {
				seen[r.ID] = true
				out = append(out, r)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
