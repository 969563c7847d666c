package models

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorySet(t *testing.T) {
	s := NewCategorySet("water", "paddy", "", "water", "fallow")
	assert.Equal(t, CategorySet{"fallow", "paddy", "water"}, s)
	assert.Equal(t, 1, s.Index("paddy"))
	assert.Equal(t, -1, s.Index("urban"))
	assert.Equal(t, Category("paddy"), NormalizeCategory("  PADDY "))
}

func TestSampleValidate(t *testing.T) {
	ts := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	v := func(f float64) *float64 { return &f }

	ok := Sample{RegionID: "punjab", Timestamp: ts, Predicted: "paddy", Index: v(0.7)}
	require.NoError(t, ok.Validate())
	assert.True(t, ok.HasIndex())
	assert.False(t, ok.Labeled())

	for name, s := range map[string]Sample{
		"no region":    {Timestamp: ts, Predicted: "paddy"},
		"no timestamp": {RegionID: "punjab", Predicted: "paddy"},
		"no label":     {RegionID: "punjab", Timestamp: ts},
		"index high":   {RegionID: "punjab", Timestamp: ts, Predicted: "paddy", Index: v(1.2)},
		"index nan":    {RegionID: "punjab", Timestamp: ts, Predicted: "paddy", Index: v(math.NaN())},
	} {
		assert.Error(t, s.Validate(), name)
	}
}

func TestTimeWindow(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	w := TimeWindow{Start: start, End: start.AddDate(0, 0, 120)}
	require.NoError(t, w.Validate())
	assert.Equal(t, 120, w.Days())
	endOfDay := TimeWindow{Start: start, End: time.Date(2025, 9, 30, 23, 59, 59, 999999999, time.UTC)}
	assert.Equal(t, 121, endOfDay.Days())
	assert.True(t, w.Contains(start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.End.Add(time.Second)))

	assert.Error(t, TimeWindow{Start: w.End, End: start}.Validate())
	assert.Error(t, TimeWindow{Start: start}.Validate())
}

func TestNewRegion_Area(t *testing.T) {
	// roughly 1 km x 1 km near the equator
	poly := orb.Polygon{{{0, 0}, {0.009, 0}, {0.009, 0.009}, {0, 0.009}, {0, 0}}}
	r := NewRegion("custom", "Custom Area", poly)
	assert.InDelta(t, 100, r.AreaHa, 2)
	require.NotNil(t, r.Geometry)

	assert.Zero(t, Region{ID: "punjab"}.WithArea().AreaHa)
}

func TestRegionCovers(t *testing.T) {
	square := func(x, y float64) orb.Polygon {
		return orb.Polygon{{{x, y}, {x + 1, y}, {x + 1, y + 1}, {x, y + 1}, {x, y}}}
	}
	ts := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	sample := func(region string, lon, lat float64) Sample {
		return Sample{RegionID: region, Timestamp: ts, Predicted: "paddy", Location: &geojson.Point{lon, lat}}
	}

	custom := NewCustomRegion("custom", orb.MultiPolygon{square(0, 0), square(10, 10)})
	assert.True(t, custom.Custom())
	assert.True(t, custom.Covers(sample("", 0.5, 0.5)))
	assert.True(t, custom.Covers(sample("punjab", 10.5, 10.5)))
	assert.False(t, custom.Covers(sample("custom", 5, 5)), "region id is ignored for drawn areas")
	assert.False(t, custom.Covers(Sample{RegionID: "custom", Timestamp: ts, Predicted: "paddy"}))

	stored := NewRegion("punjab", "Punjab", square(0, 0))
	assert.False(t, stored.Custom())
	assert.True(t, stored.Covers(sample("punjab", 50, 50)))
	assert.False(t, stored.Covers(sample("tamil_nadu", 0.5, 0.5)))
}
