package models

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Region tags.
const (
	TagPredefined = "predefined"
	TagCustom     = "custom" // drawn by the user; samples are selected by location
)

// Region is an Area of Interest. Either a predefined area (Tag set, geometry
// optional) or a user-drawn polygon. The engine references regions, never owns them.
type Region struct {
	ID       string            `bson:"_id"                json:"id"`
	Name     string            `bson:"name"               json:"name"`
	Tag      string            `bson:"tag,omitempty"      json:"tag,omitempty"`
	Geometry *geojson.Geometry `bson:"geometry,omitempty" json:"geometry,omitempty"` // Polygon/MultiPolygon
	AreaHa   float64           `bson:"-"                  json:"areaHa,omitempty"`
}

// NewRegion builds a region and derives its area from the geometry.
func NewRegion(id, name string, g orb.Geometry) Region {
	r := Region{ID: id, Name: name}
	if g != nil {
		r.Geometry = geojson.NewGeometry(g)
	}
	r.AreaHa = r.computeArea()
	return r
}

// NewCustomRegion builds a user-drawn AOI.
func NewCustomRegion(id string, g orb.Geometry) Region {
	r := NewRegion(id, "Custom Area", g)
	r.Tag = TagCustom
	return r
}

// Custom reports whether samples are selected by geometry rather than region id.
func (r Region) Custom() bool {
	return r.Tag == TagCustom && r.Geometry != nil
}

// Covers reports whether s belongs to the region: by location for custom
// areas, by region id otherwise.
func (r Region) Covers(s Sample) bool {
	if !r.Custom() {
		return s.RegionID == r.ID
	}
	if s.Location == nil {
		return false
	}
	pt := orb.Point(*s.Location)
	switch g := r.Geometry.Geometry().(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	}
	return false
}

// WithArea fills AreaHa from the geometry; used after decoding from storage.
func (r Region) WithArea() Region {
	r.AreaHa = r.computeArea()
	return r
}

func (r Region) computeArea() float64 {
	if r.Geometry == nil {
		return 0
	}
	return geo.Area(r.Geometry.Geometry()) / 10_000 // m² -> ha
}
