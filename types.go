package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"paddytrack/analytics"
	"paddytrack/models"
)

// Request/response DTOs. Keep them minimal and explicit.

// analysisReq is the body of POST /api/analysis and /api/report/download.
type analysisReq struct {
	RegionID  string          `json:"regionId"`
	Geometry  json.RawMessage `json:"geometry,omitempty"` // GeoJSON Polygon/MultiPolygon for custom AOIs
	DateStart string          `json:"dateStart"`          // YYYY-MM-DD
	DateEnd   string          `json:"dateEnd"`            // YYYY-MM-DD
	Model     string          `json:"model,omitempty"`    // classifier name, informational
	Bucket    string          `json:"bucket,omitempty"`   // day|week|month|<n>d, overrides config
}

type errorResp struct {
	Error  string   `json:"error"`
	Failed []string `json:"failed,omitempty"`
}

type regionsResp struct {
	Regions []models.Region `json:"regions"`
}

// analysisParams is analysisReq after validation.
type analysisParams struct {
	RegionID string
	Geometry orb.Geometry // nil for predefined AOIs
	Window   models.TimeWindow
	Model    string
	Bucket   analytics.BucketRule
}

const customRegionID = "custom"

func (r analysisReq) validate(defaultBucket analytics.BucketRule) (analysisParams, error) {
	p := analysisParams{
		RegionID: strings.TrimSpace(r.RegionID),
		Model:    strings.TrimSpace(r.Model),
		Bucket:   defaultBucket,
	}
	if r.DateStart == "" || r.DateEnd == "" {
		return p, errors.New("dateStart and dateEnd are required")
	}
	start, err := time.Parse(time.DateOnly, r.DateStart)
	if err != nil {
		return p, errors.New("invalid date format, want YYYY-MM-DD")
	}
	end, err := time.Parse(time.DateOnly, r.DateEnd)
	if err != nil {
		return p, errors.New("invalid date format, want YYYY-MM-DD")
	}
	// the end date is inclusive
	p.Window = models.TimeWindow{Start: start, End: end.Add(24*time.Hour - time.Nanosecond)}
	if err := p.Window.Validate(); err != nil {
		return p, err
	}

	if len(r.Geometry) > 0 && string(r.Geometry) != "null" {
		g, err := geojson.UnmarshalGeometry(r.Geometry)
		if err != nil {
			return p, errors.New("invalid geometry json")
		}
		switch g.Geometry().(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return p, errors.New("geometry.type must be Polygon or MultiPolygon")
		}
		p.Geometry = g.Geometry()
		if p.RegionID == "" {
			p.RegionID = customRegionID
		}
	}
	if p.RegionID == "" {
		return p, errors.New("regionId or geometry is required")
	}

	if r.Bucket != "" {
		b, err := analytics.ParseBucketRule(r.Bucket)
		if err != nil {
			return p, fmt.Errorf("bucket: %w", err)
		}
		p.Bucket = b
	}
	return p, nil
}
