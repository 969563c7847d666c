package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/paulmach/orb/geojson"

	"paddytrack/models"
)

// sampleRow is the on-disk CSV layout:
// region_id,timestamp,predicted,reference,ndvi,lon,lat
type sampleRow struct {
	RegionID  string    `csv:"region_id"`
	Timestamp time.Time `csv:"timestamp"`
	Predicted string    `csv:"predicted"`
	Reference *string   `csv:"reference,omitempty"`
	NDVI      *float64  `csv:"ndvi,omitempty"`
	Lon       *float64  `csv:"lon,omitempty"`
	Lat       *float64  `csv:"lat,omitempty"`
}

// CSVFile serves samples from a CSV export. The file is re-read on every
// call so nothing is kept between requests.
type CSVFile struct {
	Path string
}

// Samples reads the whole file; custom areas are matched on the lon/lat columns.
func (c CSVFile) Samples(_ context.Context, region models.Region, window models.TimeWindow) ([]models.Sample, error) {
	file, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	var rows []sampleRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error unmarshalling CSV: %w", err)
	}

	raw := make([]models.Sample, 0, len(rows))
	for _, r := range rows {
		s := models.Sample{
			RegionID:  r.RegionID,
			Timestamp: r.Timestamp,
			Predicted: models.Category(r.Predicted),
			Index:     r.NDVI,
		}
		if r.Reference != nil && *r.Reference != "" {
			ref := models.Category(*r.Reference)
			s.Reference = &ref
		}
		if r.Lon != nil && r.Lat != nil {
			s.Location = &geojson.Point{*r.Lon, *r.Lat}
		}
		raw = append(raw, s)
	}
	return Clean(raw, region, window)
}
