package analytics

import (
	"time"

	"paddytrack/models"
)

var day0 = time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC) // a Monday

func cat(s string) *models.Category {
	c := models.Category(s)
	return &c
}

func ndvi(v float64) *float64 { return &v }

// pairs returns n labeled samples with the given predicted/reference labels.
func pairs(n int, predicted, reference string) []models.Sample {
	out := make([]models.Sample, n)
	for i := range out {
		out[i] = models.Sample{
			RegionID:  "punjab",
			Timestamp: day0,
			Predicted: models.Category(predicted),
			Reference: cat(reference),
		}
	}
	return out
}

// indexAt returns an unlabeled sample carrying an index value.
func indexAt(ts time.Time, label string, v float64) models.Sample {
	return models.Sample{RegionID: "punjab", Timestamp: ts, Predicted: models.Category(label), Index: ndvi(v)}
}

func concat(groups ...[]models.Sample) []models.Sample {
	var out []models.Sample
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
