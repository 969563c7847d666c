package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"paddytrack/models"
)

func labels(counts map[string]int) []models.Sample {
	var out []models.Sample
	for label, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, models.Sample{RegionID: "punjab", Timestamp: day0, Predicted: models.Category(label)})
		}
	}
	return out
}

func TestAnalyzeLandCover_Proportions(t *testing.T) {
	samples := labels(map[string]int{"crop": 7, "water": 2, "bare": 1})
	dist, err := AnalyzeLandCover(samples, CategoriesOf(samples))
	require.NoError(t, err)

	assert.Equal(t, 10, dist.Total)
	assert.InDelta(t, 0.7, dist.Proportion("crop"), 1e-12)
	assert.InDelta(t, 0.2, dist.Proportion("water"), 1e-12)
	assert.InDelta(t, 0.1, dist.Proportion("bare"), 1e-12)

	require.Len(t, dist.Shares, 3)
	assert.Equal(t, models.Category("crop"), dist.Shares[0].Category)
	assert.Equal(t, models.Category("water"), dist.Shares[1].Category)
	assert.Equal(t, models.Category("bare"), dist.Shares[2].Category)
}

func TestAnalyzeLandCover_SumsToOne(t *testing.T) {
	tests := []map[string]int{
		{"paddy": 1, "water": 1, "urban": 1},
		{"paddy": 13, "water": 7, "urban": 3, "fallow": 11},
		{"paddy": 1},
		{"a": 1, "b": 2, "c": 3, "d": 5, "e": 7, "f": 11, "g": 13},
	}
	for _, counts := range tests {
		samples := labels(counts)
		dist, err := AnalyzeLandCover(samples, CategoriesOf(samples))
		require.NoError(t, err)

		props := make([]float64, len(dist.Shares))
		for i, s := range dist.Shares {
			assert.GreaterOrEqual(t, s.Proportion, 0.0)
			assert.LessOrEqual(t, s.Proportion, 1.0)
			props[i] = s.Proportion
		}
		assert.InDelta(t, 1.0, floats.Sum(props), ProportionEpsilon)
	}
}

func TestAnalyzeLandCover_ReportsUnobservedCategories(t *testing.T) {
	samples := labels(map[string]int{"water": 3, "urban": 1})
	dist, err := AnalyzeLandCover(samples, CategoriesOf(samples, "paddy"))
	require.NoError(t, err)

	require.Len(t, dist.Shares, 3)
	assert.Equal(t, models.Category("paddy"), dist.Shares[2].Category)
	assert.Zero(t, dist.Shares[2].Count)
	assert.Zero(t, dist.Proportion("paddy"))
}

func TestAnalyzeLandCover_Empty(t *testing.T) {
	_, err := AnalyzeLandCover(nil, nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPercentages_FixedPointSum(t *testing.T) {
	samples := labels(map[string]int{"paddy": 1, "water": 1, "urban": 1})
	dist, err := AnalyzeLandCover(samples, CategoriesOf(samples))
	require.NoError(t, err)

	pct, err := Percentages(dist, 2)
	require.NoError(t, err)
	require.Len(t, pct, 3)
	// 33.33 * 3 = 99.99; the missing 0.01 goes to the first (largest, then by name) share.
	assert.InDelta(t, 33.34, pct[0], 1e-9)
	assert.InDelta(t, 33.33, pct[1], 1e-9)
	assert.InDelta(t, 33.33, pct[2], 1e-9)
	assert.InDelta(t, 100, floats.Sum(pct), 1e-9)
}
