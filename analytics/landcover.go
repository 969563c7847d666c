package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"paddytrack/models"
)

// ProportionEpsilon is the tolerance on the sum of land-cover proportions.
const ProportionEpsilon = 1e-6

// AnalyzeLandCover tabulates predicted labels into category proportions.
// Categories from cats that were never predicted appear with proportion 0.
// Floating residue is folded into the largest-count category so that the
// proportions sum to 1.
func AnalyzeLandCover(samples []models.Sample, cats models.CategorySet) (models.LandCoverDistribution, error) {
	if len(samples) == 0 {
		return models.LandCoverDistribution{}, &InsufficientDataError{Op: SectionLandCover, Reason: "no classified samples"}
	}

	counts := make(map[models.Category]int, len(cats))
	for _, c := range cats {
		counts[c] = 0
	}
	for _, s := range samples {
		counts[s.Predicted]++
	}

	shares := make([]models.CategoryShare, 0, len(counts))
	for c, n := range counts {
		shares = append(shares, models.CategoryShare{Category: c, Count: n})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Category < shares[j].Category
	})

	total := float64(len(samples))
	props := make([]float64, len(shares))
	for i := range shares {
		props[i] = float64(shares[i].Count) / total
	}
	props[0] += 1 - floats.Sum(props)
	if sum := floats.Sum(props); math.Abs(sum-1) > ProportionEpsilon {
		return models.LandCoverDistribution{}, fmt.Errorf("land cover proportions sum to %v", sum)
	}
	for i := range shares {
		shares[i].Proportion = props[i]
	}

	return models.LandCoverDistribution{Total: len(samples), Shares: shares}, nil
}

// Percentages renders the distribution as fixed-point percentages with the
// given number of decimals. Rounding error goes to the largest-count
// category, so the values add up to exactly 100 at that precision.
func Percentages(d models.LandCoverDistribution, decimals int) ([]float64, error) {
	if len(d.Shares) == 0 {
		return nil, nil
	}
	out := make([]float64, len(d.Shares))
	for i, s := range d.Shares {
		v, err := stats.Round(s.Proportion*100, decimals)
		if err != nil {
			return nil, fmt.Errorf("round %s: %w", s.Category, err)
		}
		out[i] = v
	}
	fixed, err := stats.Round(out[0]+100-floats.Sum(out), decimals)
	if err != nil {
		return nil, fmt.Errorf("round residual: %w", err)
	}
	out[0] = fixed
	return out, nil
}
