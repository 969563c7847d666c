package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"paddytrack/models"
)

// chanceEpsilon guards kappa against floating noise when chance agreement is 1.
const chanceEpsilon = 1e-12

// confusion counts (predicted, reference) label pairs. Rows are predicted,
// columns reference, both indexed by cats.
type confusion struct {
	cats models.CategorySet
	m    *mat.Dense
}

func buildConfusion(pairs []models.Sample, cats models.CategorySet) confusion {
	all := make([]models.Category, 0, len(cats)+2*len(pairs))
	all = append(all, cats...)
	for _, s := range pairs {
		all = append(all, s.Predicted, *s.Reference)
	}
	set := models.NewCategorySet(all...)

	n := len(set)
	m := mat.NewDense(n, n, nil)
	for _, s := range pairs {
		i, j := set.Index(s.Predicted), set.Index(*s.Reference)
		m.Set(i, j, m.At(i, j)+1)
	}
	return confusion{cats: set, m: m}
}

func (c confusion) total() float64 { return mat.Sum(c.m) }
func (c confusion) trace() float64 { return mat.Trace(c.m) }

// predictedTotal is the row sum for category i.
func (c confusion) predictedTotal(i int) float64 { return floats.Sum(c.m.RawRowView(i)) }

// referenceTotal is the column sum for category j.
func (c confusion) referenceTotal(j int) float64 {
	col := mat.Col(nil, j, c.m)
	return floats.Sum(col)
}

func (c confusion) view() models.ConfusionMatrix {
	n := len(c.cats)
	counts := make([][]int, n)
	for i := range counts {
		counts[i] = make([]int, n)
		for j := range counts[i] {
			counts[i][j] = int(c.m.At(i, j))
		}
	}
	return models.ConfusionMatrix{Categories: append([]models.Category(nil), c.cats...), Counts: counts}
}

// ComputeMetrics scores predicted labels against reference labels.
//
// Only samples carrying both labels take part. The category axis is the union
// of cats and every label observed in those pairs. Precision, recall and F1
// are 0 for categories never predicted / never referenced; kappa is 0 when
// chance agreement is 1. Macro-F1 is the unweighted mean of the F1 of every
// category in PerCategory, unobserved ones included.
func ComputeMetrics(samples []models.Sample, cats models.CategorySet) (models.MetricsResult, error) {
	pairs := make([]models.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Labeled() {
			pairs = append(pairs, s)
		}
	}
	if len(pairs) == 0 {
		return models.MetricsResult{}, &InsufficientDataError{Op: SectionMetrics, Reason: "no samples with both predicted and reference labels"}
	}

	cm := buildConfusion(pairs, cats)
	total := cm.total()
	trace := cm.trace()
	accuracy := trace / total

	var expected float64
	f1s := make([]float64, len(cm.cats))
	scores := make([]models.CategoryScore, len(cm.cats))
	for k, cat := range cm.cats {
		tp := cm.m.At(k, k)
		predTotal := cm.predictedTotal(k)
		refTotal := cm.referenceTotal(k)
		expected += (predTotal / total) * (refTotal / total)

		var precision, recall, f1 float64
		if predTotal > 0 {
			precision = tp / predTotal
		}
		if refTotal > 0 {
			recall = tp / refTotal
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		scores[k] = models.CategoryScore{
			Category:  cat,
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   int(refTotal),
		}
		f1s[k] = f1
	}

	var kappa float64
	if math.Abs(1-expected) > chanceEpsilon {
		kappa = (accuracy - expected) / (1 - expected)
	}

	return models.MetricsResult{
		Accuracy:    accuracy,
		Kappa:       kappa,
		MacroF1:     floats.Sum(f1s) / float64(len(f1s)),
		Total:       int(total),
		Correct:     int(trace),
		PerCategory: scores,
		Matrix:      cm.view(),
	}, nil
}
