package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"paddytrack/models"
)

// csvRow is one long-format line of the CSV report.
type csvRow struct {
	Section  string `csv:"section"`
	Category string `csv:"category"`
	Metric   string `csv:"metric"`
	Value    string `csv:"value"`
	Unit     string `csv:"unit"`
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// WriteCSV renders the report as section,category,metric,value,unit rows.
func WriteCSV(w io.Writer, rep *models.Report) error {
	rows := []csvRow{
		{"region", rep.Region.ID, "name", rep.Region.Name, ""},
		{"region", rep.Region.ID, "area", num(rep.Region.AreaHa), "ha"},
		{"window", "", "start", rep.Window.Start.Format(time.DateOnly), ""},
		{"window", "", "end", rep.Window.End.Format(time.DateOnly), ""},
		{"metrics", "", "accuracy", num(rep.Metrics.Accuracy), "ratio"},
		{"metrics", "", "kappa", num(rep.Metrics.Kappa), ""},
		{"metrics", "", "macro_f1", num(rep.Metrics.MacroF1), ""},
		{"metrics", "", "samples", strconv.Itoa(rep.Metrics.Total), "count"},
	}
	for _, s := range rep.Metrics.PerCategory {
		c := string(s.Category)
		rows = append(rows,
			csvRow{"metrics", c, "precision", num(s.Precision), ""},
			csvRow{"metrics", c, "recall", num(s.Recall), ""},
			csvRow{"metrics", c, "f1", num(s.F1), ""},
			csvRow{"metrics", c, "support", strconv.Itoa(s.Support), "count"},
		)
	}
	for _, p := range rep.NDVI {
		d := p.BucketStart.Format(time.DateOnly)
		rows = append(rows,
			csvRow{"ndvi", d, "mean", num(p.MeanIndex), ""},
			csvRow{"ndvi", d, "samples", strconv.Itoa(p.SampleCount), "count"},
		)
	}
	rows = append(rows,
		csvRow{"phenology", "", "peak_ndvi", num(rep.Phenology.PeakIndex), ""},
		csvRow{"phenology", "", "stage", rep.Phenology.Stage, ""},
		csvRow{"phenology", "", "trend", num(rep.Phenology.TrendPerDay), "ndvi/day"},
	)
	for _, s := range rep.LandCover.Shares {
		rows = append(rows, csvRow{"land_cover", string(s.Category), "proportion", num(s.Proportion), "ratio"})
	}
	rows = append(rows,
		csvRow{"health", "", "season_factor", num(rep.Health.SeasonFactor), "ratio"},
		csvRow{"health", "", "risk_level", strconv.Itoa(rep.Health.RiskLevel), "percent"},
		csvRow{"health", "", "risk_value", rep.Health.RiskValue, ""},
		csvRow{"health", "", "recommendation", rep.Health.Recommendation, ""},
	)
	y := rep.Yield
	rows = append(rows,
		csvRow{"yield", "", "estimate", num(y.Estimate), y.Unit},
		csvRow{"yield", "", "range_low", num(y.RangeLow), y.Unit},
		csvRow{"yield", "", "range_high", num(y.RangeHigh), y.Unit},
	)
	if y.Baseline != nil {
		rows = append(rows, csvRow{"yield", "", "baseline", num(*y.Baseline), y.Unit})
	} else {
		rows = append(rows, csvRow{"yield", "", "baseline", string(y.BaselineStatus), ""})
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}
	return nil
}
