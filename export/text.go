package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"paddytrack/analytics"
	"paddytrack/models"
)

var textReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"f2":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"pct": func(v float64) string { return fmt.Sprintf("%.1f", v*100) },
}).Parse(`PaddyTrack Report
==================================================
Date of Analysis: {{.R.GeneratedAt.Format "2006-01-02 15:04:05"}} UTC
Report ID:        {{.R.ID}}

--- 1. Analysis Parameters ---
Area of Interest (AOI): {{.R.Region.Name}} ({{.R.Region.ID}}){{if .R.Region.AreaHa}}, {{f2 .R.Region.AreaHa}} ha{{end}}
Date Range:             {{.Start}} to {{.End}}
Classification Model:   {{if .R.ClassifierModel}}{{.R.ClassifierModel}}{{else}}N/A{{end}}

--- 2. Classification Metrics ---
Accuracy:     {{pct .R.Metrics.Accuracy}}%
Kappa Score:  {{f2 .R.Metrics.Kappa}}
Macro F1:     {{f2 .R.Metrics.MacroF1}}
Samples:      {{.R.Metrics.Correct}}/{{.R.Metrics.Total}} correct
{{range .R.Metrics.PerCategory}}  {{printf "%-12s" .Category}} precision {{f2 .Precision}}  recall {{f2 .Recall}}  f1 {{f2 .F1}}
{{end}}
--- 3. Land Cover Distribution ---
Distribution: {{.LandCover}}

--- 4. Vegetation Index (NDVI) ---
{{range .R.NDVI}}  {{.BucketStart.Format "2006-01-02"}}  {{f2 .MeanIndex}}  (n={{.SampleCount}})
{{end}}Peak NDVI:    {{f2 .R.Phenology.PeakIndex}} on {{.R.Phenology.PeakAt.Format "2006-01-02"}}
Growth Stage: {{.R.Phenology.Stage}}

--- 5. Yield Estimation ---
Estimated Yield:  {{f2 .R.Yield.Estimate}} {{.R.Yield.Unit}}
Potential Range:  {{f2 .R.Yield.RangeLow}} - {{f2 .R.Yield.RangeHigh}} {{.R.Yield.Unit}}
Regional Average: {{.Baseline}}
Model:            {{.R.Yield.Model}}

--- 6. Crop Health & Water Management ---
Pest & Disease Risk:  {{.R.Health.RiskLevel}}% ({{.R.Health.RiskValue}})
Water Recommendation: {{.R.Health.Recommendation}}

==================================================
`))

type textView struct {
	R          *models.Report
	Start, End string
	LandCover  string
	Baseline   string
}

// WriteText renders the plain-text report.
func WriteText(w io.Writer, rep *models.Report) error {
	pcts, err := analytics.Percentages(rep.LandCover, 2)
	if err != nil {
		return fmt.Errorf("land cover percentages: %w", err)
	}
	title := cases.Title(language.English)
	parts := make([]string, len(rep.LandCover.Shares))
	for i, s := range rep.LandCover.Shares {
		parts[i] = fmt.Sprintf("%s: %.2f%%", title.String(string(s.Category)), pcts[i])
	}

	baseline := string(models.BaselineUnavailable)
	if rep.Yield.Baseline != nil {
		baseline = fmt.Sprintf("%.2f %s", *rep.Yield.Baseline, rep.Yield.Unit)
		if rep.Yield.DeviationPct != nil {
			baseline += fmt.Sprintf(" (%+.1f%%)", *rep.Yield.DeviationPct)
		}
	}

	view := textView{
		R:         rep,
		Start:     rep.Window.Start.Format("2006-01-02"),
		End:       rep.Window.End.Format("2006-01-02"),
		LandCover: strings.Join(parts, ", "),
		Baseline:  baseline,
	}
	if err := textReport.Execute(w, view); err != nil {
		return fmt.Errorf("render text report: %w", err)
	}
	return nil
}
