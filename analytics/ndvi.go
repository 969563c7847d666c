package analytics

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"paddytrack/models"
)

// BucketUnit selects how sample timestamps are grouped.
type BucketUnit string

const (
	BucketDay   BucketUnit = "day"
	BucketWeek  BucketUnit = "week"  // ISO week, starting Monday
	BucketMonth BucketUnit = "month" // calendar month
	BucketSpan  BucketUnit = "span"  // fixed N-day span anchored at the Unix epoch
)

// BucketRule is the aggregation granularity of the NDVI series.
type BucketRule struct {
	Unit BucketUnit
	Days int // only for BucketSpan
}

// DefaultBucketRule aggregates per ISO week.
var DefaultBucketRule = BucketRule{Unit: BucketWeek}

// ParseBucketRule accepts "day", "week", "month" or "<n>d" (e.g. "10d").
func ParseBucketRule(s string) (BucketRule, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch BucketUnit(s) {
	case "":
		return DefaultBucketRule, nil
	case BucketDay, BucketWeek, BucketMonth:
		return BucketRule{Unit: BucketUnit(s)}, nil
	}
	if n, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(n)
		if err == nil && days > 0 {
			return BucketRule{Unit: BucketSpan, Days: days}, nil
		}
	}
	return BucketRule{}, fmt.Errorf("invalid bucket rule %q (want day|week|month|<n>d)", s)
}

func (r BucketRule) String() string {
	if r.Unit == BucketSpan {
		return strconv.Itoa(r.Days) + "d"
	}
	return string(r.Unit)
}

// Key returns the start of the bucket containing t, in UTC.
func (r BucketRule) Key(t time.Time) time.Time {
	d := dateOnlyUTC(t)
	switch r.Unit {
	case BucketWeek:
		offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
		return d.AddDate(0, 0, -offset)
	case BucketMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case BucketSpan:
		days := d.Unix() / 86400
		n := int64(r.Days)
		start := days - ((days%n)+n)%n
		return time.Unix(start*86400, 0).UTC()
	default:
		return d
	}
}

// dateOnlyUTC normalizes a timestamp to 00:00:00 UTC (one bucket per day).
func dateOnlyUTC(t time.Time) time.Time {
	tt := t.UTC()
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.UTC)
}

// TrackNDVI aggregates vegetation-index samples into one point per populated
// bucket, in chronological order. Samples without an index are ignored and
// empty buckets are omitted.
func TrackNDVI(samples []models.Sample, rule BucketRule) ([]models.TimeSeriesPoint, error) {
	buckets := make(map[time.Time]stats.Float64Data)
	for _, s := range samples {
		if !s.HasIndex() {
			continue
		}
		k := rule.Key(s.Timestamp)
		buckets[k] = append(buckets[k], *s.Index)
	}
	if len(buckets) == 0 {
		return nil, &InsufficientDataError{Op: SectionNDVI, Reason: "no samples with a vegetation index"}
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	points := make([]models.TimeSeriesPoint, 0, len(keys))
	for _, k := range keys {
		values := buckets[k]
		mean, err := stats.Mean(values)
		if err != nil {
			return nil, fmt.Errorf("mean for bucket %s: %w", k.Format(time.DateOnly), err)
		}
		points = append(points, models.TimeSeriesPoint{
			BucketStart: k,
			MeanIndex:   mean,
			SampleCount: len(values),
		})
	}
	return points, nil
}

// MeanIndex is the sample-weighted mean over all points, i.e. the mean of
// every index value that went into the series.
func MeanIndex(points []models.TimeSeriesPoint) (float64, error) {
	var sum float64
	var n int
	for _, p := range points {
		sum += p.MeanIndex * float64(p.SampleCount)
		n += p.SampleCount
	}
	if n == 0 {
		return 0, &InsufficientDataError{Op: SectionNDVI, Reason: "empty index series"}
	}
	return sum / float64(n), nil
}

// Growth stages by elapsed season length.
const (
	StageEarly = "Transplanting/Vegetative (Early)"
	StagePeak  = "Active Tillering/Panicle Initiation (Peak)"
	StageLate  = "Flowering/Grain Filling (Late)"
	StageEnd   = "Ripening/Harvesting (End)"
)

// GrowthStage maps days since season start to a rice phenology stage.
func GrowthStage(days int) string {
	switch {
	case days < 50:
		return StageEarly
	case days < 100:
		return StagePeak
	case days < 130:
		return StageLate
	default:
		return StageEnd
	}
}

// DescribeSeason summarises a series: peak, stage for the window length and
// the least-squares NDVI slope per day (0 for fewer than two points).
func DescribeSeason(points []models.TimeSeriesPoint, window models.TimeWindow) (models.Phenology, error) {
	if len(points) == 0 {
		return models.Phenology{}, &InsufficientDataError{Op: SectionNDVI, Reason: "empty index series"}
	}

	means := make(stats.Float64Data, len(points))
	series := make(stats.Series, len(points))
	origin := points[0].BucketStart
	for i, p := range points {
		means[i] = p.MeanIndex
		series[i] = stats.Coordinate{X: p.BucketStart.Sub(origin).Hours() / 24, Y: p.MeanIndex}
	}

	peak, err := stats.Max(means)
	if err != nil {
		return models.Phenology{}, fmt.Errorf("peak ndvi: %w", err)
	}
	ph := models.Phenology{
		PeakIndex:  peak,
		SeasonDays: window.Days(),
		Stage:      GrowthStage(window.Days()),
	}
	for _, p := range points {
		if p.MeanIndex == peak {
			ph.PeakAt = p.BucketStart
			break
		}
	}

	if len(series) > 1 {
		fit, err := stats.LinearRegression(series)
		if err != nil {
			return models.Phenology{}, fmt.Errorf("ndvi trend: %w", err)
		}
		first, last := fit[0], fit[len(fit)-1]
		if dx := last.X - first.X; dx > 0 {
			ph.TrendPerDay = (last.Y - first.Y) / dx
		}
	}
	return ph, nil
}
