package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
)

// Category is a land-cover / crop class label, e.g. "paddy", "water".
type Category string

// NormalizeCategory lower-cases and trims a raw label.
func NormalizeCategory(raw string) Category {
	return Category(strings.ToLower(strings.TrimSpace(raw)))
}

// CategorySet is a sorted, de-duplicated list of categories.
// Build it once per computation and hand the same value to every analyzer.
type CategorySet []Category

// NewCategorySet returns the sorted union of the given categories, skipping empty labels.
func NewCategorySet(cats ...Category) CategorySet {
	seen := make(map[Category]struct{}, len(cats))
	out := make(CategorySet, 0, len(cats))
	for _, c := range cats {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Index returns the position of c in the set, or -1.
func (s CategorySet) Index(c Category) int {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= c })
	if i < len(s) && s[i] == c {
		return i
	}
	return -1
}

// Sample is one per-pixel / per-plot observation for a region.
// Reference is nil for unlabeled monitoring samples; Index is nil when no
// vegetation index could be computed for the pixel.
type Sample struct {
	RegionID  string         `json:"regionId"            bson:"regionId"`
	Timestamp time.Time      `json:"timestamp"           bson:"timestamp"`
	Predicted Category       `json:"predicted"           bson:"predicted"`
	Reference *Category      `json:"reference,omitempty" bson:"reference,omitempty"`
	Index     *float64       `json:"ndvi,omitempty"      bson:"ndvi,omitempty"`
	Location  *geojson.Point `json:"location,omitempty"  bson:"location,omitempty"` // plot centre, matched against custom areas
}

// Labeled reports whether the sample carries both predicted and reference labels.
func (s Sample) Labeled() bool {
	return s.Predicted != "" && s.Reference != nil && *s.Reference != ""
}

// HasIndex reports whether the sample carries a usable vegetation index.
func (s Sample) HasIndex() bool {
	return s.Index != nil && !math.IsNaN(*s.Index) && !math.IsInf(*s.Index, 0)
}

// Validate checks the sample at the ingestion boundary.
func (s Sample) Validate() error {
	if strings.TrimSpace(s.RegionID) == "" && s.Location == nil {
		return errors.New("sample: needs a region id or a location")
	}
	if s.Timestamp.IsZero() {
		return errors.New("sample: missing timestamp")
	}
	if s.Predicted == "" {
		return errors.New("sample: missing predicted label")
	}
	if s.Index != nil {
		v := *s.Index
		if math.IsNaN(v) || math.IsInf(v, 0) || v < -1 || v > 1 {
			return fmt.Errorf("sample: index value %v out of range [-1, 1]", v)
		}
	}
	return nil
}

// TimeWindow is an inclusive [Start, End] analysis window.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate requires both bounds and End not before Start.
func (w TimeWindow) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return errors.New("time window: start and end are required")
	}
	if w.End.Before(w.Start) {
		return errors.New("time window: end is before start")
	}
	return nil
}

// Days is the number of calendar days (UTC) from Start to End, so a window
// whose End is the last instant of a date counts like the dates do.
func (w TimeWindow) Days() int {
	return int(midnightUTC(w.End).Sub(midnightUTC(w.Start)).Hours() / 24)
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the window (inclusive).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
