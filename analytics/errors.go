package analytics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInsufficientData matches any *InsufficientDataError via errors.Is.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrUnknownRegion matches any *UnknownRegionError via errors.Is.
	ErrUnknownRegion = errors.New("unknown region")
)

// InsufficientDataError reports that no usable samples exist for the requested computation.
type InsufficientDataError struct {
	Op     string // computation that needed the data, e.g. "metrics"
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: %s", e.Op, e.Reason)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// UnknownRegionError reports that geometry or baseline lookup failed for a region id.
type UnknownRegionError struct {
	RegionID string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region %q", e.RegionID)
}

func (e *UnknownRegionError) Is(target error) bool { return target == ErrUnknownRegion }

// Report sections, in the order failures are reported.
const (
	SectionMetrics   = "metrics"
	SectionNDVI      = "ndvi"
	SectionLandCover = "land_cover"
	SectionYield     = "yield"
)

// SectionError ties a failure to the report section that produced it.
type SectionError struct {
	Section string
	Err     error
}

func (e SectionError) Error() string { return e.Section + ": " + e.Err.Error() }

// AssemblyError is returned instead of a report when one or more sections failed.
type AssemblyError struct {
	Failed []SectionError
}

func (e *AssemblyError) Error() string {
	msgs := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		msgs[i] = f.Error()
	}
	return "report assembly aborted: " + strings.Join(msgs, "; ")
}

// Sections lists the names of the failed sections.
func (e *AssemblyError) Sections() []string {
	out := make([]string, len(e.Failed))
	for i, f := range e.Failed {
		out[i] = f.Section
	}
	return out
}

// Unwrap exposes the underlying section errors to errors.Is / errors.As.
func (e *AssemblyError) Unwrap() []error {
	out := make([]error, len(e.Failed))
	for i, f := range e.Failed {
		out[i] = f.Err
	}
	return out
}
