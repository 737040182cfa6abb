package timeframe

import (
	"fmt"
	"strings"
	"time"
)

// InvalidFormatError reports a timeframe expression that matches none of
// the accepted shapes.
type InvalidFormatError struct {
	Timeframe string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid timeframe format: %q", e.Timeframe)
}

// MaxHourRangeError reports an hour-precision timeframe spanning more than
// the 7 days the service supports.
type MaxHourRangeError struct {
	Timeframe string
	Span      time.Duration
}

func (e *MaxHourRangeError) Error() string {
	return fmt.Sprintf(
		"timeframe %q spans %s, hour precision allows at most 7 days",
		e.Timeframe, formatDuration(e.Span),
	)
}

// InvalidOffsetError reports a malformed "<count>-<unit>" offset.
type InvalidOffsetError struct {
	Offset string
}

func (e *InvalidOffsetError) Error() string {
	return fmt.Sprintf("invalid offset %q, expected <int>-[H|d|m|y]", e.Offset)
}

// InconsistentError reports a timeframe list whose members cover unequal
// spans.
type InconsistentError struct {
	Timeframes []string
	Durations  []time.Duration
}

func (e *InconsistentError) Error() string {
	pairs := make([]string, len(e.Timeframes))
	for i, tf := range e.Timeframes {
		pairs[i] = fmt.Sprintf("%q=%s", tf, formatDuration(e.Durations[i]))
	}
	return "timeframes must all cover the same span: " + strings.Join(pairs, ", ")
}

// DifferentResolutionsError reports timeframes that the service would
// sample at different granularities.
type DifferentResolutionsError struct {
	Details []ResolutionDetail
}

// ResolutionDetail is one element of a DifferentResolutionsError report.
type ResolutionDetail struct {
	Timeframe  string
	Duration   time.Duration
	Resolution Resolution
}

func (e *DifferentResolutionsError) Error() string {
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = fmt.Sprintf(
			"%q (%s -> %s)",
			d.Timeframe, formatDuration(d.Duration), d.Resolution,
		)
	}
	return "timeframes map to different resolutions: " + strings.Join(parts, ", ")
}

// ResolutionRatioError reports timeframes that share a resolution but whose
// spans diverge enough to make the resulting series incomparable.
type ResolutionRatioError struct {
	MinTimeframe string
	MaxTimeframe string
	Min          time.Duration
	Max          time.Duration
}

func (e *ResolutionRatioError) Error() string {
	return fmt.Sprintf(
		"timeframe %q (%s) covers at least twice the span of %q (%s)",
		e.MaxTimeframe, formatDuration(e.Max),
		e.MinTimeframe, formatDuration(e.Min),
	)
}
