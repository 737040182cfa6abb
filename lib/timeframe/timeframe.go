// Package timeframe normalizes the timeframe expressions accepted by the
// trends API into its canonical "start end" range syntax.
package timeframe

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	dayFormat  = "2006-01-02"
	hourFormat = "2006-01-02T15"

	// hour-precision ranges may span at most 7 days
	maxHourSpan = 7 * 24 * time.Hour
)

// overridable in tests
var timeNow = time.Now

var fixedTokens = map[string]bool{
	"now 1-H":    true,
	"now 4-H":    true,
	"now 1-d":    true,
	"now 7-d":    true,
	"today 1-m":  true,
	"today 3-m":  true,
	"today 12-m": true,
	"today 5-y":  true,
	"all":        true,
}

var (
	dateRe   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2})?$`)
	offsetRe = regexp.MustCompile(`^(\d+)-(\w+)$`)
)

// Canonicalize rewrites a timeframe expression into the form the API
// accepts. Recognized fixed tokens ("now 7-d", "today 3-m", "all", ...)
// pass through unchanged; explicit ranges and date-plus-offset forms are
// resolved into a pair of formatted endpoints.
func Canonicalize(expr string) (string, error) {
	return canonicalize(expr, false)
}

// Expand behaves like Canonicalize but also resolves fixed tokens into
// explicit date ranges relative to the current UTC time.
func Expand(expr string) (string, error) {
	return canonicalize(expr, true)
}

func canonicalize(expr string, expand bool) (string, error) {
	if fixedTokens[expr] && !expand {
		return expr, nil
	}

	now := timeNow().UTC()
	if expand && expr == "all" {
		return "2024-01-01 " + now.Format(dayFormat), nil
	}

	expr = strings.ReplaceAll(expr, "now", now.Format(hourFormat))
	expr = strings.ReplaceAll(expr, "today", now.Format(dayFormat))

	parts := strings.Split(expr, " ")
	if len(parts) != 2 {
		return "", &InvalidFormatError{Timeframe: expr}
	}

	firstDate := dateRe.MatchString(parts[0])
	secondDate := dateRe.MatchString(parts[1])

	switch {
	case firstDate && secondDate:
		return canonicalizeDates(expr, parts[0], parts[1])
	case firstDate && offsetRe.MatchString(parts[1]):
		return canonicalizeOffset(parts[0], parts[1])
	default:
		return "", &InvalidFormatError{Timeframe: expr}
	}
}

// two explicit endpoints: dates pass through verbatim, any hour component
// forces both ends to hour precision and caps the span at 7 days
func canonicalizeDates(expr, first, second string) (string, error) {
	start, startHour, err := parseEndpoint(first)
	if err != nil {
		return "", &InvalidFormatError{Timeframe: expr}
	}
	end, endHour, err := parseEndpoint(second)
	if err != nil {
		return "", &InvalidFormatError{Timeframe: expr}
	}

	if !startHour && !endHour {
		return first + " " + second, nil
	}

	span := end.Sub(start)
	if span < 0 {
		span = -span
	}
	if span > maxHourSpan {
		return "", &MaxHourRangeError{Timeframe: expr, Span: span}
	}
	return start.Format(hourFormat) + " " + end.Format(hourFormat), nil
}

// anchor date plus a trailing "<count>-<unit>" offset reaching backwards
func canonicalizeOffset(anchorStr, offset string) (string, error) {
	anchor, anchorHour, err := parseEndpoint(anchorStr)
	if err != nil {
		return "", &InvalidFormatError{Timeframe: anchorStr + " " + offset}
	}

	groups := offsetRe.FindStringSubmatch(offset)
	count, err := strconv.Atoi(groups[1])
	if err != nil {
		return "", &InvalidOffsetError{Offset: offset}
	}

	var start time.Time
	switch groups[2] {
	case "y":
		start = anchor.AddDate(-count, 0, 0)
	case "m":
		// the service treats "N months back" as starting one day later
		// than the plain calendar subtraction, keep that behavior
		start = anchor.AddDate(0, -count, 1)
	case "H", "d":
		span := time.Duration(count) * time.Hour
		if groups[2] == "d" {
			span = time.Duration(count) * 24 * time.Hour
		}
		if anchorHour && span > maxHourSpan {
			return "", &MaxHourRangeError{
				Timeframe: anchorStr + " " + offset,
				Span:      span,
			}
		}
		start = anchor.Add(-span)
	default:
		return "", &InvalidOffsetError{Offset: offset}
	}

	format := dayFormat
	if anchorHour {
		format = hourFormat
	}
	return start.Format(format) + " " + anchor.Format(format), nil
}

// parseEndpoint parses a "YYYY-MM-DD" or "YYYY-MM-DDTHH" endpoint,
// reporting whether an hour component was present.
func parseEndpoint(s string) (time.Time, bool, error) {
	if strings.Contains(s, "T") {
		t, err := time.Parse(hourFormat, s)
		return t, true, err
	}
	t, err := time.Parse(dayFormat, s)
	return t, false, err
}

// Duration computes the span covered by a timeframe expression, expanding
// fixed tokens first.
func Duration(expr string) (time.Duration, error) {
	expanded, err := Expand(expr)
	if err != nil {
		return 0, err
	}

	parts := strings.Split(expanded, " ")
	if len(parts) != 2 {
		return 0, &InvalidFormatError{Timeframe: expanded}
	}
	start, _, err := parseEndpoint(parts[0])
	if err != nil {
		return 0, &InvalidFormatError{Timeframe: expanded}
	}
	end, _, err := parseEndpoint(parts[1])
	if err != nil {
		return 0, &InvalidFormatError{Timeframe: expanded}
	}
	return end.Sub(start), nil
}

// VerifyConsistent requires every timeframe in the list to cover exactly
// the same span. A single timeframe is trivially consistent.
func VerifyConsistent(exprs []string) error {
	if len(exprs) <= 1 {
		return nil
	}

	durations := make([]time.Duration, len(exprs))
	for i, expr := range exprs {
		d, err := Duration(expr)
		if err != nil {
			return err
		}
		durations[i] = d
	}

	for _, d := range durations[1:] {
		if d != durations[0] {
			return &InconsistentError{
				Timeframes: append([]string(nil), exprs...),
				Durations:  durations,
			}
		}
	}
	return nil
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.0fh", d.Hours())
}
