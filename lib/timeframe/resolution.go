package timeframe

import "time"

// Resolution is the sampling granularity the service picks for a given
// timeframe span.
type Resolution string

const (
	ResolutionMinute         Resolution = "1 minute"
	ResolutionEightMinutes   Resolution = "8 minutes"
	ResolutionSixteenMinutes Resolution = "16 minutes"
	ResolutionHour           Resolution = "1 hour"
	ResolutionDay            Resolution = "1 day"
	ResolutionWeek           Resolution = "1 week"
	ResolutionMonth          Resolution = "1 month"
)

// sampling tiers observed from the service, thresholds in hours
func resolutionFor(d time.Duration) Resolution {
	hours := d.Hours()
	switch {
	case hours < 5:
		return ResolutionMinute
	case hours < 36:
		return ResolutionEightMinutes
	case hours < 72:
		return ResolutionSixteenMinutes
	case hours < 192:
		return ResolutionHour
	case hours < 6480:
		return ResolutionDay
	case hours < 45600:
		return ResolutionWeek
	default:
		return ResolutionMonth
	}
}

// ResolutionAndRange classifies a timeframe's span into its sampling
// resolution and returns the fully expanded canonical range alongside it.
func ResolutionAndRange(expr string) (Resolution, string, error) {
	expanded, err := Expand(expr)
	if err != nil {
		return "", "", err
	}
	d, err := Duration(expr)
	if err != nil {
		return "", "", err
	}
	return resolutionFor(d), expanded, nil
}

// CheckResolutionCompatible requires every timeframe to fall into the same
// sampling resolution, and within that resolution, requires the longest
// span to stay under twice the shortest. Series violating either read as
// visually incomparable when charted together.
func CheckResolutionCompatible(exprs []string) error {
	if len(exprs) <= 1 {
		return nil
	}

	details := make([]ResolutionDetail, len(exprs))
	distinct := map[Resolution]bool{}
	for i, expr := range exprs {
		d, err := Duration(expr)
		if err != nil {
			return err
		}
		details[i] = ResolutionDetail{
			Timeframe:  expr,
			Duration:   d,
			Resolution: resolutionFor(d),
		}
		distinct[details[i].Resolution] = true
	}

	if len(distinct) > 1 {
		return &DifferentResolutionsError{Details: details}
	}

	minDetail, maxDetail := details[0], details[0]
	for _, d := range details[1:] {
		if d.Duration < minDetail.Duration {
			minDetail = d
		}
		if d.Duration > maxDetail.Duration {
			maxDetail = d
		}
	}
	if maxDetail.Duration >= 2*minDetail.Duration {
		return &ResolutionRatioError{
			MinTimeframe: minDetail.Timeframe,
			MaxTimeframe: maxDetail.Timeframe,
			Min:          minDetail.Duration,
			Max:          maxDetail.Duration,
		}
	}
	return nil
}
