package trends

import (
	"gtrends/lib/timeframe"
)

// ComparisonItem is one (keyword, timeframe, geo) row of an explore
// request.
type ComparisonItem struct {
	Keyword string `json:"keyword"`
	Geo     string `json:"geo"`
	Time    string `json:"time"`
}

type exploreRequest struct {
	ComparisonItems []ComparisonItem `json:"comparisonItem"`
	Category        int              `json:"category"`
	Property        string           `json:"property"`
}

// doubleToAtLeast grows a list by repeated self-concatenation until it
// reaches at least n elements. When n divided by the input length is not a
// power of two the result overshoots n; the alignment below zips the
// padded lists, so the longest input (never doubled) pins the item count.
// The upstream service client has always padded this way, keep it.
func doubleToAtLeast(list []string, n int) []string {
	out := append([]string(nil), list...)
	for len(out) < n {
		out = append(out, out...)
	}
	return out
}

// alignComparisonItems combines the three input lists into one comparison
// item per index. Scalar inputs arrive as one-element lists; every list
// length must evenly divide the largest. Timeframes are canonicalized as
// the items are built.
func alignComparisonItems(keywords, timeframes, geos []string) ([]ComparisonItem, error) {
	n := len(keywords)
	if len(timeframes) > n {
		n = len(timeframes)
	}
	if len(geos) > n {
		n = len(geos)
	}

	sizeErr := &CombinationSizeError{
		Keywords:   len(keywords),
		Timeframes: len(timeframes),
		Geos:       len(geos),
	}
	if len(keywords) == 0 || len(timeframes) == 0 || len(geos) == 0 {
		return nil, sizeErr
	}
	if n%len(keywords) != 0 || n%len(timeframes) != 0 || n%len(geos) != 0 {
		return nil, sizeErr
	}

	kw := doubleToAtLeast(keywords, n)
	tf := doubleToAtLeast(timeframes, n)
	geo := doubleToAtLeast(geos, n)

	count := len(kw)
	if len(tf) < count {
		count = len(tf)
	}
	if len(geo) < count {
		count = len(geo)
	}

	items := make([]ComparisonItem, 0, count)
	for i := 0; i < count; i++ {
		canonical, err := timeframe.Canonicalize(tf[i])
		if err != nil {
			return nil, err
		}
		items = append(items, ComparisonItem{
			Keyword: kw[i],
			Geo:     geo[i],
			Time:    canonical,
		})
	}
	return items, nil
}

func buildExploreRequest(items []ComparisonItem, category int, property string) exploreRequest {
	return exploreRequest{
		ComparisonItems: items,
		Category:        category,
		Property:        property,
	}
}

// requireSingleKeyword guards operations the service only supports for one
// keyword at a time, before any request goes out.
func requireSingleKeyword(keywords []string) error {
	if len(keywords) != 1 {
		return &SingleKeywordError{Count: len(keywords)}
	}
	return nil
}
