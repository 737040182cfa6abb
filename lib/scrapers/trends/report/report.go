package report

import (
	"strconv"
	"time"
)

// TimelinePoint is one sample of an interest-over-time series, keyed by
// the label of each compared term.
type TimelinePoint struct {
	Time    time.Time
	Label   string
	Values  map[string]int
	Partial bool
}

// Timeline pairs the sampled points with the per-term averages the
// service computes over the whole range.
type Timeline struct {
	Points   []TimelinePoint
	Averages map[string]int
}

func parseUnix(s string) time.Time {
	seconds, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}

// labelFor pads missing labels with the series index so a short label
// list never drops data.
func labelFor(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return "series " + strconv.Itoa(i)
}

// NewTimeline projects a raw timeline payload onto labels, one label per
// compared term.
func NewTimeline(payload TimelinePayload, labels []string) *Timeline {
	out := &Timeline{Averages: map[string]int{}}
	for i, avg := range payload.Default.Averages {
		out.Averages[labelFor(labels, i)] = avg
	}
	for _, point := range payload.Default.TimelineData {
		values := make(map[string]int, len(point.Value))
		for i, v := range point.Value {
			values[labelFor(labels, i)] = v
		}
		out.Points = append(out.Points, TimelinePoint{
			Time:    parseUnix(point.Time),
			Label:   point.FormattedTime,
			Values:  values,
			Partial: point.IsPartial,
		})
	}
	return out
}

// MultirangeSeries is one compared timeframe's series.
type MultirangeSeries struct {
	Label  string
	Points []TimelinePoint
}

// NewMultirange transposes the row-of-columns multirange payload into one
// series per compared timeframe.
func NewMultirange(payload MultirangePayload, labels []string) []MultirangeSeries {
	var out []MultirangeSeries
	for _, row := range payload.Default.TimelineData {
		for i, col := range row.ColumnData {
			if i >= len(out) {
				out = append(out, MultirangeSeries{Label: labelFor(labels, i)})
			}
			out[i].Points = append(out[i].Points, TimelinePoint{
				Time:   parseUnix(col.Time),
				Label:  col.FormattedTime,
				Values: map[string]int{out[i].Label: col.Value},
			})
		}
	}
	return out
}

// RegionValue is one region's interest values, keyed by term label.
type RegionValue struct {
	Code   string
	Name   string
	Values map[string]int
}

// NewRegions projects a geo payload onto labels, skipping regions the
// service marked as having no data for any term.
func NewRegions(payload GeoPayload, labels []string) []RegionValue {
	var out []RegionValue
	for _, region := range payload.Default.GeoMapData {
		values := make(map[string]int, len(region.Value))
		hasAny := false
		for i, v := range region.Value {
			if i < len(region.HasData) && !region.HasData[i] {
				continue
			}
			values[labelFor(labels, i)] = v
			hasAny = true
		}
		if !hasAny {
			continue
		}
		out = append(out, RegionValue{
			Code:   region.GeoCode,
			Name:   region.GeoName,
			Values: values,
		})
	}
	return out
}

// RelatedEntry is one related query or topic.
type RelatedEntry struct {
	Query     string
	Value     int
	Formatted string
	Link      string
}

// RelatedGroups splits related results into the two ranked lists the
// service returns.
type RelatedGroups struct {
	Top    []RelatedEntry
	Rising []RelatedEntry
}

// NewRelated maps the first ranked list to Top and the second to Rising.
// Topic entries carry their text in the topic title instead of the query
// field.
func NewRelated(payload RelatedPayload) RelatedGroups {
	var groups RelatedGroups
	for i, list := range payload.Default.RankedList {
		var entries []RelatedEntry
		for _, kw := range list.RankedKeyword {
			query := kw.Query
			if query == "" {
				query = kw.Topic.Title
			}
			entries = append(entries, RelatedEntry{
				Query:     query,
				Value:     kw.Value,
				Formatted: kw.FormattedValue,
				Link:      kw.Link,
			})
		}
		switch i {
		case 0:
			groups.Top = entries
		case 1:
			groups.Rising = entries
		}
	}
	return groups
}

// Suggestion is one autocomplete entity.
type Suggestion struct {
	Mid   string `json:"mid"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// TrendingSearch is one entry of the daily trending searches list.
type TrendingSearch struct {
	Query   string
	Traffic string
	Date    string
}

// NewTrendingSearches flattens the per-day trending lists, newest day
// first as the service returns them.
func NewTrendingSearches(payload DailyTrendsPayload) []TrendingSearch {
	var out []TrendingSearch
	for _, day := range payload.Default.TrendingSearchesDays {
		for _, search := range day.TrendingSearches {
			out = append(out, TrendingSearch{
				Query:   search.Title.Query,
				Traffic: search.FormattedTraffic,
				Date:    day.Date,
			})
		}
	}
	return out
}

// TopChartEntry is one year-in-review chart entry.
type TopChartEntry struct {
	Title        string `json:"title"`
	ExploreQuery string `json:"exploreQuery"`
}

// NewTopCharts flattens every chart's entries into one list.
func NewTopCharts(payload TopChartsPayload) []TopChartEntry {
	var out []TopChartEntry
	for _, chart := range payload.TopCharts {
		out = append(out, chart.ListItems...)
	}
	return out
}

// FeedItem is one entry of a trending RSS feed.
type FeedItem struct {
	Title     string
	Traffic   string
	Link      string
	Published time.Time
}

// TrendingStory is one news story attached to a trending search, decoded
// from the batch-RPC envelope.
type TrendingStory struct {
	Title  string
	URL    string
	Source string
}

// NewTrendingStories projects the positional arrays of the batch-RPC news
// payload: each story arrives as [title, url, source, ...].
func NewTrendingStories(raw []any) []TrendingStory {
	var out []TrendingStory
	for _, entry := range raw {
		fields, ok := entry.([]any)
		if !ok {
			continue
		}
		story := TrendingStory{
			Title:  stringAt(fields, 0),
			URL:    stringAt(fields, 1),
			Source: stringAt(fields, 2),
		}
		if story.Title == "" {
			continue
		}
		out = append(out, story)
	}
	return out
}

func stringAt(fields []any, i int) string {
	if i >= len(fields) {
		return ""
	}
	s, _ := fields[i].(string)
	return s
}
