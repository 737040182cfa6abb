package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewTimeline(t *testing.T) {
	raw := `{
		"default": {
			"timelineData": [
				{"time": "1704067200", "formattedTime": "Jan 1, 2024", "value": [40, 60], "isPartial": false},
				{"time": "1704153600", "formattedTime": "Jan 2, 2024", "value": [45, 55], "isPartial": true}
			],
			"averages": [42, 58]
		}
	}`
	var payload TimelinePayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	got := NewTimeline(payload, []string{"coffee", "tea"})
	expect := &Timeline{
		Points: []TimelinePoint{
			{
				Time:   time.Unix(1704067200, 0).UTC(),
				Label:  "Jan 1, 2024",
				Values: map[string]int{"coffee": 40, "tea": 60},
			},
			{
				Time:    time.Unix(1704153600, 0).UTC(),
				Label:   "Jan 2, 2024",
				Values:  map[string]int{"coffee": 45, "tea": 55},
				Partial: true,
			},
		},
		Averages: map[string]int{"coffee": 42, "tea": 58},
	}
	require.Empty(t, cmp.Diff(expect, got))
}

func TestNewTimelineShortLabels(t *testing.T) {
	var payload TimelinePayload
	payload.Default.TimelineData = []TimelinePointPayload{
		{Time: "1704067200", Value: []int{1, 2}},
	}

	got := NewTimeline(payload, []string{"only"})
	require.Equal(t, map[string]int{"only": 1, "series 1": 2}, got.Points[0].Values)
}

func TestNewMultirange(t *testing.T) {
	raw := `{
		"default": {
			"timelineData": [
				{"columnData": [
					{"time": "1704067200", "formattedTime": "Jan 1", "value": 10},
					{"time": "1706745600", "formattedTime": "Feb 1", "value": 20}
				]},
				{"columnData": [
					{"time": "1704153600", "formattedTime": "Jan 2", "value": 11},
					{"time": "1706832000", "formattedTime": "Feb 2", "value": 21}
				]}
			]
		}
	}`
	var payload MultirangePayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	got := NewMultirange(payload, []string{"january", "february"})
	require.Len(t, got, 2)
	require.Equal(t, "january", got[0].Label)
	require.Equal(t, "february", got[1].Label)
	require.Len(t, got[0].Points, 2)
	require.Equal(t, 20, got[1].Points[0].Values["february"])
}

func TestNewRegions(t *testing.T) {
	raw := `{
		"default": {
			"geoMapData": [
				{"geoCode": "US-CA", "geoName": "California", "value": [100], "hasData": [true]},
				{"geoCode": "US-NV", "geoName": "Nevada", "value": [0], "hasData": [false]}
			]
		}
	}`
	var payload GeoPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	got := NewRegions(payload, []string{"coffee"})
	require.Len(t, got, 1)
	require.Equal(t, "US-CA", got[0].Code)
	require.Equal(t, 100, got[0].Values["coffee"])
}

func TestNewRelated(t *testing.T) {
	raw := `{
		"default": {
			"rankedList": [
				{"rankedKeyword": [
					{"query": "coffee shop", "value": 100, "formattedValue": "100"}
				]},
				{"rankedKeyword": [
					{"topic": {"title": "Cold brew", "type": "Beverage"}, "value": 250, "formattedValue": "+250%"}
				]}
			]
		}
	}`
	var payload RelatedPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	got := NewRelated(payload)
	require.Len(t, got.Top, 1)
	require.Equal(t, "coffee shop", got.Top[0].Query)
	require.Len(t, got.Rising, 1)
	// topic entries carry their text in the topic title
	require.Equal(t, "Cold brew", got.Rising[0].Query)
	require.Equal(t, "+250%", got.Rising[0].Formatted)
}

func TestNewTrendingSearches(t *testing.T) {
	raw := `{
		"default": {
			"trendingSearchesDays": [
				{"date": "20240912", "trendingSearches": [
					{"title": {"query": "solar eclipse"}, "formattedTraffic": "2M+"}
				]}
			]
		}
	}`
	var payload DailyTrendsPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	got := NewTrendingSearches(payload)
	require.Equal(t, []TrendingSearch{
		{Query: "solar eclipse", Traffic: "2M+", Date: "20240912"},
	}, got)
}

func TestNewTrendingStories(t *testing.T) {
	raw := []any{
		[]any{"Story one", "https://example.com/1", "Example News"},
		[]any{"Story two", "https://example.com/2", "Other News", "extra"},
		"not a story",
		[]any{""},
	}
	got := NewTrendingStories(raw)
	require.Equal(t, []TrendingStory{
		{Title: "Story one", URL: "https://example.com/1", Source: "Example News"},
		{Title: "Story two", URL: "https://example.com/2", Source: "Other News"},
	}, got)
}

func TestNewTopCharts(t *testing.T) {
	var payload TopChartsPayload
	require.NoError(t, json.Unmarshal([]byte(`{
		"topCharts": [
			{"title": "Searches", "listItems": [{"title": "Weather", "exploreQuery": "weather"}]},
			{"title": "News", "listItems": [{"title": "Elections", "exploreQuery": "elections"}]}
		]
	}`), &payload))

	got := NewTopCharts(payload)
	require.Len(t, got, 2)
	require.Equal(t, "Weather", got[0].Title)
	require.Equal(t, "elections", got[1].ExploreQuery)
}
