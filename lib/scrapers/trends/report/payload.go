// Package report reshapes the raw widget payloads the trends API returns
// into friendly structures. It carries no protocol logic and does no I/O.
package report

// TimelinePayload is the raw shape of the interest-over-time widget.
type TimelinePayload struct {
	Default struct {
		TimelineData []TimelinePointPayload `json:"timelineData"`
		Averages     []int                  `json:"averages"`
	} `json:"default"`
}

type TimelinePointPayload struct {
	Time          string `json:"time"`
	FormattedTime string `json:"formattedTime"`
	Value         []int  `json:"value"`
	IsPartial     bool   `json:"isPartial"`
}

// MultirangePayload is the raw shape of the multi-range time-series
// widget: rows of columns, one column per compared timeframe.
type MultirangePayload struct {
	Default struct {
		TimelineData []struct {
			ColumnData []MultirangeColumnPayload `json:"columnData"`
		} `json:"timelineData"`
	} `json:"default"`
}

type MultirangeColumnPayload struct {
	Time          string `json:"time"`
	FormattedTime string `json:"formattedTime"`
	Value         int    `json:"value"`
}

// GeoPayload is the raw shape of both geo-distribution widgets.
type GeoPayload struct {
	Default struct {
		GeoMapData []struct {
			GeoCode  string `json:"geoCode"`
			GeoName  string `json:"geoName"`
			Value    []int  `json:"value"`
			HasData  []bool `json:"hasData"`
			MaxValue []int  `json:"maxValueIndex"`
		} `json:"geoMapData"`
	} `json:"default"`
}

// RelatedPayload is the raw shape of the related-searches widget. The
// ranked lists arrive top first, rising second.
type RelatedPayload struct {
	Default struct {
		RankedList []struct {
			RankedKeyword []struct {
				Query string `json:"query"`
				Topic struct {
					Mid   string `json:"mid"`
					Title string `json:"title"`
					Type  string `json:"type"`
				} `json:"topic"`
				Value          int    `json:"value"`
				FormattedValue string `json:"formattedValue"`
				Link           string `json:"link"`
			} `json:"rankedKeyword"`
		} `json:"rankedList"`
	} `json:"default"`
}

// AutocompletePayload is the raw shape of the autocomplete endpoint.
type AutocompletePayload struct {
	Default struct {
		Topics []Suggestion `json:"topics"`
	} `json:"default"`
}

// DailyTrendsPayload is the raw shape of the daily trending searches
// endpoint.
type DailyTrendsPayload struct {
	Default struct {
		TrendingSearchesDays []struct {
			Date             string `json:"date"`
			TrendingSearches []struct {
				Title struct {
					Query string `json:"query"`
				} `json:"title"`
				FormattedTraffic string `json:"formattedTraffic"`
			} `json:"trendingSearches"`
		} `json:"trendingSearchesDays"`
	} `json:"default"`
}

// TopChartsPayload is the raw shape of the year-in-review endpoint.
type TopChartsPayload struct {
	TopCharts []struct {
		Title     string          `json:"title"`
		ListItems []TopChartEntry `json:"listItems"`
	} `json:"topCharts"`
}
