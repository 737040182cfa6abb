package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"gtrends/lib/scrapers/trends/report"

	"github.com/mmcdole/gofeed"
)

const (
	autocompletePath  = "/trends/api/autocomplete/"
	dailyTrendsPath   = "/trends/api/dailytrends"
	hotTrendsPath     = "/trends/hottrends/visualize/internal/data"
	topChartsPath     = "/trends/api/topcharts"
	dailyRSSPath      = "/trends/trendingsearches/daily/rss"
	hotTrendsAtomPath = "/trends/hottrends/atom/feed"
	batchExecutePath  = "/_/TrendsUi/data/batchexecute"

	trendingNewsRPC = "w4opAf"
)

// Suggestions fetches autocomplete entities for a keyword, useful for
// pinning an explore request to a topic instead of a raw search string.
func (c *Client) Suggestions(ctx context.Context, keyword string) ([]report.Suggestion, error) {
	ctx, span := tracer.Start(ctx, "Suggestions")
	defer span.End()

	res, err := c.dispatch(ctx, request{
		path:   autocompletePath + url.PathEscape(keyword),
		params: c.localeParams(),
	})
	if err != nil {
		return nil, err
	}

	var payload report.AutocompletePayload
	if err := parseProtectedJSON(res.Body(), res.Header().Get("Content-Type"), &payload); err != nil {
		return nil, err
	}
	return payload.Default.Topics, nil
}

// TrendingSearches fetches the daily trending searches for a geo.
func (c *Client) TrendingSearches(ctx context.Context, geo string) ([]report.TrendingSearch, error) {
	ctx, span := tracer.Start(ctx, "TrendingSearches")
	defer span.End()

	params := c.localeParams()
	params.Set("geo", geo)

	res, err := c.dispatch(ctx, request{path: dailyTrendsPath, params: params})
	if err != nil {
		return nil, err
	}

	var payload report.DailyTrendsPayload
	if err := parseProtectedJSON(res.Body(), res.Header().Get("Content-Type"), &payload); err != nil {
		return nil, err
	}
	return report.NewTrendingSearches(payload), nil
}

// HotTrends fetches the hot trends visualization data, a plain JSON map
// of country name to currently trending searches.
func (c *Client) HotTrends(ctx context.Context) (map[string][]string, error) {
	ctx, span := tracer.Start(ctx, "HotTrends")
	defer span.End()

	res, err := c.dispatch(ctx, request{path: hotTrendsPath, params: c.localeParams()})
	if err != nil {
		return nil, err
	}

	out := map[string][]string{}
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return nil, &ResponseFormatError{Reason: "hot trends payload is not valid JSON", Err: err}
	}
	return out, nil
}

// TopCharts fetches the year-in-review charts for a year. Geo defaults to
// GLOBAL.
func (c *Client) TopCharts(ctx context.Context, year int, geo string) ([]report.TopChartEntry, error) {
	ctx, span := tracer.Start(ctx, "TopCharts")
	defer span.End()

	if geo == "" {
		geo = "GLOBAL"
	}
	params := c.localeParams()
	params.Set("date", strconv.Itoa(year))
	params.Set("geo", geo)
	params.Set("isMobile", "false")

	res, err := c.dispatch(ctx, request{path: topChartsPath, params: params})
	if err != nil {
		return nil, err
	}

	var payload report.TopChartsPayload
	if err := parseProtectedJSON(res.Body(), res.Header().Get("Content-Type"), &payload); err != nil {
		return nil, err
	}
	return report.NewTopCharts(payload), nil
}

// TrendingRSS fetches the daily trending searches RSS feed for a geo.
func (c *Client) TrendingRSS(ctx context.Context, geo string) ([]report.FeedItem, error) {
	ctx, span := tracer.Start(ctx, "TrendingRSS")
	defer span.End()

	res, err := c.dispatch(ctx, request{
		path:   dailyRSSPath,
		params: url.Values{"geo": {geo}},
	})
	if err != nil {
		return nil, err
	}
	return parseTrendingFeed(res.Body())
}

// HotTrendsRSS fetches the hot trends atom feed.
func (c *Client) HotTrendsRSS(ctx context.Context) ([]report.FeedItem, error) {
	ctx, span := tracer.Start(ctx, "HotTrendsRSS")
	defer span.End()

	res, err := c.dispatch(ctx, request{
		path:   hotTrendsAtomPath,
		params: url.Values{"pn": {"p1"}},
	})
	if err != nil {
		return nil, err
	}
	return parseTrendingFeed(res.Body())
}

func parseTrendingFeed(body []byte) ([]report.FeedItem, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ResponseFormatError{Reason: "unparsable feed", Err: err}
	}

	var out []report.FeedItem
	for _, item := range feed.Items {
		entry := report.FeedItem{
			Title: item.Title,
			Link:  item.Link,
		}
		if item.PublishedParsed != nil {
			entry.Published = *item.PublishedParsed
		}
		if ext, ok := item.Extensions["ht"]["approx_traffic"]; ok && len(ext) > 0 {
			entry.Traffic = ext[0].Value
		}
		out = append(out, entry)
	}
	return out, nil
}

// TrendingStories fetches the news stories attached to trending searches
// through the service's batch-RPC endpoint.
func (c *Client) TrendingStories(ctx context.Context, ids []string) ([]report.TrendingStory, error) {
	ctx, span := tracer.Start(ctx, "TrendingStories")
	defer span.End()

	args, err := json.Marshal([]any{ids})
	if err != nil {
		return nil, err
	}
	envelope, err := json.Marshal([]any{
		[]any{[]any{trendingNewsRPC, string(args), nil, "generic"}},
	})
	if err != nil {
		return nil, err
	}

	params := c.localeParams()
	params.Set("rpcids", trendingNewsRPC)

	res, err := c.dispatch(ctx, request{
		path:   batchExecutePath,
		params: params,
		form:   url.Values{"f.req": {string(envelope)}},
	})
	if err != nil {
		return nil, err
	}

	decoded, err := parseBatchEnvelope(res.Body(), trendingNewsRPC)
	if err != nil {
		return nil, err
	}
	if len(decoded) > 0 {
		if stories, ok := decoded[0].([]any); ok {
			return report.NewTrendingStories(stories), nil
		}
	}
	return report.NewTrendingStories(decoded), nil
}

// parseBatchEnvelope unwraps a batch-RPC response: after the protection
// preamble, the body interleaves chunk lengths with JSON arrays; the
// entry tagged "wrb.fr" for our rpc id carries the payload as a nested
// JSON string.
func parseBatchEnvelope(body []byte, rpcID string) ([]any, error) {
	for _, line := range bytes.Split(body, []byte("\n")) {
		if !bytes.HasPrefix(bytes.TrimSpace(line), []byte("[[")) {
			continue
		}

		var frame []any
		if err := json.Unmarshal(line, &frame); err != nil {
			continue
		}
		for _, entry := range frame {
			fields, ok := entry.([]any)
			if !ok || len(fields) < 3 {
				continue
			}
			if tag, _ := fields[0].(string); tag != "wrb.fr" {
				continue
			}
			if id, _ := fields[1].(string); id != rpcID {
				continue
			}
			payload, ok := fields[2].(string)
			if !ok {
				continue
			}

			var decoded []any
			if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
				return nil, &ResponseFormatError{Reason: "batch payload is not valid JSON", Err: err}
			}
			return decoded, nil
		}
	}
	return nil, &ResponseFormatError{Reason: "no batch frame for rpc " + rpcID}
}
