package trends

import (
	"context"

	"gtrends/lib/scrapers/trends/report"
	"gtrends/lib/timeframe"
)

const defaultTimeframe = "today 12-m"

// ExploreOptions scope an explore-based report.
type ExploreOptions struct {
	// defaults to "today 12-m"
	Timeframe string
	// empty means worldwide
	Geo string
	// defaults to 0, "all categories"
	Category int
	// search property filter ("news", "images", ...), empty for web
	Property string
}

func (o ExploreOptions) timeframe() string {
	if o.Timeframe == "" {
		return defaultTimeframe
	}
	return o.Timeframe
}

// InterestOverTime fetches the time series of relative search interest
// for up to five compared keywords.
func (c *Client) InterestOverTime(
	ctx context.Context, keywords []string, opts ExploreOptions,
) (*report.Timeline, error) {
	ctx, span := tracer.Start(ctx, "InterestOverTime")
	defer span.End()

	items, err := alignComparisonItems(
		keywords, []string{opts.timeframe()}, []string{opts.Geo},
	)
	if err != nil {
		return nil, err
	}

	token, err := c.exploreWidget(
		ctx, embedTimeseries,
		buildExploreRequest(items, opts.Category, opts.Property),
		nil, false,
	)
	if err != nil {
		return nil, err
	}

	var payload report.TimelinePayload
	if err := c.fetchWidget(ctx, token, &payload); err != nil {
		return nil, err
	}
	return report.NewTimeline(payload, c.seriesLabels(keywords, token)), nil
}

// MultirangeInterestOverTime compares the same keywords across several
// timeframes. The timeframes must cover equal spans at one sampling
// resolution or the comparison is rejected before any request goes out.
func (c *Client) MultirangeInterestOverTime(
	ctx context.Context, keywords, timeframes []string, opts ExploreOptions,
) ([]report.MultirangeSeries, error) {
	ctx, span := tracer.Start(ctx, "MultirangeInterestOverTime")
	defer span.End()

	if err := timeframe.VerifyConsistent(timeframes); err != nil {
		return nil, err
	}
	if err := timeframe.CheckResolutionCompatible(timeframes); err != nil {
		return nil, err
	}

	items, err := alignComparisonItems(keywords, timeframes, []string{opts.Geo})
	if err != nil {
		return nil, err
	}

	token, err := c.exploreWidget(
		ctx, embedTimeseries,
		buildExploreRequest(items, opts.Category, opts.Property),
		nil, false,
	)
	if err != nil {
		return nil, err
	}

	var payload report.MultirangePayload
	if err := c.fetchWidget(ctx, token, &payload); err != nil {
		return nil, err
	}
	return report.NewMultirange(payload, c.seriesLabels(timeframes, token)), nil
}

// RegionOptions scope a geo-distribution report.
type RegionOptions struct {
	ExploreOptions
	// COUNTRY, REGION, CITY or DMA; the service picks when empty
	Resolution string
	// also return regions with little search volume
	IncludeLowVolume bool
}

// InterestByRegion fetches the geographic distribution of search
// interest. Resolution and low-volume inclusion ride along as overrides
// on the widget token's request.
func (c *Client) InterestByRegion(
	ctx context.Context, keywords []string, opts RegionOptions,
) ([]report.RegionValue, error) {
	ctx, span := tracer.Start(ctx, "InterestByRegion")
	defer span.End()

	items, err := alignComparisonItems(
		keywords, []string{opts.timeframe()}, []string{opts.Geo},
	)
	if err != nil {
		return nil, err
	}

	overrides := map[string]any{
		"includeLowSearchVolumeGeos": opts.IncludeLowVolume,
	}
	if opts.Resolution != "" {
		overrides["resolution"] = opts.Resolution
	}

	token, err := c.exploreWidget(
		ctx, embedGeoMap,
		buildExploreRequest(items, opts.Category, opts.Property),
		overrides, false,
	)
	if err != nil {
		return nil, err
	}

	var payload report.GeoPayload
	if err := c.fetchWidget(ctx, token, &payload); err != nil {
		return nil, err
	}
	return report.NewRegions(payload, c.seriesLabels(keywords, token)), nil
}

// RelatedQueries fetches the top and rising queries searched alongside a
// single keyword. The service enforces its session quota on related data,
// so the quota flag in the explore response is honored before fetching.
func (c *Client) RelatedQueries(
	ctx context.Context, keywords []string, opts ExploreOptions,
) (report.RelatedGroups, error) {
	return c.related(ctx, embedRelatedQueries, keywords, opts)
}

// RelatedTopics fetches the top and rising topics for a single keyword.
func (c *Client) RelatedTopics(
	ctx context.Context, keywords []string, opts ExploreOptions,
) (report.RelatedGroups, error) {
	return c.related(ctx, embedRelatedTopics, keywords, opts)
}

func (c *Client) related(
	ctx context.Context, kind string, keywords []string, opts ExploreOptions,
) (report.RelatedGroups, error) {
	ctx, span := tracer.Start(ctx, "related")
	defer span.End()

	if err := requireSingleKeyword(keywords); err != nil {
		return report.RelatedGroups{}, err
	}

	items, err := alignComparisonItems(
		keywords, []string{opts.timeframe()}, []string{opts.Geo},
	)
	if err != nil {
		return report.RelatedGroups{}, err
	}

	token, err := c.exploreWidget(
		ctx, kind,
		buildExploreRequest(items, opts.Category, opts.Property),
		nil, true,
	)
	if err != nil {
		return report.RelatedGroups{}, err
	}

	var payload report.RelatedPayload
	if err := c.fetchWidget(ctx, token, &payload); err != nil {
		return report.RelatedGroups{}, err
	}
	return report.NewRelated(payload), nil
}
