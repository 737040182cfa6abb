package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"dario.cat/mergo"
	"go.opentelemetry.io/otel/codes"
)

// embed page variants, one per report kind
const (
	embedTimeseries     = "TIMESERIES"
	embedGeoMap         = "GEO_MAP"
	embedRelatedQueries = "RELATED_QUERIES"
	embedRelatedTopics  = "RELATED_TOPICS"
)

// each widget type the explore phase can hand back maps to exactly one
// fetch endpoint
var widgetEndpoints = map[string]string{
	"fe_line_chart":        "/trends/api/widgetdata/multiline",
	"fe_multi_range_chart": "/trends/api/widgetdata/multirange",
	"fe_geo_chart":         "/trends/api/widgetdata/geo",
	"fe_geo_chart_explore": "/trends/api/widgetdata/comparedgeo",
	"fe_related_searches":  "/trends/api/widgetdata/relatedsearches",
}

func (c *Client) localeParams() url.Values {
	return url.Values{
		"hl": {c.language},
		"tz": {strconv.Itoa(c.tz)},
	}
}

// exploreWidget runs phase 1: it submits the comparison items to the
// explore embed page for the given report kind and scrapes the widget
// token out of the response. Overrides are merged onto the token's request
// before the caller fetches with it.
func (c *Client) exploreWidget(
	ctx context.Context,
	kind string,
	req exploreRequest,
	overrides map[string]any,
	checkQuota bool,
) (*WidgetToken, error) {
	ctx, span := tracer.Start(ctx, "exploreWidget")
	defer span.End()

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	params := c.localeParams()
	params.Set("req", string(reqJSON))

	res, err := c.dispatch(ctx, request{path: embedPath + kind, params: params})
	if err != nil {
		span.SetStatus(codes.Error, "explore dispatch failed")
		return nil, err
	}

	literal, err := c.extractor.Extract(res.Body())
	if err != nil {
		span.SetStatus(codes.Error, "token extraction failed")
		return nil, err
	}
	token, err := parseWidgetToken(literal)
	if err != nil {
		span.SetStatus(codes.Error, "token parse failed")
		return nil, err
	}

	if len(overrides) > 0 {
		if err := mergo.Map(&token.Request, overrides, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("applying request overrides: %w", err)
		}
	}

	if checkQuota && token.overQuota {
		span.SetStatus(codes.Error, "session over quota")
		return nil, &QuotaExceededError{}
	}
	return token, nil
}

// fetchWidget runs phase 2: it replays the token's request against the
// fetch endpoint selected by the widget type and decodes the protected
// JSON answer into out.
func (c *Client) fetchWidget(ctx context.Context, token *WidgetToken, out any) error {
	ctx, span := tracer.Start(ctx, "fetchWidget")
	defer span.End()

	endpoint, ok := widgetEndpoints[token.Type]
	if !ok {
		return &ResponseFormatError{
			Reason: fmt.Sprintf("unknown widget type %q", token.Type),
		}
	}

	reqJSON, err := json.Marshal(token.Request)
	if err != nil {
		return err
	}
	params := c.localeParams()
	params.Set("req", string(reqJSON))
	params.Set("token", token.Token)

	res, err := c.dispatch(ctx, request{path: endpoint, params: params})
	if err != nil {
		span.SetStatus(codes.Error, "widget dispatch failed")
		return err
	}
	return parseProtectedJSON(res.Body(), res.Header().Get("Content-Type"), out)
}

// seriesLabels resolves the labels callers should pair output series with:
// the entity names the service returned when entity-name mode is on and
// the token carries them, the request keywords otherwise.
func (c *Client) seriesLabels(keywords []string, token *WidgetToken) []string {
	if c.entityNames && len(token.Bullets) > 0 {
		return token.Bullets
	}
	return keywords
}
