package trends

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

type request struct {
	path   string
	params url.Values
	// non-nil switches the dispatch to a form POST
	form url.Values
}

// bootstrap warms the session up by fetching the landing page and the
// explore page, which together seed the cookies the API endpoints expect.
// Failure leaves the session unbootstrapped; the next dispatch tries
// again.
func (c *Client) bootstrap(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "bootstrap")
	defer span.End()

	for _, path := range []string{"/", explorePagePath} {
		res, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("hl", c.language).
			Get(path)
		if err != nil {
			span.SetStatus(codes.Error, "bootstrap request failed")
			return fmt.Errorf("session bootstrap: %w", err)
		}
		if res.StatusCode() >= 400 {
			span.SetStatus(codes.Error, "bootstrap request rejected")
			return fmt.Errorf(
				"session bootstrap: status %d fetching %s",
				res.StatusCode(), path,
			)
		}
	}

	c.bootstrapped = true
	c.degraded = false
	return nil
}

// throttle blocks until the oldest of the two tracked dispatch times is at
// least requestDelay in the past, then claims that slot. Once both slots
// are warm this spaces consecutive dispatches requestDelay/2 apart.
func (c *Client) throttle() {
	oldest := 0
	for i := 1; i < len(c.lastDispatch); i++ {
		if c.lastDispatch[i].Before(c.lastDispatch[oldest]) {
			oldest = i
		}
	}

	if wait := c.requestDelay - c.now().Sub(c.lastDispatch[oldest]); wait > 0 {
		c.sleep(wait)
	}
	c.lastDispatch[oldest] = c.now()
}

// dispatch sends one request through the session, bootstrapping first when
// needed and retrying through the backoff ladder. Every attempt passes the
// throttle gate.
func (c *Client) dispatch(ctx context.Context, req request) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "dispatch")
	defer span.End()

	if !c.bootstrapped {
		if err := c.bootstrap(ctx); err != nil {
			return nil, err
		}
	}

	var statuses []int
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if c.degraded {
			if err := c.bootstrap(ctx); err != nil {
				slog.WarnContext(ctx, "session re-bootstrap failed", "err", err)
			}
		}

		c.throttle()

		r := c.http.R().SetContext(ctx).SetQueryParamsFromValues(req.params)
		var res *resty.Response
		var err error
		if req.form != nil {
			res, err = r.SetFormDataFromValues(req.form).Post(req.path)
		} else {
			res, err = r.Get(req.path)
		}
		if err != nil {
			if attempt == c.maxRetries-1 {
				span.SetStatus(codes.Error, "transport failed")
				return nil, fmt.Errorf("request failed: %w", err)
			}
			slog.WarnContext(ctx, "request attempt failed", "attempt", attempt, "err", err)
			continue
		}

		status := res.StatusCode()
		switch status {
		case http.StatusOK:
			return res, nil
		case http.StatusTooManyRequests, http.StatusFound:
			statuses = append(statuses, status)
			c.sleep(time.Duration(5<<attempt) * time.Second)
		case http.StatusUnauthorized, http.StatusForbidden:
			statuses = append(statuses, status)
			c.degraded = true
		default:
			statuses = append(statuses, status)
		}
	}

	span.SetStatus(codes.Error, "retry budget exhausted")
	exhausted := &RequestExhaustedError{StatusCodes: statuses}
	rateLimited := 0
	for _, status := range statuses {
		if status == http.StatusTooManyRequests {
			rateLimited++
		}
	}
	if rateLimited*2 > len(statuses) {
		exhausted.Advice = "most attempts were rate limited, consider increasing the request delay"
	}
	return nil, exhausted
}
