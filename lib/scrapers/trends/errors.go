package trends

import (
	"fmt"
	"strings"
)

// CombinationSizeError reports keyword/timeframe/geo lists whose lengths
// cannot be aligned into comparison items.
type CombinationSizeError struct {
	Keywords   int
	Timeframes int
	Geos       int
}

func (e *CombinationSizeError) Error() string {
	return fmt.Sprintf(
		"cannot align %d keywords, %d timeframes and %d geos: every length must evenly divide the largest",
		e.Keywords, e.Timeframes, e.Geos,
	)
}

// SingleKeywordError reports more than one keyword passed to an operation
// that accepts exactly one.
type SingleKeywordError struct {
	Count int
}

func (e *SingleKeywordError) Error() string {
	return fmt.Sprintf("this operation accepts exactly one keyword, got %d", e.Count)
}

// RequestExhaustedError reports a request that failed on every attempt of
// the retry budget. StatusCodes holds every non-200 status observed, in
// order.
type RequestExhaustedError struct {
	StatusCodes []int
	Advice      string
}

func (e *RequestExhaustedError) Error() string {
	codes := make([]string, len(e.StatusCodes))
	for i, c := range e.StatusCodes {
		codes[i] = fmt.Sprintf("%d", c)
	}
	msg := fmt.Sprintf("request failed after %d attempts (status codes: %s)",
		len(e.StatusCodes), strings.Join(codes, ", "))
	if e.Advice != "" {
		msg += "; " + e.Advice
	}
	return msg
}

// ResponseFormatError reports a response the protocol layer could not make
// sense of.
type ResponseFormatError struct {
	Reason string
	Err    error
}

func (e *ResponseFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected response format: %s: %s", e.Reason, e.Err)
	}
	return "unexpected response format: " + e.Reason
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}

// QuotaExceededError reports a session the service has marked over-quota;
// further widget fetches would be refused.
type QuotaExceededError struct{}

func (e *QuotaExceededError) Error() string {
	return "the session is over its request quota, create a new client or wait before retrying"
}
