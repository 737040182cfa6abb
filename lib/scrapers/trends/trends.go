// Package trends implements a client for the unofficial Google Trends API.
// The service exposes no stable public surface: data access runs through a
// two-phase explore/fetch handshake with tokens scraped out of HTML/JS
// fragments, behind undocumented rate limits. The client carries the
// session cookies, a request throttle and a retry ladder needed to make
// that reliable.
package trends

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"gtrends/lib/restyutil"
	"gtrends/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/net/publicsuffix"
)

var tracer = otel.Tracer("scrapers/trends")

const (
	baseURL         = "https://trends.google.com"
	embedPath       = "/trends/embed/explore/"
	explorePagePath = "/trends/explore"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

var instrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes clients created afterwards dump their
// HTTP exchanges to the given output. Debugging aid, off by default.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	instrumentOutput = output
}

// Client talks to the trends service. A client owns its cookie jar and
// throttle state exclusively; calls on one instance must be serialized by
// the caller, separate instances are fully independent.
type Client struct {
	http      *resty.Client
	transport *http.Transport

	language    string
	tz          int
	entityNames bool

	requestDelay time.Duration
	maxRetries   int

	extractor TokenExtractor

	// session state, see bootstrap
	bootstrapped bool
	degraded     bool

	// the two most recent dispatch times, oldest replaced first
	lastDispatch [2]time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// ClientOptions configures a Client at construction. The zero value is
// usable: english, local timezone, 2s between requests, 3 attempts.
type ClientOptions struct {
	// normalized to its first two characters
	Language string
	// minutes west of UTC, as the service expects; defaults to the
	// local zone's offset
	TimezoneOffset *int
	// minimum spacing enforced by the throttle window
	RequestDelay time.Duration
	MaxRetries   int
	// label output series with the entity names the service returns
	// instead of the request keywords
	EntityNames bool
	// replaces the default embedded-literal token extraction
	Extractor TokenExtractor
	// overrides the service base URL, used by tests
	BaseURL string
}

func NewClient(opts ClientOptions) (*Client, error) {
	client := resty.New()
	if opts.BaseURL != "" {
		client.SetBaseURL(opts.BaseURL)
	} else {
		client.SetBaseURL(baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)

	inner, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		inner = &http.Transport{}
	}
	inner = inner.Clone()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(inner)

	client.SetHeader("user-agent", userAgent)
	// keep redirect responses visible to the retry ladder instead of
	// following them
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/trends/http")
	restyutil.InstrumentClient(client, tracer, instrumentOutput)

	c := &Client{
		http:         client,
		transport:    inner,
		language:     normalizeLanguage(opts.Language),
		tz:           timezoneOffset(opts.TimezoneOffset),
		entityNames:  opts.EntityNames,
		requestDelay: opts.RequestDelay,
		maxRetries:   opts.MaxRetries,
		extractor:    opts.Extractor,
		now:          time.Now,
		sleep:        time.Sleep,
	}
	if c.requestDelay <= 0 {
		c.requestDelay = 2 * time.Second
	}
	if c.maxRetries <= 0 {
		c.maxRetries = 3
	}
	if c.extractor == nil {
		c.extractor = scriptLiteralExtractor{}
	}
	return c, nil
}

// SetProxy routes every scheme through one proxy URL, starting with the
// next dispatch.
func (c *Client) SetProxy(proxyURL string) error {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return err
	}
	c.transport.Proxy = http.ProxyURL(parsed)
	return nil
}

// SetProxyMap routes requests through a per-scheme proxy, e.g.
// {"http": "...", "https": "..."}. Schemes without an entry go direct.
func (c *Client) SetProxyMap(proxies map[string]string) error {
	parsed := make(map[string]*url.URL, len(proxies))
	for scheme, raw := range proxies {
		u, err := url.Parse(raw)
		if err != nil {
			return err
		}
		parsed[scheme] = u
	}
	c.transport.Proxy = func(req *http.Request) (*url.URL, error) {
		return parsed[req.URL.Scheme], nil
	}
	return nil
}

func normalizeLanguage(lang string) string {
	if lang == "" {
		return "en"
	}
	if len(lang) > 2 {
		return lang[:2]
	}
	return lang
}

func timezoneOffset(minutes *int) int {
	if minutes != nil {
		return *minutes
	}
	_, offsetSeconds := time.Now().Zone()
	return -offsetSeconds / 60
}
