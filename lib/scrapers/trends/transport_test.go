package trends

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu    sync.Mutex
	at    time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{at: time.Date(2024, 9, 12, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.at
}

func (f *fakeClock) sleep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.at = f.at.Add(d)
	f.slept = append(f.slept, d)
}

// trendsServer fakes the upstream service: the bootstrap paths count
// their hits, every other path consumes the next scripted status.
type trendsServer struct {
	mu            sync.Mutex
	bootstrapHits map[string]int
	// 0 means 200
	bootstrapStatus int
	apiStatuses     []int
	apiBody         string
	apiContentType  string
	lastAPIRequest  *http.Request
}

func (s *trendsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.URL.Path {
	case "/", explorePagePath:
		s.bootstrapHits[r.URL.Path]++
		if s.bootstrapStatus != 0 {
			w.WriteHeader(s.bootstrapStatus)
		}
		return
	}

	r.ParseForm()
	s.lastAPIRequest = r

	status := http.StatusOK
	if len(s.apiStatuses) > 0 {
		status = s.apiStatuses[0]
		s.apiStatuses = s.apiStatuses[1:]
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	contentType := s.apiContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("content-type", contentType)
	io.WriteString(w, s.apiBody)
}

func newTestClient(t *testing.T) (*Client, *trendsServer, *fakeClock) {
	t.Helper()

	upstream := &trendsServer{bootstrapHits: map[string]int{}}
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseURL: server.URL,
		// keep the throttle out of the way unless a test opts in
		RequestDelay: time.Nanosecond,
	})
	require.NoError(t, err)

	clock := newFakeClock()
	client.now = clock.now
	client.sleep = clock.sleep
	return client, upstream, clock
}

func TestThrottleSpacing(t *testing.T) {
	clock := newFakeClock()
	client := &Client{
		requestDelay: 2 * time.Second,
		now:          clock.now,
		sleep:        clock.sleep,
	}

	start := clock.now()
	for i := 0; i < 6; i++ {
		client.throttle()
	}

	// two slots of 2s each admit six dispatches across two full delay
	// windows
	require.Equal(t, 4*time.Second, clock.now().Sub(start))
}

func TestThrottleFirstTwoImmediate(t *testing.T) {
	clock := newFakeClock()
	client := &Client{
		requestDelay: 2 * time.Second,
		now:          clock.now,
		sleep:        clock.sleep,
	}

	client.throttle()
	client.throttle()
	require.Empty(t, clock.slept)
}

func TestDispatchRetriesRateLimit(t *testing.T) {
	client, upstream, clock := newTestClient(t)
	upstream.apiStatuses = []int{429, 429, 200}
	upstream.apiBody = `{}`

	res, err := client.dispatch(context.Background(), request{path: "/api/widget"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	// backoff doubles from a 5 second base
	require.Contains(t, clock.slept, 5*time.Second)
	require.Contains(t, clock.slept, 10*time.Second)
}

func TestDispatchTreatsRedirectAsRetryable(t *testing.T) {
	client, upstream, _ := newTestClient(t)
	upstream.apiStatuses = []int{302, 200}
	upstream.apiBody = `{}`

	res, err := client.dispatch(context.Background(), request{path: "/api/widget"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
}

func TestDispatchExhaustion(t *testing.T) {
	t.Run("rate limited majority carries advice", func(t *testing.T) {
		client, upstream, _ := newTestClient(t)
		upstream.apiStatuses = []int{429, 429, 429}

		_, err := client.dispatch(context.Background(), request{path: "/api/widget"})
		var exhausted *RequestExhaustedError
		require.ErrorAs(t, err, &exhausted)
		require.Equal(t, []int{429, 429, 429}, exhausted.StatusCodes)
		require.NotEmpty(t, exhausted.Advice)
	})

	t.Run("mixed failures carry no advice", func(t *testing.T) {
		client, upstream, _ := newTestClient(t)
		upstream.apiStatuses = []int{500, 500, 429}

		_, err := client.dispatch(context.Background(), request{path: "/api/widget"})
		var exhausted *RequestExhaustedError
		require.ErrorAs(t, err, &exhausted)
		require.Equal(t, []int{500, 500, 429}, exhausted.StatusCodes)
		require.Empty(t, exhausted.Advice)
	})
}

func TestDispatchRebootstrapsAfterAuthFailure(t *testing.T) {
	client, upstream, _ := newTestClient(t)
	upstream.apiStatuses = []int{401, 200}
	upstream.apiBody = `{}`

	res, err := client.dispatch(context.Background(), request{path: "/api/widget"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	// once lazily before the first attempt, once again after the 401
	require.Equal(t, 2, upstream.bootstrapHits["/"])
	require.Equal(t, 2, upstream.bootstrapHits[explorePagePath])
}

func TestDispatchBootstrapFailureRetriedNextCall(t *testing.T) {
	client, upstream, _ := newTestClient(t)
	upstream.bootstrapStatus = http.StatusInternalServerError

	_, err := client.dispatch(context.Background(), request{path: "/api/widget"})
	require.ErrorContains(t, err, "session bootstrap")
	require.False(t, client.bootstrapped)

	upstream.mu.Lock()
	upstream.bootstrapStatus = 0
	upstream.mu.Unlock()

	res, err := client.dispatch(context.Background(), request{path: "/api/widget"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
	require.True(t, client.bootstrapped)
}

func TestDispatchFormPost(t *testing.T) {
	client, upstream, _ := newTestClient(t)
	upstream.apiBody = `{}`

	_, err := client.dispatch(context.Background(), request{
		path: "/api/batch",
		form: url.Values{"f.req": {"payload"}},
	})
	require.NoError(t, err)

	upstream.mu.Lock()
	defer upstream.mu.Unlock()
	require.Equal(t, http.MethodPost, upstream.lastAPIRequest.Method)
	require.Equal(t, "payload", upstream.lastAPIRequest.PostFormValue("f.req"))
}
