package beatmap

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
)

// FetchResult is the raw outcome of fetching a beatmap-picked URL:
// status code and body, or a transport-level error.
type FetchResult struct {
	StatusCode int
	Body       []byte
}

// Fetcher retrieves the metadata page for a picked beatmap URL. Injected
// as an interface so tests can supply canned responses without coupling
// the session loop to a concrete HTTP client.
type Fetcher interface {
	Fetch(url string) (FetchResult, error)
}

const cacheTTL = 30 * time.Second

// HTTPFetcher is the production Fetcher: an http.Client guarded by a
// circuit breaker (so a flapping metadata host can't stall every pick in
// every room) and fronted by a short-lived cache (multiple players often
// pick the same contested map back to back).
type HTTPFetcher struct {
	client *http.Client
	cb     *gobreaker.CircuitBreaker
	cache  *cache.Cache
}

// NewHTTPFetcher builds a fetcher with the given connect and read
// timeouts. The connect timeout bounds the dial; since an *http.Client
// has no separate read timeout, the whole request is bounded by the sum
// of the two.
func NewHTTPFetcher(connectTimeout, readTimeout time.Duration) *HTTPFetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
	}
	st := gobreaker.Settings{
		Name:        "beatmap-metadata",
		MaxRequests: 3,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   connectTimeout + readTimeout,
		},
		cb:    gobreaker.NewCircuitBreaker(st),
		cache: cache.New(cacheTTL, 2*cacheTTL),
	}
}

func (f *HTTPFetcher) Fetch(url string) (FetchResult, error) {
	if cached, ok := f.cache.Get(url); ok {
		return cached.(FetchResult), nil
	}

	res, err := f.cb.Execute(func() (interface{}, error) {
		resp, err := f.client.Get(url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return FetchResult{StatusCode: resp.StatusCode, Body: body}, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return FetchResult{}, fmt.Errorf("beatmap metadata fetcher circuit open: %w", err)
		}
		return FetchResult{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	result := res.(FetchResult)
	f.cache.Set(url, result, cache.DefaultExpiration)
	return result, nil
}
