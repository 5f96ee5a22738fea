// Package geo resolves client IP addresses to ISO country codes through an
// HTTP lookup service. Lookups are guarded by a circuit breaker so a failing
// provider cannot slow down click tracking.
package geo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gamassss/linkdash/internal/metrics"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

var ErrLookupFailed = errors.New("geo lookup failed")

type Resolver struct {
	client   *http.Client
	endpoint string
	breaker  *gobreaker.CircuitBreaker[string]
}

type lookupResponse struct {
	Status      string `json:"status"`
	CountryCode string `json:"countryCode"`
}

// NewResolver expects endpoint to contain one %s verb for the IP address.
func NewResolver(endpoint string, timeout time.Duration) *Resolver {
	settings := gobreaker.Settings{
		Name:        "geo-lookup",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}

	return &Resolver{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		breaker:  gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Country returns the country code for ip, or "" for addresses that cannot be
// located (loopback, private ranges, malformed input).
func (r *Resolver) Country(ctx context.Context, ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		metrics.GeoLookups.WithLabelValues("skipped").Inc()
		return "", nil
	}

	code, err := r.breaker.Execute(func() (string, error) {
		return r.lookup(ctx, ip)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.GeoLookups.WithLabelValues("breaker_open").Inc()
		return "", err
	case err != nil:
		metrics.GeoLookups.WithLabelValues("error").Inc()
		return "", err
	}

	metrics.GeoLookups.WithLabelValues("ok").Inc()
	return code, nil
}

func (r *Resolver) State() string {
	return r.breaker.State().String()
}

func (r *Resolver) lookup(ctx context.Context, ip string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(r.endpoint, url.PathEscape(ip)), nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	if body.Status == "fail" {
		return "", nil
	}

	return strings.ToUpper(body.CountryCode), nil
}
