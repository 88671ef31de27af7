// Package geocode resolves coordinates to place names through a
// Nominatim-compatible reverse geocoding service.
package geocode

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://nominatim.openstreetmap.org"
	defaultUserAgent = "roadcheck/1.0"
)

// Client reverse geocodes coordinates.
type Client interface {
	// Reverse returns the place at (lat, lon).
	Reverse(ctx context.Context, lat, lon float64) (*Place, error)
}

// Place is the subset of a Nominatim reverse response used for lookups.
type Place struct {
	Name        string // city, town, village or display name, first non-empty
	DisplayName string
	City        string
	Town        string
	Village     string
	Country     string
	CountryCode string
}

// StatusError is returned when the service answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geocode: reverse geocoding failed: %d", e.Code)
}

// Option configures the geocoder.
type Option func(*nominatim)

// WithBaseURL points the client at a different Nominatim host. An empty url
// keeps the default.
func WithBaseURL(url string) Option {
	return func(n *nominatim) {
		if url != "" {
			n.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header. Nominatim rejects requests
// without one.
func WithUserAgent(ua string) Option {
	return func(n *nominatim) {
		if ua != "" {
			n.userAgent = ua
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(n *nominatim) {
		n.httpClient = hc
	}
}

// WithRateLimit caps outgoing requests per second. rps <= 0 disables the
// limiter.
func WithRateLimit(rps float64) Option {
	return func(n *nominatim) {
		if rps <= 0 {
			n.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		n.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a reverse geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	n := &nominatim{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(1, 1), // Nominatim usage policy: 1 req/s
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}
