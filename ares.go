// Package ares resolves Czech business-registry identifiers (IČO, DIČ,
// company name) into normalized company records
//
// Four heterogeneous government sources back the lookups: a JSON REST
// endpoint for basic info, two legacy CGI XML endpoints for company and
// tax detail, and an XML fulltext search. Responses are reconciled into
// one canonical postal address and cached on disk in coarse time buckets
// so repeated lookups within the same epoch cost nothing
package ares

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/webnazakazku/Ares/internal/adapters/cachedir"
	"github.com/webnazakazku/Ares/internal/adapters/justice"
	"github.com/webnazakazku/Ares/internal/adapters/registry"
	"github.com/webnazakazku/Ares/internal/platform/logger"
)

// Config configures a Client. The zero value works: records get cached
// under the system temp directory in year+week buckets
type Config struct {
	// CacheDir is the cache directory, default {tmp}/ares
	CacheDir string

	// CacheEpochFormat is the epoch strategy string, default "YW"
	// (calendar year + ISO week, entries refresh weekly)
	CacheEpochFormat string

	// Balancer optionally indirects every outbound request through
	// {balancer}?url={urlencode(target)}
	Balancer string

	// Debug additionally stores raw upstream responses next to cache
	// entries for diagnostics
	Debug bool

	// InsecureSkipVerify disables TLS validation toward the legacy
	// endpoints with defective certificates; an explicit trust decision,
	// never a default
	InsecureSkipVerify bool

	// Timeout bounds every upstream fetch, default 10s
	Timeout time.Duration

	// RequestsPerSecond throttles outbound fetches, zero disables
	RequestsPerSecond float64
}

// Fetcher performs one HTTP GET against a source URL
// The production implementation wraps balancer indirection and TLS policy;
// tests substitute counting doubles
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Client is the resolution orchestrator: cache check, fetch, parse,
// reconcile, cache write, in that order, no retries
type Client struct {
	cfg     Config
	fetcher Fetcher
	cache   *cachedir.Store
	justice *justice.Client
	log     *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithFetcher substitutes the upstream fetcher, used by tests
func WithFetcher(f Fetcher) Option {
	return func(c *Client) { c.fetcher = f }
}

// WithJusticeClient substitutes the judicial-register scraper
func WithJusticeClient(j *justice.Client) Option {
	return func(c *Client) { c.justice = j }
}

// New creates a Client, creating the cache directory when missing
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(os.TempDir(), "ares")
	}
	if cfg.CacheEpochFormat == "" {
		cfg.CacheEpochFormat = cachedir.DefaultEpochFormat
	}

	cache, err := cachedir.New(cfg.CacheDir,
		cachedir.WithEpochFormat(cfg.CacheEpochFormat),
		cachedir.WithDebug(cfg.Debug),
	)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:   cfg,
		cache: cache,
		fetcher: registry.NewClient(registry.Options{
			Balancer:           cfg.Balancer,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			Timeout:            cfg.Timeout,
			RequestsPerSecond:  cfg.RequestsPerSecond,
		}),
		justice: justice.NewClient(&http.Client{Timeout: justiceTimeout(cfg.Timeout)}),
		log:     logger.Named("ares"),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func justiceTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 15 * time.Second
	}
	return d
}

// LastURL returns the most recently dispatched upstream URL when the
// configured fetcher exposes one, balancer wrapping included
func (c *Client) LastURL() string {
	if i, ok := c.fetcher.(interface{ LastURL() string }); ok {
		return i.LastURL()
	}
	return ""
}
