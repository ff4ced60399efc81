// Package registry talks to the Czech business registry: one HTTP fetch
// client plus one parser per upstream response shape
package registry

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	perr "github.com/webnazakazku/Ares/internal/platform/errors"
	"github.com/webnazakazku/Ares/internal/platform/logger"
	"github.com/webnazakazku/Ares/internal/platform/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	defaultUA      = "ares-go"
)

// Options configures the Client
type Options struct {
	// Balancer, when set, indirects every request through
	// {balancer}?url={urlencode(target)}
	Balancer string

	// InsecureSkipVerify disables TLS certificate validation toward the
	// upstream. The legacy mfcr.cz endpoints serve defective certificates,
	// so this is an explicit, caller-owned trust decision
	InsecureSkipVerify bool

	Timeout   time.Duration
	UserAgent string

	// RequestsPerSecond throttles outbound fetches, zero disables
	RequestsPerSecond float64
}

// Client performs plain GETs against registry URLs
// No retries: a failed fetch surfaces immediately and the caller owns
// retry policy
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     *logger.Logger

	mu      sync.Mutex
	lastURL string
}

// NewClient creates a Client with sane defaults
func NewClient(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	hc := &http.Client{Timeout: o.Timeout}
	if o.InsecureSkipVerify {
		hc.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // #nosec G402
		}
	}
	c := &Client{
		http: hc,
		opts: o,
		log:  logger.Named("registry"),
	}
	if o.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.RequestsPerSecond), 1)
	}
	return c
}

// errorBody is the JSON error shape the new REST endpoint returns on >=400
type errorBody struct {
	Kod    string `json:"kod"`
	Popis  string `json:"popis"`
	SubKod string `json:"subKod"`
}

// Fetch GETs the given registry URL and returns the response body
// 404 maps to a not-found error, any other >=400 status and transport
// failures map to unavailable with the upstream message when parseable
func (c *Client) Fetch(ctx context.Context, target string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "Databáze ARES není dostupná.")
		}
	}

	wrapped := c.wrapURL(target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wrapped, nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "registry request build failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.Upstream.WithLabelValues(req.URL.Host, "transport_error").Inc()
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "Databáze ARES není dostupná.")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "Databáze ARES není dostupná.")
	}

	metrics.Upstream.WithLabelValues(req.URL.Host, strconv.Itoa(resp.StatusCode)).Inc()

	c.log.Debug().
		Str("url", wrapped).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("bytes", len(body)).
		Msg("registry response")

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusNotFound {
			return nil, perr.New(perr.ErrorCodeNotFound, "IČ firmy nebylo nalezeno.")
		}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Kod != "" {
			return nil, perr.Unavailablef(
				"Databáze ARES není dostupná. Zpráva: %s - %s - %s", eb.Kod, eb.Popis, eb.SubKod)
		}
		return nil, perr.Unavailablef("Databáze ARES není dostupná. Zpráva: HTTP %d", resp.StatusCode)
	}

	return body, nil
}

// LastURL returns the URL of the most recent dispatch, balancer wrapping
// included, so callers can verify what actually went on the wire
func (c *Client) LastURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastURL
}

func (c *Client) wrapURL(target string) string {
	if c.opts.Balancer != "" {
		target = c.opts.Balancer + "?url=" + url.QueryEscape(target)
	}
	c.mu.Lock()
	c.lastURL = target
	c.mu.Unlock()
	return target
}
