// Package scrape holds the shared fetch-parse-emit machinery behind every
// live content source: the HTTP client with its anti-bot guard, the
// selector profiles, the per-card field extractor and the pagination
// engine. Sources own the selectors; this package owns the mechanics.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/PuerkitoBio/goquery"

	"github.com/inkreader/ink-sources/internal/source"
)

// ClientOptions configures a scraping client for one site.
type ClientOptions struct {
	// Referer and Origin are injected into every request. Most sites gate
	// image and AJAX endpoints on them.
	Referer string
	Origin  string

	// UserAgent overrides the generated default.
	UserAgent string

	// Cookie is an extra cookie header sent with every request, on top of
	// whatever the jar has collected ("toonily-mature=1" and friends).
	Cookie string

	Timeout time.Duration

	// RateRequests caps how many requests may start per RateInterval.
	// Zero disables pacing.
	RateRequests int
	RateInterval time.Duration

	// BypassCloudflare wraps the transport with the Cloudflare bypass
	// round tripper. Blocked responses that slip through still surface as
	// source.ErrBlocked.
	BypassCloudflare bool

	// Transport replaces the default transport. Mostly for tests.
	Transport http.RoundTripper
}

// Client fetches and parses site pages. Safe for concurrent use.
type Client struct {
	http *http.Client
	pace *pacer
}

// DefaultUserAgent returns the user agent used when none is configured.
func DefaultUserAgent() string {
	return browser.Computer()
}

// NewClient builds a scraping client. The cookie jar persists whatever the
// site sets across requests; header injection happens in the round tripper
// so every caller of the client gets the same surface.
func NewClient(opts ClientOptions) *Client {
	jar, _ := cookiejar.New(nil)

	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.BypassCloudflare {
		base = cloudflarebp.AddCloudFlareByPass(base)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent()
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
			Transport: headerInjector{
				base:    base,
				ua:      ua,
				referer: opts.Referer,
				origin:  opts.Origin,
				cookie:  opts.Cookie,
			},
		},
		pace: newPacer(opts.RateRequests, opts.RateInterval),
	}
}

// CheckChallenge converts an anti-bot challenge status into ErrBlocked.
// It runs before any parsing so a challenge page's placeholder HTML is
// never fed to the extractor.
func CheckChallenge(status int) error {
	if status == http.StatusForbidden || status == http.StatusServiceUnavailable {
		return source.ErrBlocked
	}
	return nil
}

// Document fetches one URL and parses the response as HTML. A 403/503
// fails with source.ErrBlocked; any other non-2xx status or transport
// failure propagates unchanged.
func (c *Client) Document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	c.pace.wait()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := CheckChallenge(resp.StatusCode); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

type headerInjector struct {
	base    http.RoundTripper
	ua      string
	referer string
	origin  string
	cookie  string
}

func (h headerInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", h.ua)
	}
	if h.referer != "" {
		req.Header.Set("Referer", h.referer)
	}
	if h.origin != "" {
		req.Header.Set("Origin", h.origin)
	}
	if h.cookie != "" && req.Header.Get("Cookie") == "" {
		req.Header.Set("Cookie", h.cookie)
	}
	return h.base.RoundTrip(req)
}

// pacer spreads request starts out so no more than n begin per interval.
// The window the sites enforce is coarse; an even spacing stays under it.
type pacer struct {
	mu    sync.Mutex
	gap   time.Duration
	until time.Time
}

func newPacer(requests int, interval time.Duration) *pacer {
	if requests <= 0 || interval <= 0 {
		return &pacer{}
	}
	return &pacer{gap: interval / time.Duration(requests)}
}

func (p *pacer) wait() {
	if p.gap == 0 {
		return
	}
	p.mu.Lock()
	now := time.Now()
	if p.until.Before(now) {
		p.until = now
	}
	sleep := p.until.Sub(now)
	p.until = p.until.Add(p.gap)
	p.mu.Unlock()

	if sleep > 0 {
		time.Sleep(sleep)
	}
}
