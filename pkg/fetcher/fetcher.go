// Package fetcher retrieves one page per organization and normalizes
// every failure into a terminal FetchStatus. Fetch outcomes never leave
// this package as raw errors; they live inside the FetchResult.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/aisatlas/langcover/models"
)

// DefaultUserAgent mirrors a desktop browser so sites serve the same
// markup a visitor would see.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Pages past this size carry no additional language signal.
const maxBodyBytes = 4 << 20

// Options configures a Fetcher.
type Options struct {
	Timeout          time.Duration
	MaxRetries       int
	RetryBackoff     time.Duration
	UserAgent        string
	RenderJavaScript bool
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = 1500 * time.Millisecond
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	return o
}

// Fetcher loads pages either with a plain HTTP GET or, when
// RenderJavaScript is set, in a headless browser session so client-side
// language widgets exist in the DOM before extraction.
type Fetcher struct {
	opts   Options
	client *http.Client
}

func New(opts Options) *Fetcher {
	opts = opts.withDefaults()
	return &Fetcher{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// blockMarkers identify anti-bot interstitials captured in place of the
// real page.
var blockMarkers = []string{
	"cf-browser-verification",
	"checking your browser before accessing",
	"just a moment...",
	"g-recaptcha",
	"please complete the security check",
	"verify you are human",
}

// Fetch loads the organization's page, retrying transient failures
// (timeouts, connection resets, 5xx) with exponential backoff. 4xx
// responses and DNS failures are terminal on the first attempt.
func (f *Fetcher) Fetch(ctx context.Context, org models.Organization) models.FetchResult {
	var last models.FetchResult
	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(f.opts.RetryBackoff) * math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return last
			case <-time.After(backoff):
			}
		}

		var retryable bool
		last, retryable = f.attempt(ctx, org.URL)
		if !retryable {
			return last
		}
	}
	return last
}

func (f *Fetcher) attempt(ctx context.Context, rawURL string) (models.FetchResult, bool) {
	if f.opts.RenderJavaScript {
		return f.render(ctx, rawURL)
	}
	return f.get(ctx, rawURL)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (models.FetchResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.FetchResult{
			Status:   models.StatusHTTPError,
			FinalURL: rawURL,
			Err:      fmt.Errorf("invalid request: %w", err),
		}, false
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return classifyTransportError(rawURL, err)
	}
	defer resp.Body.Close()

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	switch {
	case resp.StatusCode >= 500:
		return models.FetchResult{
			Status:     models.StatusHTTPError,
			FinalURL:   finalURL,
			HTTPStatus: resp.StatusCode,
			Err:        fmt.Errorf("server error: status %d", resp.StatusCode),
		}, true
	case resp.StatusCode >= 400:
		return models.FetchResult{
			Status:     models.StatusHTTPError,
			FinalURL:   finalURL,
			HTTPStatus: resp.StatusCode,
			Err:        fmt.Errorf("http error: status %d", resp.StatusCode),
		}, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return models.FetchResult{
			Status:     models.StatusHTTPError,
			FinalURL:   finalURL,
			HTTPStatus: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}, true
	}

	return finishFetch(string(body), finalURL, resp.StatusCode), false
}

// finishFetch applies the anti-bot marker check shared by both
// transport paths.
func finishFetch(html, finalURL string, httpStatus int) models.FetchResult {
	if Blocked(html) {
		return models.FetchResult{
			Status:     models.StatusBlocked,
			FinalURL:   finalURL,
			HTTPStatus: httpStatus,
			Err:        errors.New("anti-bot interstitial detected"),
		}
	}
	return models.FetchResult{
		Status:     models.StatusOK,
		HTML:       html,
		FinalURL:   finalURL,
		HTTPStatus: httpStatus,
	}
}

// Blocked reports whether the page looks like an anti-bot interstitial.
func Blocked(html string) bool {
	// Challenge markers sit in the head or the first screenful.
	if len(html) > 20000 {
		html = html[:20000]
	}
	lower := strings.ToLower(html)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// classifyTransportError maps a transport failure to a terminal status
// and reports whether the attempt may be retried.
func classifyTransportError(rawURL string, err error) (models.FetchResult, bool) {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return models.FetchResult{
			Status:   models.StatusDNSError,
			FinalURL: rawURL,
			Err:      fmt.Errorf("dns lookup failed: %w", err),
		}, false
	}

	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
		return models.FetchResult{
			Status:   models.StatusTimeout,
			FinalURL: rawURL,
			Err:      fmt.Errorf("request timed out: %w", err),
		}, true
	}

	// Connection resets and other transport-level failures are transient.
	return models.FetchResult{
		Status:   models.StatusHTTPError,
		FinalURL: rawURL,
		Err:      fmt.Errorf("request failed: %w", err),
	}, true
}
