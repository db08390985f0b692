package fetcher

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/aisatlas/langcover/models"
)

// render loads the page in a headless browser session so client-side
// rendered language widgets materialize before extraction. Allocator,
// browser and timeout contexts are all cancelled via defer, so the
// session is torn down on every exit path including timeouts.
func (f *Fetcher) render(ctx context.Context, rawURL string) (models.FetchResult, bool) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.opts.UserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, f.opts.Timeout)
	defer cancelTimeout()

	var html, finalURL string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(rawURL),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if taskCtx.Err() == context.DeadlineExceeded {
			return models.FetchResult{
				Status:   models.StatusTimeout,
				FinalURL: rawURL,
				Err:      fmt.Errorf("page load timed out after %s: %w", f.opts.Timeout, err),
			}, true
		}
		return models.FetchResult{
			Status:   models.StatusHTTPError,
			FinalURL: rawURL,
			Err:      fmt.Errorf("browser navigation failed: %w", err),
		}, true
	}

	if finalURL == "" {
		finalURL = rawURL
	}
	// The CDP session does not surface the HTTP status without network
	// event tracking; a rendered document is treated as a 200.
	return finishFetch(html, finalURL, 200), false
}
