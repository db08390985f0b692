// Package scrape implements the scrape CLI command: collect
// organization names and URLs from the directory map site.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/urfave/cli/v2"

	"github.com/aisatlas/langcover/internal/common"
	"github.com/aisatlas/langcover/models"
	"github.com/aisatlas/langcover/pkg/db"
	"github.com/aisatlas/langcover/pkg/report"
)

const DefaultMapURL = "https://map.aisafety.world/"

func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	mapURL := c.String("map-url")
	timeout := time.Duration(c.Float64("timeout") * float64(time.Second))
	settle := time.Duration(c.Float64("settle") * float64(time.Second))

	logger.Info("Navigating to directory map", "url", mapURL)
	orgs, err := collect(c.Context, mapURL, timeout, settle)
	if err != nil {
		logger.Error("scrape failed", "url", mapURL, "error", err)
		os.Exit(2)
	}

	orgs, invalid := common.PrepareOrganizations(orgs)
	for _, badURL := range invalid {
		logger.Warn("Skipping non-website link", "url", badURL)
	}
	if len(orgs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no organization links found on the map page")
		os.Exit(1)
	}

	outPath := c.String("out")
	if err := report.WriteOrganizationsCSV(outPath, orgs); err != nil {
		logger.Error("failed to write organizations csv", "error", err)
		os.Exit(2)
	}

	database, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	for _, org := range orgs {
		if _, err := database.UpsertOrganization(org); err != nil {
			logger.Warn("Failed to store organization", "url", org.URL, "error", err)
		}
	}

	logger.Info("Scrape complete", "org_count", len(orgs), "csv", outPath)
	fmt.Printf("Found %d organizations, saved to %s\n", len(orgs), outPath)
	return nil
}

// mapEntry mirrors what collectScript returns for each anchor.
type mapEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// collectScript pulls every anchor out of the rendered grid. SVG
// anchors expose href as an SVGAnimatedString, hence the baseVal check.
const collectScript = `(() => {
	const grid = document.querySelector('#grid');
	if (!grid) return [];
	return Array.from(grid.querySelectorAll('a')).map(a => {
		let href = a.href;
		if (href && typeof href === 'object' && 'baseVal' in href) href = href.baseVal;
		let name = (a.textContent || '').trim();
		if (!name) {
			const div = a.querySelector('div');
			if (div) name = (div.textContent || '').trim();
		}
		return {name: name, url: (href || '').trim()};
	});
})()`

// collect drives a headless browser over the map page. The grid fills
// in after the SVG loads, so it waits for the container and then gives
// dynamic content a settle period. All browser contexts are cancelled
// via defer on every exit path.
func collect(ctx context.Context, mapURL string, timeout, settle time.Duration) ([]models.Organization, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, timeout)
	defer cancelTimeout()

	var entries []mapEntry
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(mapURL),
		chromedp.WaitVisible("#grid", chromedp.ByID),
		chromedp.Sleep(settle),
		chromedp.Evaluate(collectScript, &entries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load map page: %w", err)
	}

	orgs := make([]models.Organization, 0, len(entries))
	for _, entry := range entries {
		if !strings.HasPrefix(entry.URL, "http://") && !strings.HasPrefix(entry.URL, "https://") {
			continue
		}
		name := entry.Name
		if name == "" {
			name = domainName(entry.URL)
		}
		orgs = append(orgs, models.Organization{Name: name, URL: entry.URL})
	}
	return orgs, nil
}

// domainName derives a display name from the URL when the anchor
// carries no text.
func domainName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}
