package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/aisatlas/langcover/internal/analyze"
	"github.com/aisatlas/langcover/internal/scrape"
	"github.com/aisatlas/langcover/internal/stats"
	"github.com/aisatlas/langcover/pkg/fetcher"
)

func main() {
	app := &cli.App{
		Name:  "langcover",
		Usage: "survey AI-safety organization websites for language accessibility",
		Commands: []*cli.Command{
			{
				Name:   "scrape",
				Usage:  "collect organization names and URLs from the directory map",
				Action: scrape.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "map-url", Value: scrape.DefaultMapURL, Usage: "directory map page to scrape"},
					&cli.StringFlag{Name: "out", Value: "generated/organizations.csv", Usage: "output CSV path"},
					&cli.StringFlag{Name: "db", Value: "", Usage: "SQLite database path (default: next to the binary)"},
					&cli.Float64Flag{Name: "timeout", Value: 30, Usage: "page load timeout in seconds"},
					&cli.Float64Flag{Name: "settle", Value: 10, Usage: "extra wait for dynamic content, in seconds"},
					&cli.BoolFlag{Name: "quiet", Usage: "only log errors"},
				},
			},
			{
				Name:   "analyze",
				Usage:  "fetch each organization's page and classify its language accessibility",
				Action: analyze.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "orgs", Usage: "organizations CSV (name,url); defaults to the scraped database"},
					&cli.StringFlag{Name: "db", Value: "", Usage: "SQLite database path (default: next to the binary)"},
					&cli.StringFlag{Name: "config", Usage: "YAML config file; flags override its values"},
					&cli.Float64Flag{Name: "timeout", Value: 15, Usage: "per-organization fetch timeout in seconds"},
					&cli.IntFlag{Name: "retries", Value: 2, Usage: "retries for transient fetch failures"},
					&cli.Float64Flag{Name: "backoff", Value: 1.5, Usage: "initial retry backoff in seconds (doubles per retry)"},
					&cli.StringFlag{Name: "user-agent", Value: fetcher.DefaultUserAgent, Usage: "User-Agent header"},
					&cli.BoolFlag{Name: "render-js", Usage: "load pages in a headless browser so scripted language widgets appear"},
					&cli.Float64Flag{Name: "confidence", Value: 0.7, Usage: "minimum detector confidence for a detected primary language"},
					&cli.IntFlag{Name: "workers", Value: 4, Usage: "number of concurrent workers"},
					&cli.StringFlag{Name: "summary-csv", Value: "generated/language_analysis.csv", Usage: "summary table output path"},
					&cli.StringFlag{Name: "detail-json", Value: "generated/language_analysis_full.json", Usage: "full detail output path"},
					&cli.StringFlag{Name: "cache-dir", Value: "langcover-cache", Usage: "raw HTML cache directory"},
					&cli.StringFlag{Name: "max-age", Value: "24h", Usage: "max age before a cached page is refetched"},
					&cli.BoolFlag{Name: "force-fetch", Usage: "ignore the cache and always fetch"},
					&cli.BoolFlag{Name: "quiet", Usage: "only log errors"},
				},
			},
			{
				Name:   "stats",
				Usage:  "print aggregate numbers for a stored run",
				Action: stats.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Value: "", Usage: "SQLite database path (default: next to the binary)"},
					&cli.Int64Flag{Name: "run", Usage: "run id (default: latest)"},
					&cli.BoolFlag{Name: "quiet", Usage: "only log errors"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
