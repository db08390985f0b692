// Package analyze implements the analyze CLI command: fetch every
// organization's page, classify its language accessibility, and persist
// the results.
package analyze

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/aisatlas/langcover/internal/common"
	"github.com/aisatlas/langcover/models"
	"github.com/aisatlas/langcover/pkg/cache"
	"github.com/aisatlas/langcover/pkg/db"
	"github.com/aisatlas/langcover/pkg/fetcher"
	"github.com/aisatlas/langcover/pkg/langid"
	"github.com/aisatlas/langcover/pkg/report"
	"github.com/aisatlas/langcover/pkg/signals"
	"github.com/aisatlas/langcover/pkg/stats"
)

func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	cfg := models.DefaultAnalyzeConfig()
	if c.IsSet("config") {
		var err error
		cfg, err = models.LoadAnalyzeConfig(c.String("config"))
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(2)
		}
	}
	applyFlags(c, &cfg)

	database, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	orgs, err := loadOrganizations(c, database)
	if err != nil {
		logger.Error("failed to load organizations", "error", err)
		os.Exit(2)
	}

	orgs, invalid := common.PrepareOrganizations(orgs)
	for _, badURL := range invalid {
		logger.Warn("Skipping malformed organization URL", "url", badURL)
	}
	if len(orgs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No organizations to analyze")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  langcover analyze --orgs organizations.csv")
		fmt.Fprintln(os.Stderr, "  langcover scrape              # populate the database first")
		os.Exit(1)
	}

	var store *cache.Store
	if !c.Bool("force-fetch") {
		maxAge, err := time.ParseDuration(c.String("max-age"))
		if err != nil {
			logger.Error("invalid max-age duration", "error", err)
			os.Exit(2)
		}
		store, err = cache.New(c.String("cache-dir"), maxAge)
		if err != nil {
			logger.Warn("cache disabled", "error", err)
			store = nil
		}
	}

	pl := pipeline{
		fetcher: fetcher.New(fetcher.Options{
			Timeout:          time.Duration(cfg.TimeoutSeconds * float64(time.Second)),
			MaxRetries:       cfg.MaxRetries,
			RetryBackoff:     time.Duration(cfg.RetryBackoffSeconds * float64(time.Second)),
			UserAgent:        cfg.UserAgent,
			RenderJavaScript: cfg.RenderJavaScript,
		}),
		identifier:    langid.New(),
		registry:      signals.Registry(),
		minConfidence: cfg.ConfidenceThreshold,
		store:         store,
	}

	logger.Info("Starting analysis", "org_count", len(orgs), "workers", cfg.WorkerCount,
		"render_javascript", cfg.RenderJavaScript, "timeout_seconds", cfg.TimeoutSeconds)

	results := runPool(c.Context, logger, pl, orgs, cfg.WorkerCount)

	runID, err := database.CreateRun(len(orgs), cfg.RenderJavaScript)
	if err != nil {
		logger.Error("failed to create run", "error", err)
		os.Exit(2)
	}

	analyzed, failed := 0, 0
	for _, r := range results {
		if r.FetchStatus == models.StatusOK {
			analyzed++
		} else {
			failed++
		}

		orgID, err := database.UpsertOrganization(r.Organization)
		if err != nil {
			logger.Warn("Failed to store organization", "url", r.Organization.URL, "error", err)
			continue
		}
		if err := database.InsertResult(runID, orgID, r); err != nil {
			logger.Warn("Failed to store result", "url", r.Organization.URL, "error", err)
		}
	}
	if err := database.FinishRun(runID, analyzed, failed); err != nil {
		logger.Warn("Failed to finalize run", "run_id", runID, "error", err)
	}

	if err := report.WriteSummaryCSV(cfg.SummaryCSV, results); err != nil {
		logger.Error("failed to write summary csv", "error", err)
		os.Exit(2)
	}
	if err := report.WriteDetailJSON(cfg.DetailJSON, results); err != nil {
		logger.Error("failed to write detail json", "error", err)
		os.Exit(2)
	}

	stats.Summarize(results).Print(os.Stdout)

	logger.Info("Run complete", "run_id", runID, "total", len(results),
		"analyzed", analyzed, "failed", failed,
		"summary_csv", cfg.SummaryCSV, "detail_json", cfg.DetailJSON,
		"elapsed_seconds", time.Since(startTime).Seconds())
	return nil
}

// applyFlags overrides config-file values with any flag set explicitly.
func applyFlags(c *cli.Context, cfg *models.AnalyzeConfig) {
	if c.IsSet("timeout") {
		cfg.TimeoutSeconds = c.Float64("timeout")
	}
	if c.IsSet("retries") {
		cfg.MaxRetries = c.Int("retries")
	}
	if c.IsSet("backoff") {
		cfg.RetryBackoffSeconds = c.Float64("backoff")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("render-js") {
		cfg.RenderJavaScript = c.Bool("render-js")
	}
	if c.IsSet("confidence") {
		cfg.ConfidenceThreshold = c.Float64("confidence")
	}
	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("summary-csv") {
		cfg.SummaryCSV = c.String("summary-csv")
	}
	if c.IsSet("detail-json") {
		cfg.DetailJSON = c.String("detail-json")
	}
}

// loadOrganizations reads the org list from --orgs when given,
// otherwise from the database seeded by the scrape command.
func loadOrganizations(c *cli.Context, database *db.DB) ([]models.Organization, error) {
	if c.IsSet("orgs") {
		return report.ReadOrganizationsCSV(c.String("orgs"))
	}
	return database.ListOrganizations()
}
