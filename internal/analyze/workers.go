package analyze

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aisatlas/langcover/models"
	"github.com/aisatlas/langcover/pkg/aggregate"
	"github.com/aisatlas/langcover/pkg/cache"
	"github.com/aisatlas/langcover/pkg/fetcher"
	"github.com/aisatlas/langcover/pkg/langid"
	"github.com/aisatlas/langcover/pkg/report"
	"github.com/aisatlas/langcover/pkg/signals"
)

// pipeline carries everything one worker needs. Workers share only
// immutable pieces (the detector, the extractor registry); there is no
// mutable state between them.
type pipeline struct {
	fetcher       *fetcher.Fetcher
	identifier    *langid.Identifier
	registry      []signals.Extractor
	minConfidence float64
	store         *cache.Store // nil disables caching
}

// runPool fans the organizations out over a bounded worker pool and
// collects exactly one result per organization, in arbitrary order.
func runPool(ctx context.Context, logger *slog.Logger, pl pipeline, orgs []models.Organization, workers int) []models.AnalysisResult {
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	jobs := make(chan models.Organization, len(orgs))
	out := make(chan models.AnalysisResult, len(orgs))

	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, pl, &wg, jobs, out)
	}

	for _, org := range orgs {
		jobs <- org
	}
	close(jobs)

	wg.Wait()
	close(out)

	results := make([]models.AnalysisResult, 0, len(orgs))
	for r := range out {
		results = append(results, r)
	}
	return results
}

func worker(ctx context.Context, id int, logger *slog.Logger, pl pipeline, wg *sync.WaitGroup, jobs <-chan models.Organization, out chan<- models.AnalysisResult) {
	defer wg.Done()
	for org := range jobs {
		logger.Info("Worker started job", "worker_id", id, "org", org.Name, "url", org.URL)
		out <- pl.analyzeOne(ctx, id, logger, org)
	}
}

// analyzeOne runs the fetch-through-build pipeline for one
// organization. Every path returns exactly one result; a failed fetch
// short-circuits to a default record with the error populated.
func (pl pipeline) analyzeOne(ctx context.Context, id int, logger *slog.Logger, org models.Organization) models.AnalysisResult {
	fetchRes := pl.fetchWithCache(ctx, logger, org)
	if !fetchRes.OK() {
		logger.Error("Fetch failed", "worker_id", id, "url", org.URL,
			"status", string(fetchRes.Status), "error", fetchRes.Err)
		return report.Build(org, fetchRes, aggregate.Verdict{})
	}

	obs := signals.ExtractWith(pl.registry, fetchRes.HTML, fetchRes.FinalURL)
	guess := pl.identifier.Identify(obs.BodySample)
	verdict := aggregate.Aggregate(obs, guess, pl.minConfidence)

	logger.Info("Worker finished job", "worker_id", id, "url", org.URL,
		"primary_language", verdict.PrimaryLanguage, "source", string(verdict.Source),
		"language_options", verdict.HasLanguageOptions)
	return report.Build(org, fetchRes, verdict)
}

// fetchWithCache serves a fresh snapshot from the cache when available;
// only successful fetches are ever cached.
func (pl pipeline) fetchWithCache(ctx context.Context, logger *slog.Logger, org models.Organization) models.FetchResult {
	if pl.store != nil {
		if html, ok := pl.store.Get(org.URL); ok {
			logger.Info("Raw HTML found in cache, using it", "url", org.URL)
			return models.FetchResult{
				Status:     models.StatusOK,
				HTML:       html,
				FinalURL:   org.URL,
				HTTPStatus: 200,
			}
		}
	}

	res := pl.fetcher.Fetch(ctx, org)
	if res.OK() && pl.store != nil {
		if err := pl.store.Put(org.URL, res.HTML); err != nil {
			logger.Warn("Failed to cache raw HTML", "url", org.URL, "error", err)
		}
	}
	return res
}
