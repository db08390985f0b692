// Package report assembles AnalysisResult records and reads/writes the
// persisted CSV and JSON documents.
package report

import (
	"fmt"

	"github.com/aisatlas/langcover/models"
	"github.com/aisatlas/langcover/pkg/aggregate"
)

// Build assembles the persisted record for one organization. This is
// the only place that encodes the failure rule: when the fetch did not
// succeed, every derived field stays at its unknown/false default and
// Error carries the reason. Analysis output for a failed fetch is never
// consulted.
func Build(org models.Organization, fetch models.FetchResult, verdict aggregate.Verdict) models.AnalysisResult {
	if !fetch.OK() {
		return models.AnalysisResult{
			Organization:          org,
			FetchStatus:           fetch.Status,
			PrimaryLanguage:       models.UnknownLanguage,
			PrimaryLanguageSource: models.SourceUnknown,
			Error:                 failureReason(fetch),
		}
	}

	return models.AnalysisResult{
		Organization:           org,
		FetchStatus:            fetch.Status,
		PrimaryLanguage:        verdict.PrimaryLanguage,
		PrimaryLanguageSource:  verdict.Source,
		HasLanguageOptions:     verdict.HasLanguageOptions,
		LanguageOptionCodes:    verdict.OptionCodes,
		HasNonEnglishResources: verdict.HasNonEnglishResources,
		NonEnglishSampleLinks:  verdict.SampleLinks,
	}
}

// failureReason renders a human-readable error for a terminal status.
func failureReason(fetch models.FetchResult) string {
	var reason string
	switch fetch.Status {
	case models.StatusTimeout:
		reason = "fetch timed out"
	case models.StatusDNSError:
		reason = "dns resolution failed"
	case models.StatusBlocked:
		reason = "blocked by anti-bot interstitial"
	case models.StatusHTTPError:
		if fetch.HTTPStatus > 0 {
			reason = fmt.Sprintf("http error: status %d", fetch.HTTPStatus)
		} else {
			reason = "http request failed"
		}
	default:
		reason = "fetch failed"
	}

	if fetch.Err != nil {
		return fmt.Sprintf("%s (%v)", reason, fetch.Err)
	}
	return reason
}
