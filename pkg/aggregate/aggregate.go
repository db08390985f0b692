// Package aggregate combines the independent, individually unreliable
// page signals into the three classifier decisions: primary language,
// has-language-options, and has-non-English-resources.
package aggregate

import (
	"sort"
	"strings"

	"github.com/aisatlas/langcover/models"
)

// DefaultConfidenceThreshold gates the statistical guess: below this
// the detector's opinion is not trusted for the primary language.
const DefaultConfidenceThreshold = 0.7

// MaxSampleLinks caps the non-English sample links carried in a result.
const MaxSampleLinks = 5

// Verdict is the aggregator's combined decision over all signals for
// one page.
type Verdict struct {
	PrimaryLanguage        string
	Source                 models.PrimarySource
	HasLanguageOptions     bool
	OptionCodes            []string
	HasNonEnglishResources bool
	SampleLinks            []string
}

// Aggregate reduces the observations and the statistical guess to a
// verdict. Pure function: the same input always yields the same
// verdict.
//
// Primary-language precedence is fixed: declared attribute beats the
// meta tag, which beats a detector guess at or above minConfidence.
// A language menu never promotes a language to primary; it only feeds
// the option set.
func Aggregate(obs models.Observations, guess models.LanguageGuess, minConfidence float64) Verdict {
	if minConfidence <= 0 {
		minConfidence = DefaultConfidenceThreshold
	}

	v := Verdict{
		PrimaryLanguage: models.UnknownLanguage,
		Source:          models.SourceUnknown,
	}

	switch {
	case obs.DeclaredLang != nil && *obs.DeclaredLang != "":
		v.PrimaryLanguage = *obs.DeclaredLang
		v.Source = models.SourceDeclared
	case obs.MetaLang != nil && *obs.MetaLang != "":
		v.PrimaryLanguage = *obs.MetaLang
		v.Source = models.SourceMeta
	case guess.Code != models.UnknownLanguage && guess.Confidence >= minConfidence:
		v.PrimaryLanguage = guess.Code
		v.Source = models.SourceDetected
	}

	v.HasLanguageOptions = hreflangOffersAlternate(obs.HreflangCodes, v.PrimaryLanguage) ||
		obs.LanguageMenu != nil ||
		obs.TranslateWidget

	v.OptionCodes = unionCodes(obs)

	anchors := obs.NonEnglishAnchors
	v.HasNonEnglishResources = v.HasLanguageOptions || (anchors != nil && anchors.Count > 0)
	if anchors != nil {
		v.SampleLinks = dedupeHead(anchors.Samples, MaxSampleLinks)
	}

	return v
}

// hreflangOffersAlternate reports whether the hreflang set advertises a
// version of the site in some language other than the page's own.
func hreflangOffersAlternate(codes []string, primary string) bool {
	if len(codes) > 1 {
		return true
	}
	return len(codes) == 1 && !strings.EqualFold(codes[0], primary)
}

// unionCodes merges hreflang and menu codes, lower-cased, deduplicated
// and sorted for stable output. Set semantics make the tie-break rule
// (no double counting across signals) automatic.
func unionCodes(obs models.Observations) []string {
	set := make(map[string]struct{})
	for _, c := range obs.HreflangCodes {
		set[strings.ToLower(c)] = struct{}{}
	}
	if obs.LanguageMenu != nil {
		for _, c := range obs.LanguageMenu.Codes {
			set[strings.ToLower(c)] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil
	}

	codes := make([]string, 0, len(set))
	for c := range set {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// dedupeHead keeps the first n distinct entries in discovery order.
func dedupeHead(links []string, n int) []string {
	if len(links) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for _, link := range links {
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, link)
		if len(out) == n {
			break
		}
	}
	return out
}
