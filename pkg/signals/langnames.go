package signals

import (
	"regexp"
	"strings"
)

// languageNames maps exact language names (native and English spellings)
// to ISO 639-1 codes. Exact names are reliable selector indicators;
// substrings of ordinary words are not, so the list stays short.
var languageNames = map[string]string{
	"english":    "en",
	"español":    "es",
	"spanish":    "es",
	"français":   "fr",
	"french":     "fr",
	"deutsch":    "de",
	"german":     "de",
	"italiano":   "it",
	"italian":    "it",
	"português":  "pt",
	"portuguese": "pt",
	"русский":    "ru",
	"russian":    "ru",
	"中文":         "zh",
	"chinese":    "zh",
	"日本語":        "ja",
	"japanese":   "ja",
	"العربية":    "ar",
	"arabic":     "ar",
	"हिन्दी":     "hi",
	"hindi":      "hi",
}

// languageCodes is the two-letter vocabulary recognized across all
// extractors. It matches the classifier's language set in pkg/langid.
var languageCodes = []string{"en", "es", "fr", "de", "it", "pt", "ru", "zh", "ja", "ar", "hi"}

var languageCodeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(languageCodes))
	for _, c := range languageCodes {
		set[c] = struct{}{}
	}
	return set
}()

// excludeDomains commonly carry language-looking URL parameters without
// being language selectors for the site under analysis.
var excludeDomains = []string{
	"scholar.google.com",
	"translate.google.com",
	"accounts.google.com",
	"twitter.com",
	"facebook.com",
	"linkedin.com",
	"youtube.com",
}

func excludedDomain(href string) bool {
	for _, domain := range excludeDomains {
		if strings.Contains(href, domain) {
			return true
		}
	}
	return false
}

var (
	// Matches /en/, /en-us/ style path segments.
	langPathRe = regexp.MustCompile(`/([a-z]{2})(?:-[a-z]{2})?(?:/|$|\?)`)
	// Matches ?lang=en, &language=fr style parameters.
	langParamRe = regexp.MustCompile(`[?&](?:lang|language)=([a-z]{2})(?:[&\-_]|$)`)
)

// langCodeFromPath extracts a recognized language code from a /xx/ path
// segment, if present.
func langCodeFromPath(href string) (string, bool) {
	m := langPathRe.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	if _, ok := languageCodeSet[m[1]]; !ok {
		return "", false
	}
	return m[1], true
}

// langCodeFromParam extracts a recognized language code from a lang/
// language query parameter, if present.
func langCodeFromParam(href string) (string, bool) {
	m := langParamRe.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	if _, ok := languageCodeSet[m[1]]; !ok {
		return "", false
	}
	return m[1], true
}

// NormalizeLangCode lowers a lang attribute value and strips the region
// tag ("en-US" -> "en").
func NormalizeLangCode(raw string) string {
	code := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return code
}
