// Package signals holds the per-page signal extractors. Each extractor
// inspects one aspect of the fetched page and fills its slot in
// models.Observations; an empty slot means the signal was absent.
//
// Extractors are registered by name so new heuristics can be added
// without touching the aggregator.
package signals

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aisatlas/langcover/models"
)

// Extractor is one named, pure signal extractor. Implementations must
// not touch slots other than their own.
type Extractor struct {
	Name string
	Fn   func(doc *goquery.Document, finalURL string, obs *models.Observations)
}

// Registry returns the default extractor set.
func Registry() []Extractor {
	return []Extractor{
		{Name: "declared-language", Fn: extractDeclaredLang},
		{Name: "meta-language", Fn: extractMetaLang},
		{Name: "hreflang", Fn: extractHreflang},
		{Name: "language-menu", Fn: extractLanguageMenu},
		{Name: "translate-widget", Fn: extractTranslateWidget},
		{Name: "non-english-anchors", Fn: extractNonEnglishAnchors},
		{Name: "body-text", Fn: extractBodySample},
	}
}

// Extract parses the HTML once and runs every registered extractor.
func Extract(html, finalURL string) models.Observations {
	return ExtractWith(Registry(), html, finalURL)
}

// ExtractWith runs a specific extractor set. A failure inside one
// extractor degrades that signal to absent without aborting the others.
func ExtractWith(registry []Extractor, html, finalURL string) models.Observations {
	var obs models.Observations

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// No DOM at all: every signal is absent.
		return obs
	}

	for _, ex := range registry {
		runIsolated(ex, doc, finalURL, &obs)
	}
	return obs
}

func runIsolated(ex Extractor, doc *goquery.Document, finalURL string, obs *models.Observations) {
	defer func() {
		// A panicking extractor loses its own signal only.
		_ = recover()
	}()
	ex.Fn(doc, finalURL, obs)
}

// extractDeclaredLang reads the root element's lang attribute.
func extractDeclaredLang(doc *goquery.Document, _ string, obs *models.Observations) {
	raw, ok := doc.Find("html").First().Attr("lang")
	if !ok {
		return
	}
	code := NormalizeLangCode(raw)
	if code == "" {
		return
	}
	obs.DeclaredLang = &code
}

// extractMetaLang reads the content-language meta tag.
func extractMetaLang(doc *goquery.Document, _ string, obs *models.Observations) {
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		equiv, _ := s.Attr("http-equiv")
		if !strings.EqualFold(equiv, "content-language") {
			return true
		}
		content, _ := s.Attr("content")
		// Multi-valued headers list the primary language first.
		if i := strings.IndexByte(content, ','); i >= 0 {
			content = content[:i]
		}
		code := NormalizeLangCode(content)
		if code == "" {
			return true
		}
		obs.MetaLang = &code
		return false
	})
}

// extractHreflang collects all alternate-language link codes, excluding
// x-default and entries that point back at the page itself.
func extractHreflang(doc *goquery.Document, finalURL string, obs *models.Observations) {
	seen := make(map[string]struct{})
	var codes []string

	doc.Find(`link[rel="alternate"][hreflang]`).Each(func(_ int, s *goquery.Selection) {
		raw, _ := s.Attr("hreflang")
		code := NormalizeLangCode(raw)
		if code == "" || code == "x" || strings.EqualFold(raw, "x-default") {
			return
		}
		if href, ok := s.Attr("href"); ok && finalURL != "" && sameResource(href, finalURL) {
			return
		}
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	})

	obs.HreflangCodes = codes
}

func sameResource(href, finalURL string) bool {
	return strings.TrimSuffix(href, "/") == strings.TrimSuffix(finalURL, "/")
}

// extractTranslateWidget detects Google Translate integration, either
// the widget container or its loader script.
func extractTranslateWidget(doc *goquery.Document, _ string, obs *models.Observations) {
	if doc.Find("#google_translate_element").Length() > 0 {
		obs.TranslateWidget = true
		return
	}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if src, ok := s.Attr("src"); ok && strings.Contains(src, "translate.google.com/translate_a/element.js") {
			obs.TranslateWidget = true
			return false
		}
		if strings.Contains(s.Text(), "new google.translate.TranslateElement") {
			obs.TranslateWidget = true
			return false
		}
		return true
	})
}

// extractNonEnglishAnchors finds anchors whose visible text or href
// carries a non-English language token (a language name, a /xx/ path
// segment, or a ?lang=xx parameter).
func extractNonEnglishAnchors(doc *goquery.Document, _ string, obs *models.Observations) {
	seen := make(map[string]struct{})
	var samples []string
	count := 0

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if excludedDomain(href) {
			return
		}
		text := strings.ToLower(strings.TrimSpace(s.Text()))
		lowerHref := strings.ToLower(href)

		if !anchorHasNonEnglishToken(lowerHref, text) {
			return
		}
		count++
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		samples = append(samples, href)
	})

	if count == 0 {
		return
	}
	obs.NonEnglishAnchors = &models.AnchorObservation{Count: count, Samples: samples}
}

func anchorHasNonEnglishToken(href, text string) bool {
	if code, ok := langCodeFromPath(href); ok && code != "en" {
		return true
	}
	if code, ok := langCodeFromParam(href); ok && code != "en" {
		return true
	}
	for name, code := range languageNames {
		if code == "en" {
			continue
		}
		if strings.Contains(href, name) || strings.Contains(text, name) {
			return true
		}
	}
	return false
}
