package signals

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aisatlas/langcover/models"
)

// menuIndicators mark an element as language navigation when they
// appear in its id, name or class.
var menuIndicators = []string{"lang", "idioma", "sprache", "langue", "language", "locale"}

// explicitMenuTerms are class/id fragments that by themselves identify
// a language selector, so less corroborating evidence is required.
var explicitMenuTerms = []string{
	"language-selector", "lang-selector",
	"language-menu", "lang-menu",
	"language-nav", "lang-nav",
	"language-switcher", "lang-switcher",
}

// exactMenuIDs are id values reliable enough to count on their own,
// provided the element actually contains something clickable.
var exactMenuIDs = []string{
	"language-selector", "languageSelector",
	"language-switcher", "languageSwitcher",
	"lang-selector", "langSelector",
	"lang-switcher", "langSwitcher",
	"select-language", "selectLanguage",
	"change-language", "changeLanguage",
	"translate-button", "translateButton",
	"translation-menu", "translationMenu",
}

// extractLanguageMenu looks for a genuine language selector: a dropdown
// listing languages, a small navigation group of language links, or an
// element whose id names it outright. Heuristics follow three passes of
// increasing specificity; any hit sets the observation.
func extractLanguageMenu(doc *goquery.Document, _ string, obs *models.Observations) {
	codes := make(map[string]struct{})
	found := false

	if menuFromSelects(doc, codes) {
		found = true
	}
	if menuFromLinkGroups(doc, codes) {
		found = true
	}
	if menuFromExactIDs(doc) {
		found = true
	}

	if !found {
		return
	}
	obs.LanguageMenu = &models.MenuObservation{Codes: sortedKeys(codes)}
}

// menuFromSelects inspects <select> dropdowns. A select counts when it
// has a language indicator in its attributes, or at least two of its
// options look like languages.
func menuFromSelects(doc *goquery.Document, codes map[string]struct{}) bool {
	found := false
	doc.Find("select").Each(func(_ int, sel *goquery.Selection) {
		options := sel.Find("option")
		// Language selects list a handful of options, not hundreds.
		if options.Length() < 2 || options.Length() > 15 {
			return
		}

		indicated := hasMenuIndicator(sel)
		matched := make(map[string]struct{})
		options.Each(func(_ int, opt *goquery.Selection) {
			value := strings.ToLower(strings.TrimSpace(opt.AttrOr("value", "")))
			text := strings.ToLower(strings.TrimSpace(opt.Text()))
			if code, ok := optionLangCode(value, text); ok {
				matched[code] = struct{}{}
			}
		})

		if (indicated && len(matched) >= 1) || len(matched) >= 2 {
			found = true
			for c := range matched {
				codes[c] = struct{}{}
			}
		}
	})
	return found
}

func optionLangCode(value, text string) (string, bool) {
	for _, code := range languageCodes {
		if value == code || strings.HasPrefix(value, code+"-") || strings.HasPrefix(value, code+"_") {
			return code, true
		}
	}
	for name, code := range languageNames {
		if strings.Contains(text, name) {
			return code, true
		}
	}
	return "", false
}

// menuFromLinkGroups inspects small nav/ul/div containers holding a
// group of language links. Explicitly labelled containers need one
// distinct language; unlabelled ones need two.
func menuFromLinkGroups(doc *goquery.Document, codes map[string]struct{}) bool {
	found := false
	doc.Find("nav, ul, div").Each(func(_ int, nav *goquery.Selection) {
		// Large containers are unlikely to be just a language selector.
		if nav.Find("*").Length() > 20 {
			return
		}

		explicit := hasExplicitMenuTerm(nav)
		required := 2
		if explicit {
			required = 1
		}

		links := nav.Find("a[href]")
		if links.Length() < 2 || links.Length() > 10 {
			return
		}

		matched := make(map[string]struct{})
		usable := 0
		links.Each(func(_ int, link *goquery.Selection) {
			href := strings.ToLower(link.AttrOr("href", ""))
			if excludedDomain(href) {
				return
			}
			usable++
			if code, ok := langCodeFromPath(href); ok {
				matched[code] = struct{}{}
			}
			if code, ok := langCodeFromParam(href); ok {
				matched[code] = struct{}{}
			}
			text := strings.ToLower(strings.TrimSpace(link.Text()))
			for name, code := range languageNames {
				if text == name || text == code || strings.HasPrefix(text, name+" ") {
					matched[code] = struct{}{}
					break
				}
			}
		})

		if usable < 2 || len(matched) < required {
			return
		}
		found = true
		for c := range matched {
			codes[c] = struct{}{}
		}
	})
	return found
}

// menuFromExactIDs checks the highly specific id values. The element
// must contain a link, select or button to rule out stray ids.
func menuFromExactIDs(doc *goquery.Document) bool {
	for _, id := range exactMenuIDs {
		el := doc.Find("#" + id)
		if el.Length() == 0 {
			continue
		}
		if el.Find("a, select, button").Length() > 0 {
			return true
		}
	}
	return false
}

func hasMenuIndicator(sel *goquery.Selection) bool {
	attrs := strings.ToLower(sel.AttrOr("id", "") + " " + sel.AttrOr("name", "") + " " + sel.AttrOr("class", ""))
	for _, ind := range menuIndicators {
		if strings.Contains(attrs, ind) {
			return true
		}
	}
	return false
}

func hasExplicitMenuTerm(sel *goquery.Selection) bool {
	attrs := strings.ToLower(sel.AttrOr("id", "") + " " + sel.AttrOr("class", ""))
	for _, term := range explicitMenuTerms {
		if strings.Contains(attrs, term) {
			return true
		}
	}
	return false
}
