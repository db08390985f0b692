package signals

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/aisatlas/langcover/models"
)

// maxSampleRunes bounds the text handed to the language classifier;
// beyond this the guess does not get more reliable, only slower.
const maxSampleRunes = 2000

// extractBodySample pulls readable text for statistical language
// detection. go-readability isolates the main content; if it finds
// nothing usable, fall back to the body text with script and style
// nodes stripped.
func extractBodySample(doc *goquery.Document, finalURL string, obs *models.Observations) {
	html, err := doc.Html()
	if err != nil {
		return
	}

	var text string
	if parsedURL, urlErr := url.Parse(finalURL); urlErr == nil && parsedURL.Host != "" {
		readabilityParser := readability.NewParser()
		if article, rErr := readabilityParser.Parse(strings.NewReader(html), parsedURL); rErr == nil {
			text = article.TextContent
		}
	}

	if strings.TrimSpace(text) == "" {
		body := doc.Find("body").Clone()
		body.Find("script, style, noscript").Remove()
		text = body.Text()
	}

	text = normalizeText(text)
	runes := []rune(text)
	if len(runes) > maxSampleRunes {
		text = string(runes[:maxSampleRunes])
	}
	obs.BodySample = text
}

// normalizeText collapses all runs of whitespace to single spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
