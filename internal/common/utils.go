// Package common holds small helpers shared by the CLI actions.
package common

import (
	"net/url"
	"strings"

	"github.com/aisatlas/langcover/models"
)

// SanitizeURL performs basic cleanup on URLs to handle common
// copy-paste issues: surrounding whitespace, stray punctuation, and
// markdown-style wrapping.
func SanitizeURL(rawURL string) string {
	cleaned := strings.TrimSpace(rawURL)

	for _, prefix := range []string{"(", "[", "<", "\"", "'"} {
		cleaned = strings.TrimPrefix(cleaned, prefix)
	}
	for _, suffix := range []string{",", ".", ")", "}", "]", "\"", "'", ">", ";"} {
		cleaned = strings.TrimSuffix(cleaned, suffix)
	}

	return strings.TrimSpace(cleaned)
}

// ValidURL reports whether a sanitized URL is an absolute http(s) URL.
func ValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// PrepareOrganizations sanitizes every URL, drops entries that remain
// invalid, and deduplicates by URL keeping the first occurrence. Input
// order is preserved. Returns the usable list and the dropped raw URLs.
func PrepareOrganizations(orgs []models.Organization) ([]models.Organization, []string) {
	seen := make(map[string]struct{}, len(orgs))
	prepared := make([]models.Organization, 0, len(orgs))
	var invalid []string

	for _, org := range orgs {
		cleaned := SanitizeURL(org.URL)
		if !ValidURL(cleaned) {
			invalid = append(invalid, org.URL)
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		prepared = append(prepared, models.Organization{Name: org.Name, URL: cleaned})
	}
	return prepared, invalid
}
