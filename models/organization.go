// Package models defines the data types shared across the analysis
// pipeline and the runtime configuration.
package models

// Organization is one entry from the directory site: a display name and
// the home-page URL we analyze. Identity is the (name, url) pair; the
// input stream is deduplicated by URL before analysis.
type Organization struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}
