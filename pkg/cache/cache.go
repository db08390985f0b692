// Package cache stores raw HTML snapshots per organization URL so
// re-analysis runs can skip the network. Entries older than the
// configured max age are treated as missing.
package cache

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const DefaultBaseDir = "langcover-cache"

// Store is a filesystem-backed raw HTML cache.
type Store struct {
	baseDir string
	maxAge  time.Duration
}

// New creates the cache directory if needed. A maxAge of zero means
// entries never go stale.
func New(baseDir string, maxAge time.Duration) (*Store, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{baseDir: baseDir, maxAge: maxAge}, nil
}

func (s *Store) MaxAge() time.Duration { return s.maxAge }

// Get returns the cached HTML for a URL and whether a fresh entry was
// found.
func (s *Store) Get(rawURL string) (string, bool) {
	p := s.entryPath(rawURL)
	info, err := os.Stat(p)
	if err != nil {
		return "", false
	}
	if s.maxAge > 0 && time.Since(info.ModTime()) > s.maxAge {
		return "", false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Put stores the HTML for a URL, replacing any previous snapshot.
func (s *Store) Put(rawURL, html string) error {
	if err := os.WriteFile(s.entryPath(rawURL), []byte(html), 0640); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

func (s *Store) entryPath(rawURL string) string {
	hash := sha256.Sum256([]byte(normalizeURL(rawURL)))
	return filepath.Join(s.baseDir, fmt.Sprintf("%x.html", hash[:6]))
}

// normalizeURL creates a canonical representation so trivially
// different spellings of the same URL share one entry.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	if u.Scheme == "http" {
		u.Scheme = "https"
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		params := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sorted := url.Values{}
		for _, k := range keys {
			for _, v := range params[k] {
				sorted.Add(k, v)
			}
		}
		u.RawQuery = sorted.Encode()
	}

	return u.String()
}
