package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/aisatlas/langcover/models"
)

var summaryHeader = []string{
	"name", "url", "fetch_status",
	"primary_language", "primary_language_source",
	"has_language_options", "has_non_english_resources", "error",
}

// WriteSummaryCSV writes the summary table, one row per organization.
// Rows are sorted by organization name so reruns produce stable files;
// pipeline emission order carries no meaning.
func WriteSummaryCSV(path string, results []models.AnalysisResult) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(summaryHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range sortedByName(results) {
		row := []string{
			r.Organization.Name,
			r.Organization.URL,
			string(r.FetchStatus),
			r.PrimaryLanguage,
			string(r.PrimaryLanguageSource),
			strconv.FormatBool(r.HasLanguageOptions),
			strconv.FormatBool(r.HasNonEnglishResources),
			r.Error,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// WriteDetailJSON writes the full detail document, including option
// codes and sample links.
func WriteDetailJSON(path string, results []models.AnalysisResult) error {
	data, err := json.MarshalIndent(sortedByName(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write detail document: %w", err)
	}
	return nil
}

// WriteOrganizationsCSV persists a scraped organization list.
func WriteOrganizationsCSV(path string, orgs []models.Organization) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "url"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, org := range orgs {
		if err := w.Write([]string{org.Name, org.URL}); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// ReadOrganizationsCSV loads an organization list written by the
// scraper (or by hand). Expects a name,url header row.
func ReadOrganizationsCSV(path string) ([]models.Organization, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open organizations csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse organizations csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	start := 0
	if len(rows[0]) >= 2 && rows[0][0] == "name" && rows[0][1] == "url" {
		start = 1
	}

	orgs := make([]models.Organization, 0, len(rows)-start)
	for _, row := range rows[start:] {
		if len(row) < 2 || row[1] == "" {
			continue
		}
		orgs = append(orgs, models.Organization{Name: row[0], URL: row[1]})
	}
	return orgs, nil
}

func sortedByName(results []models.AnalysisResult) []models.AnalysisResult {
	sorted := make([]models.AnalysisResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Organization.Name != sorted[j].Organization.Name {
			return sorted[i].Organization.Name < sorted[j].Organization.Name
		}
		return sorted[i].Organization.URL < sorted[j].Organization.URL
	})
	return sorted
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
