package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aisatlas/langcover/models"
)

func TestWriteSummaryCSV_SortedRows(t *testing.T) {
	results := []models.AnalysisResult{
		{
			Organization:    models.Organization{Name: "Zeta Lab", URL: "https://zeta.example"},
			FetchStatus:     models.StatusOK,
			PrimaryLanguage: "en",
		},
		{
			Organization:          models.Organization{Name: "Alpha Institute", URL: "https://alpha.example"},
			FetchStatus:           models.StatusTimeout,
			PrimaryLanguage:       models.UnknownLanguage,
			PrimaryLanguageSource: models.SourceUnknown,
			Error:                 "fetch timed out",
		},
	}

	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := WriteSummaryCSV(path, results); err != nil {
		t.Fatalf("WriteSummaryCSV() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open written csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to read written csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("row count = %d, want 3 (header + 2)", len(rows))
	}
	if rows[1][0] != "Alpha Institute" || rows[2][0] != "Zeta Lab" {
		t.Errorf("rows not sorted by name: %v / %v", rows[1][0], rows[2][0])
	}
	if rows[1][7] != "fetch timed out" {
		t.Errorf("error column = %q, want %q", rows[1][7], "fetch timed out")
	}
}

func TestWriteDetailJSON_RoundTrip(t *testing.T) {
	results := []models.AnalysisResult{
		{
			Organization:           models.Organization{Name: "Org", URL: "https://org.example"},
			FetchStatus:            models.StatusOK,
			PrimaryLanguage:        "en",
			PrimaryLanguageSource:  models.SourceDeclared,
			HasLanguageOptions:     true,
			LanguageOptionCodes:    []string{"de", "fr"},
			HasNonEnglishResources: true,
			NonEnglishSampleLinks:  []string{"/fr/about"},
		},
	}

	path := filepath.Join(t.TempDir(), "detail.json")
	if err := WriteDetailJSON(path, results); err != nil {
		t.Fatalf("WriteDetailJSON() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written json: %v", err)
	}

	var loaded []models.AnalysisResult
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("written json does not parse: %v", err)
	}
	if !reflect.DeepEqual(loaded, results) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", loaded, results)
	}
}

func TestOrganizationsCSV_RoundTrip(t *testing.T) {
	orgs := []models.Organization{
		{Name: "A", URL: "https://a.example"},
		{Name: "B", URL: "https://b.example"},
	}

	path := filepath.Join(t.TempDir(), "orgs.csv")
	if err := WriteOrganizationsCSV(path, orgs); err != nil {
		t.Fatalf("WriteOrganizationsCSV() error = %v", err)
	}

	loaded, err := ReadOrganizationsCSV(path)
	if err != nil {
		t.Fatalf("ReadOrganizationsCSV() error = %v", err)
	}
	if !reflect.DeepEqual(loaded, orgs) {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, orgs)
	}
}

func TestReadOrganizationsCSV_SkipsEmptyURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orgs.csv")
	content := "name,url\nGood,https://good.example\nBad,\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	loaded, err := ReadOrganizationsCSV(path)
	if err != nil {
		t.Fatalf("ReadOrganizationsCSV() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Good" {
		t.Errorf("loaded = %+v, want only the Good row", loaded)
	}
}
