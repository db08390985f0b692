package db

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/aisatlas/langcover/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	db := &DB{DB: sqlDB, path: ":memory:"}
	if err := db.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertOrganization(t *testing.T) {
	db := setupTestDB(t)

	id1, err := db.UpsertOrganization(models.Organization{Name: "Org A", URL: "https://a.org"})
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// Same URL with a new name must reuse the row.
	id2, err := db.UpsertOrganization(models.Organization{Name: "Org A Renamed", URL: "https://a.org"})
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("upsert created a new row: ids %d and %d", id1, id2)
	}

	orgs, err := db.ListOrganizations()
	if err != nil {
		t.Fatalf("ListOrganizations failed: %v", err)
	}
	if len(orgs) != 1 {
		t.Fatalf("got %d organizations, want 1", len(orgs))
	}
	if orgs[0].Name != "Org A Renamed" {
		t.Errorf("Name = %q, want the refreshed name", orgs[0].Name)
	}
}

func TestListOrganizations_InsertionOrder(t *testing.T) {
	db := setupTestDB(t)

	for _, org := range []models.Organization{
		{Name: "Zeta", URL: "https://zeta.org"},
		{Name: "Alpha", URL: "https://alpha.org"},
	} {
		if _, err := db.UpsertOrganization(org); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	orgs, err := db.ListOrganizations()
	if err != nil {
		t.Fatalf("ListOrganizations failed: %v", err)
	}
	if len(orgs) != 2 || orgs[0].Name != "Zeta" || orgs[1].Name != "Alpha" {
		t.Errorf("got %v, want insertion order Zeta then Alpha", orgs)
	}
}

func TestRunLifecycle(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.LatestRunID(); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("LatestRunID on empty db: err = %v, want sql.ErrNoRows", err)
	}

	runID, err := db.CreateRun(10, true)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := db.FinishRun(runID, 8, 2); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	latest, err := db.LatestRunID()
	if err != nil {
		t.Fatalf("LatestRunID failed: %v", err)
	}
	if latest != runID {
		t.Errorf("LatestRunID = %d, want %d", latest, runID)
	}

	var analyzed, failed int
	var renderJS bool
	err = db.QueryRow(
		"SELECT analyzed, failed, render_javascript FROM runs WHERE run_id = ?", runID).
		Scan(&analyzed, &failed, &renderJS)
	if err != nil {
		t.Fatalf("failed to read run row: %v", err)
	}
	if analyzed != 8 || failed != 2 || !renderJS {
		t.Errorf("run row = (%d, %d, %v), want (8, 2, true)", analyzed, failed, renderJS)
	}
}

func TestResultRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	orgID, err := db.UpsertOrganization(models.Organization{Name: "Org A", URL: "https://a.org"})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	runID, err := db.CreateRun(1, false)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	stored := models.AnalysisResult{
		Organization:           models.Organization{Name: "Org A", URL: "https://a.org"},
		FetchStatus:            models.StatusOK,
		PrimaryLanguage:        "en",
		PrimaryLanguageSource:  models.SourceDeclared,
		HasLanguageOptions:     true,
		LanguageOptionCodes:    []string{"de", "en", "fr"},
		HasNonEnglishResources: true,
		NonEnglishSampleLinks:  []string{"https://a.org/fr/", "https://a.org/de/"},
	}
	if err := db.InsertResult(runID, orgID, stored); err != nil {
		t.Fatalf("InsertResult failed: %v", err)
	}

	results, err := db.GetRunResults(runID)
	if err != nil {
		t.Fatalf("GetRunResults failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if !reflect.DeepEqual(results[0], stored) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", results[0], stored)
	}
}

func TestInsertResult_FailureRow(t *testing.T) {
	db := setupTestDB(t)

	orgID, err := db.UpsertOrganization(models.Organization{Name: "Down", URL: "https://down.org"})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	runID, err := db.CreateRun(1, false)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	stored := models.AnalysisResult{
		Organization:          models.Organization{Name: "Down", URL: "https://down.org"},
		FetchStatus:           models.StatusTimeout,
		PrimaryLanguage:       models.UnknownLanguage,
		PrimaryLanguageSource: models.SourceUnknown,
		Error:                 "request timed out after 2 retries",
	}
	if err := db.InsertResult(runID, orgID, stored); err != nil {
		t.Fatalf("InsertResult failed: %v", err)
	}

	results, err := db.GetRunResults(runID)
	if err != nil {
		t.Fatalf("GetRunResults failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	got := results[0]
	if got.Error != stored.Error {
		t.Errorf("Error = %q, want %q", got.Error, stored.Error)
	}
	if got.LanguageOptionCodes != nil || got.NonEnglishSampleLinks != nil {
		t.Errorf("empty lists must round trip as nil, got %v / %v",
			got.LanguageOptionCodes, got.NonEnglishSampleLinks)
	}
}

func TestGetRunResults_OrderedByName(t *testing.T) {
	db := setupTestDB(t)

	runID, err := db.CreateRun(2, false)
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	for _, org := range []models.Organization{
		{Name: "Zeta", URL: "https://zeta.org"},
		{Name: "Alpha", URL: "https://alpha.org"},
	} {
		orgID, err := db.UpsertOrganization(org)
		if err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
		r := models.AnalysisResult{
			Organization:          org,
			FetchStatus:           models.StatusOK,
			PrimaryLanguage:       "en",
			PrimaryLanguageSource: models.SourceDeclared,
		}
		if err := db.InsertResult(runID, orgID, r); err != nil {
			t.Fatalf("InsertResult failed: %v", err)
		}
	}

	results, err := db.GetRunResults(runID)
	if err != nil {
		t.Fatalf("GetRunResults failed: %v", err)
	}
	if len(results) != 2 || results[0].Organization.Name != "Alpha" {
		t.Errorf("results not ordered by name: %+v", results)
	}
}
