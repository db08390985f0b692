package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aisatlas/langcover/models"
)

// UpsertOrganization inserts an organization or refreshes its name if
// the URL is already known. Returns the org_id either way.
func (db *DB) UpsertOrganization(org models.Organization) (int64, error) {
	_, err := db.Exec(`
		INSERT INTO organizations (name, url) VALUES (?, ?)
		ON CONFLICT(url) DO UPDATE SET name = excluded.name`,
		org.Name, org.URL)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert organization: %w", err)
	}

	var id int64
	if err := db.QueryRow("SELECT org_id FROM organizations WHERE url = ?", org.URL).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to read organization id: %w", err)
	}
	return id, nil
}

// ListOrganizations returns all known organizations in insertion order.
func (db *DB) ListOrganizations() ([]models.Organization, error) {
	rows, err := db.Query("SELECT name, url FROM organizations ORDER BY org_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []models.Organization
	for rows.Next() {
		var org models.Organization
		if err := rows.Scan(&org.Name, &org.URL); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// CreateRun records the start of an analysis run.
func (db *DB) CreateRun(orgCount int, renderJavaScript bool) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO runs (org_count, render_javascript) VALUES (?, ?)",
		orgCount, renderJavaScript)
	if err != nil {
		return 0, fmt.Errorf("failed to create run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun stores the final tallies for a run.
func (db *DB) FinishRun(runID int64, analyzed, failed int) error {
	_, err := db.Exec(
		"UPDATE runs SET analyzed = ?, failed = ? WHERE run_id = ?",
		analyzed, failed, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// LatestRunID returns the most recent run, or sql.ErrNoRows if none
// has been recorded.
func (db *DB) LatestRunID() (int64, error) {
	var id int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1").Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// InsertResult stores one analysis result for a run.
func (db *DB) InsertResult(runID, orgID int64, r models.AnalysisResult) error {
	codes, err := marshalStrings(r.LanguageOptionCodes)
	if err != nil {
		return err
	}
	links, err := marshalStrings(r.NonEnglishSampleLinks)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO results (
			run_id, org_id, fetch_status,
			primary_language, primary_language_source,
			has_language_options, language_option_codes,
			has_non_english_resources, sample_links, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, orgID, string(r.FetchStatus),
		r.PrimaryLanguage, string(r.PrimaryLanguageSource),
		r.HasLanguageOptions, codes,
		r.HasNonEnglishResources, links, nullString(r.Error))
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// GetRunResults loads all results of a run, joined with their
// organizations, ordered by organization name.
func (db *DB) GetRunResults(runID int64) ([]models.AnalysisResult, error) {
	rows, err := db.Query(`
		SELECT o.name, o.url, r.fetch_status,
		       r.primary_language, r.primary_language_source,
		       r.has_language_options, r.language_option_codes,
		       r.has_non_english_resources, r.sample_links, r.error
		FROM results r
		JOIN organizations o ON o.org_id = r.org_id
		WHERE r.run_id = ?
		ORDER BY o.name, o.url`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run results: %w", err)
	}
	defer rows.Close()

	var results []models.AnalysisResult
	for rows.Next() {
		var r models.AnalysisResult
		var codes, links, errText sql.NullString
		if err := rows.Scan(
			&r.Organization.Name, &r.Organization.URL, &r.FetchStatus,
			&r.PrimaryLanguage, &r.PrimaryLanguageSource,
			&r.HasLanguageOptions, &codes,
			&r.HasNonEnglishResources, &links, &errText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		if r.LanguageOptionCodes, err = unmarshalStrings(codes); err != nil {
			return nil, err
		}
		if r.NonEnglishSampleLinks, err = unmarshalStrings(links); err != nil {
			return nil, err
		}
		r.Error = errText.String
		results = append(results, r)
	}
	return results, rows.Err()
}

func marshalStrings(values []string) (sql.NullString, error) {
	if len(values) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalStrings(ns sql.NullString) ([]string, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(ns.String), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string list: %w", err)
	}
	return values, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
