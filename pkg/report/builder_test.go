package report

import (
	"errors"
	"testing"

	"github.com/aisatlas/langcover/models"
	"github.com/aisatlas/langcover/pkg/aggregate"
)

var testOrg = models.Organization{Name: "Example Org", URL: "https://example.org"}

func TestBuild_FailureShortCircuits(t *testing.T) {
	// A verdict full of positives must be ignored when the fetch failed.
	verdict := aggregate.Verdict{
		PrimaryLanguage:        "fr",
		Source:                 models.SourceDeclared,
		HasLanguageOptions:     true,
		OptionCodes:            []string{"fr"},
		HasNonEnglishResources: true,
		SampleLinks:            []string{"/fr/"},
	}

	for _, status := range []models.FetchStatus{
		models.StatusTimeout,
		models.StatusHTTPError,
		models.StatusDNSError,
		models.StatusBlocked,
	} {
		fetch := models.FetchResult{Status: status, Err: errors.New("boom")}
		r := Build(testOrg, fetch, verdict)

		if r.FetchStatus != status {
			t.Errorf("%s: FetchStatus = %q", status, r.FetchStatus)
		}
		if r.PrimaryLanguage != models.UnknownLanguage {
			t.Errorf("%s: PrimaryLanguage = %q, want unknown", status, r.PrimaryLanguage)
		}
		if r.PrimaryLanguageSource != models.SourceUnknown {
			t.Errorf("%s: Source = %q, want unknown", status, r.PrimaryLanguageSource)
		}
		if r.HasLanguageOptions || r.HasNonEnglishResources {
			t.Errorf("%s: derived booleans must be false on failure", status)
		}
		if len(r.LanguageOptionCodes) != 0 || len(r.NonEnglishSampleLinks) != 0 {
			t.Errorf("%s: derived lists must be empty on failure", status)
		}
		if r.Error == "" {
			t.Errorf("%s: Error must be populated on failure", status)
		}
	}
}

func TestBuild_HTTPErrorReasonIncludesStatus(t *testing.T) {
	fetch := models.FetchResult{Status: models.StatusHTTPError, HTTPStatus: 503}

	r := Build(testOrg, fetch, aggregate.Verdict{})

	if want := "http error: status 503"; r.Error != want {
		t.Errorf("Error = %q, want %q", r.Error, want)
	}
}

func TestBuild_Success(t *testing.T) {
	fetch := models.FetchResult{
		Status:     models.StatusOK,
		HTML:       "<html></html>",
		FinalURL:   "https://example.org/",
		HTTPStatus: 200,
	}
	verdict := aggregate.Verdict{
		PrimaryLanguage:        "en",
		Source:                 models.SourceDeclared,
		HasLanguageOptions:     true,
		OptionCodes:            []string{"fr"},
		HasNonEnglishResources: true,
		SampleLinks:            []string{"/fr/"},
	}

	r := Build(testOrg, fetch, verdict)

	if r.Error != "" {
		t.Errorf("Error = %q, want empty on success", r.Error)
	}
	if r.PrimaryLanguage != "en" || r.PrimaryLanguageSource != models.SourceDeclared {
		t.Errorf("primary = %q/%q, want en/declared", r.PrimaryLanguage, r.PrimaryLanguageSource)
	}
	if !r.HasLanguageOptions || !r.HasNonEnglishResources {
		t.Error("derived booleans lost in assembly")
	}
	if r.Organization != testOrg {
		t.Errorf("Organization = %+v, want %+v", r.Organization, testOrg)
	}
}
