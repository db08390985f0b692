package models

// UnknownLanguage is the code used when no signal decides the language.
const UnknownLanguage = "unknown"

// PrimarySource names the signal tier that decided the primary language.
type PrimarySource string

const (
	SourceDeclared PrimarySource = "declared"
	SourceMeta     PrimarySource = "meta"
	SourceDetected PrimarySource = "detected"
	SourceUnknown  PrimarySource = "unknown"
)

// LanguageGuess is the statistical classifier's best estimate for a
// body-text sample. Code is UnknownLanguage exactly when Confidence is
// zero.
type LanguageGuess struct {
	Code       string
	Confidence float64
}

// UnknownGuess returns the fail-closed guess for short or undecidable text.
func UnknownGuess() LanguageGuess {
	return LanguageGuess{Code: UnknownLanguage}
}

// AnalysisResult is the one record emitted per organization per run.
// It is constructed once by the record builder and immutable afterwards.
type AnalysisResult struct {
	Organization           Organization  `json:"organization" yaml:"organization"`
	FetchStatus            FetchStatus   `json:"fetch_status" yaml:"fetch_status"`
	PrimaryLanguage        string        `json:"primary_language" yaml:"primary_language"`
	PrimaryLanguageSource  PrimarySource `json:"primary_language_source" yaml:"primary_language_source"`
	HasLanguageOptions     bool          `json:"has_language_options" yaml:"has_language_options"`
	LanguageOptionCodes    []string      `json:"language_option_codes,omitempty" yaml:"language_option_codes,omitempty"`
	HasNonEnglishResources bool          `json:"has_non_english_resources" yaml:"has_non_english_resources"`
	NonEnglishSampleLinks  []string      `json:"non_english_sample_links,omitempty" yaml:"non_english_sample_links,omitempty"`
	Error                  string        `json:"error,omitempty" yaml:"error,omitempty"`
}
