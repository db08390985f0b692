// Package stats reduces a run's results to the aggregate numbers the
// survey reports: how many sites are English-only, how many offer
// language options, how many link to non-English resources.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/aisatlas/langcover/models"
)

// Summary holds the aggregate counters for one run.
type Summary struct {
	Total                   int
	Analyzed                int
	EnglishPrimary          int
	WithLanguageOptions     int
	WithNonEnglishResources int
	ByLanguage              map[string]int
}

// Summarize folds a result list into a Summary. Failed fetches count
// toward Total only.
func Summarize(results []models.AnalysisResult) Summary {
	s := Summary{
		Total:      len(results),
		ByLanguage: make(map[string]int),
	}
	for _, r := range results {
		if r.FetchStatus != models.StatusOK {
			continue
		}
		s.Analyzed++
		s.ByLanguage[r.PrimaryLanguage]++
		if r.PrimaryLanguage == "en" {
			s.EnglishPrimary++
		}
		if r.HasLanguageOptions {
			s.WithLanguageOptions++
		}
		if r.HasNonEnglishResources {
			s.WithNonEnglishResources++
		}
	}
	return s
}

func (s Summary) EnglishPercent() float64 { return pct(s.EnglishPrimary, s.Analyzed) }

func (s Summary) LanguageOptionsPercent() float64 { return pct(s.WithLanguageOptions, s.Analyzed) }

func (s Summary) NonEnglishResourcesPercent() float64 {
	return pct(s.WithNonEnglishResources, s.Analyzed)
}

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// Print writes the aggregate block to w.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "Analysis Results:")
	fmt.Fprintf(w, "Total organizations: %d\n", s.Total)
	fmt.Fprintf(w, "Successfully analyzed: %d\n", s.Analyzed)
	fmt.Fprintf(w, "Websites primarily in English: %d (%.1f%%)\n", s.EnglishPrimary, s.EnglishPercent())
	fmt.Fprintf(w, "Websites with language options: %d (%.1f%%)\n", s.WithLanguageOptions, s.LanguageOptionsPercent())
	fmt.Fprintf(w, "Websites with non-English resources: %d (%.1f%%)\n", s.WithNonEnglishResources, s.NonEnglishResourcesPercent())

	if len(s.ByLanguage) == 0 {
		return
	}
	fmt.Fprintln(w, "Primary languages:")
	for _, lang := range sortedLangs(s.ByLanguage) {
		fmt.Fprintf(w, "  %s: %d\n", lang, s.ByLanguage[lang])
	}
}

// sortedLangs orders languages by count descending, then name, so the
// printed block is deterministic.
func sortedLangs(byLang map[string]int) []string {
	langs := make([]string, 0, len(byLang))
	for lang := range byLang {
		langs = append(langs, lang)
	}
	sort.Slice(langs, func(i, j int) bool {
		if byLang[langs[i]] != byLang[langs[j]] {
			return byLang[langs[i]] > byLang[langs[j]]
		}
		return langs[i] < langs[j]
	})
	return langs
}
