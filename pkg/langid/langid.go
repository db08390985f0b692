// Package langid wraps the lingua statistical language detector behind
// a fail-closed interface: any input it cannot classify confidently
// comes back as "unknown" rather than an error.
package langid

import (
	"strings"
	"unicode"

	"github.com/pemistahl/lingua-go"

	"github.com/aisatlas/langcover/models"
)

// MinLetters is the least alphabetic content accepted before invoking
// the classifier; shorter samples produce noise guesses.
const MinLetters = 20

// recognized is the language set the detector is built over, matching
// the selector vocabulary in pkg/signals.
var recognized = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Russian,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Arabic,
	lingua.Hindi,
}

// Identifier reduces a body-text sample to a best-guess language code
// with a confidence score. Build one and share it: the underlying
// detector is immutable and safe for concurrent use.
type Identifier struct {
	detector lingua.LanguageDetector
}

func New() *Identifier {
	return &Identifier{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(recognized...).
			Build(),
	}
}

// Identify returns the best-guess language for a text sample. It never
// errors: malformed, empty or short input yields ("unknown", 0).
func (i *Identifier) Identify(text string) models.LanguageGuess {
	if letterCount(text) < MinLetters {
		return models.UnknownGuess()
	}

	values := i.detector.ComputeLanguageConfidenceValues(text)
	if len(values) == 0 {
		return models.UnknownGuess()
	}

	top := values[0]
	if top.Value() <= 0 {
		return models.UnknownGuess()
	}
	return models.LanguageGuess{
		Code:       strings.ToLower(top.Language().IsoCode639_1().String()),
		Confidence: top.Value(),
	}
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
