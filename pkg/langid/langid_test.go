package langid

import (
	"strings"
	"testing"

	"github.com/aisatlas/langcover/models"
)

const frenchText = "L'intelligence artificielle transforme notre société de manière profonde. " +
	"Les chercheurs étudient les risques et les bénéfices de ces nouvelles technologies " +
	"pour garantir un développement sûr et responsable au service de tous les citoyens."

const englishText = "Artificial intelligence research focuses on building safe and beneficial " +
	"systems. Our organization publishes reports, hosts workshops, and collaborates with " +
	"policymakers around the world to reduce risks from advanced technologies."

func assertUnknown(t *testing.T, guess models.LanguageGuess, input string) {
	t.Helper()
	if guess.Code != models.UnknownLanguage {
		t.Errorf("Identify(%q).Code = %q, want unknown", input, guess.Code)
	}
	if guess.Confidence != 0 {
		t.Errorf("Identify(%q).Confidence = %v, want 0", input, guess.Confidence)
	}
}

func TestIdentify_EmptyText(t *testing.T) {
	assertUnknown(t, New().Identify(""), "")
}

func TestIdentify_ShortTextFailsClosed(t *testing.T) {
	i := New()
	for _, input := range []string{"Hello", "OK", "   ", "12345 67890 !!!", "Read more"} {
		assertUnknown(t, i.Identify(input), input)
	}
}

func TestIdentify_French(t *testing.T) {
	guess := New().Identify(frenchText)

	if guess.Code != "fr" {
		t.Errorf("Code = %q, want fr", guess.Code)
	}
	if guess.Confidence <= 0 || guess.Confidence > 1 {
		t.Errorf("Confidence = %v, want in (0, 1]", guess.Confidence)
	}
}

func TestIdentify_English(t *testing.T) {
	guess := New().Identify(englishText)

	if guess.Code != "en" {
		t.Errorf("Code = %q, want en", guess.Code)
	}
	if guess.Confidence <= 0 {
		t.Errorf("Confidence = %v, want > 0", guess.Confidence)
	}
}

func TestIdentify_UnknownInvariant(t *testing.T) {
	// Code is "unknown" exactly when confidence is zero.
	i := New()
	for _, input := range []string{"", "hi", frenchText, englishText, strings.Repeat("z", 50)} {
		guess := i.Identify(input)
		unknown := guess.Code == models.UnknownLanguage
		zero := guess.Confidence == 0
		if unknown != zero {
			t.Errorf("Identify(%.20q...) = {%q, %v}: unknown iff zero-confidence violated", input, guess.Code, guess.Confidence)
		}
	}
}
