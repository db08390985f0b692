package models

// Observations collects the output of every signal extractor for one
// page. A nil pointer or empty field means the signal was absent, which
// is a valid, information-bearing outcome rather than an error.
type Observations struct {
	DeclaredLang      *string
	MetaLang          *string
	HreflangCodes     []string
	LanguageMenu      *MenuObservation
	TranslateWidget   bool
	NonEnglishAnchors *AnchorObservation
	BodySample        string
}

// MenuObservation records a language selector found in the DOM, either
// a dropdown or a group of language links.
type MenuObservation struct {
	Codes []string
}

// AnchorObservation records anchors pointing at non-English resources.
// Samples holds deduplicated hrefs in discovery order.
type AnchorObservation struct {
	Count   int
	Samples []string
}
