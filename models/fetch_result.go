package models

// FetchStatus classifies the terminal outcome of fetching one page.
type FetchStatus string

const (
	StatusOK        FetchStatus = "ok"
	StatusTimeout   FetchStatus = "timeout"
	StatusHTTPError FetchStatus = "http_error"
	StatusDNSError  FetchStatus = "dns_error"
	StatusBlocked   FetchStatus = "blocked"
)

// FetchResult is what the fetcher hands to the analysis pipeline.
// HTML is empty and Err is set whenever Status != StatusOK. Created
// once per organization per run and never mutated afterwards.
type FetchResult struct {
	Status     FetchStatus
	HTML       string
	FinalURL   string
	HTTPStatus int
	Err        error
}

// OK reports whether the page was fetched successfully.
func (r FetchResult) OK() bool { return r.Status == StatusOK }
