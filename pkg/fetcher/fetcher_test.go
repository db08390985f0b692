package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aisatlas/langcover/models"
)

func testFetcher(t *testing.T, opts Options) *Fetcher {
	t.Helper()
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Millisecond
	}
	return New(opts)
}

func org(url string) models.Organization {
	return models.Organization{Name: "Test Org", URL: url}
}

func TestFetch_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html lang="en"><body>hello</body></html>`))
	}))
	defer srv.Close()

	res := testFetcher(t, Options{}).Fetch(context.Background(), org(srv.URL))

	if res.Status != models.StatusOK {
		t.Fatalf("Status = %q, want ok (err: %v)", res.Status, res.Err)
	}
	if res.HTML == "" {
		t.Error("HTML is empty on a successful fetch")
	}
	if res.HTTPStatus != 200 {
		t.Errorf("HTTPStatus = %d, want 200", res.HTTPStatus)
	}
}

func TestFetch_404NotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	res := testFetcher(t, Options{MaxRetries: 2}).Fetch(context.Background(), org(srv.URL))

	if res.Status != models.StatusHTTPError {
		t.Errorf("Status = %q, want http_error", res.Status)
	}
	if res.HTTPStatus != 404 {
		t.Errorf("HTTPStatus = %d, want 404", res.HTTPStatus)
	}
	if res.Err == nil {
		t.Error("Err is nil, want populated")
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1 (4xx is terminal)", got)
	}
}

func TestFetch_500RetriedUntilExhausted(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := testFetcher(t, Options{MaxRetries: 2}).Fetch(context.Background(), org(srv.URL))

	if res.Status != models.StatusHTTPError {
		t.Errorf("Status = %q, want http_error", res.Status)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hit %d times, want 3 (initial + 2 retries)", got)
	}
}

func TestFetch_TransientFailureRecovers(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("<html><body>recovered</body></html>"))
	}))
	defer srv.Close()

	res := testFetcher(t, Options{MaxRetries: 2}).Fetch(context.Background(), org(srv.URL))

	if res.Status != models.StatusOK {
		t.Errorf("Status = %q, want ok after recovery (err: %v)", res.Status, res.Err)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hit %d times, want 3", got)
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	res := testFetcher(t, Options{Timeout: 20 * time.Millisecond, MaxRetries: 1}).
		Fetch(context.Background(), org(srv.URL))

	if res.Status != models.StatusTimeout {
		t.Errorf("Status = %q, want timeout", res.Status)
	}
	if res.Err == nil {
		t.Error("Err is nil, want populated")
	}
}

func TestFetch_DNSError(t *testing.T) {
	// .invalid is reserved and guaranteed not to resolve.
	res := testFetcher(t, Options{MaxRetries: 2, Timeout: 5 * time.Second}).
		Fetch(context.Background(), org("http://nonexistent.invalid/"))

	if res.Status != models.StatusDNSError {
		t.Errorf("Status = %q, want dns_error (err: %v)", res.Status, res.Err)
	}
}

func TestFetch_BlockedInterstitial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Checking your browser before accessing example.org</body></html>`))
	}))
	defer srv.Close()

	res := testFetcher(t, Options{}).Fetch(context.Background(), org(srv.URL))

	if res.Status != models.StatusBlocked {
		t.Errorf("Status = %q, want blocked", res.Status)
	}
	if res.HTML != "" {
		t.Error("HTML must be empty for a blocked result")
	}
}

func TestFetch_FollowsRedirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>landed</body></html>"))
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/landing", http.StatusFound)
	}))
	defer redirecting.Close()

	res := testFetcher(t, Options{}).Fetch(context.Background(), org(redirecting.URL))

	if res.Status != models.StatusOK {
		t.Fatalf("Status = %q, want ok (err: %v)", res.Status, res.Err)
	}
	if want := final.URL + "/landing"; res.FinalURL != want {
		t.Errorf("FinalURL = %q, want %q", res.FinalURL, want)
	}
}

func TestBlocked(t *testing.T) {
	if Blocked("<html><body>Welcome to our site</body></html>") {
		t.Error("normal page flagged as blocked")
	}
	if !Blocked(`<div class="g-recaptcha" data-sitekey="x"></div>`) {
		t.Error("captcha page not flagged as blocked")
	}
}
