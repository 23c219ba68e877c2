package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func testScraper(t *testing.T) *SiteScraper {
	t.Helper()
	s := NewSiteScraper(5*time.Second, "vendorwatch-test/1.0", testLogger())
	s.fetcher.allowPrivate = true
	return s
}

func page(title, body string, links ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<html><head><title>%s</title></head><body><main><h1>%s</h1><p>%s</p>", title, title, body)
	for _, link := range links {
		fmt.Fprintf(&sb, `<a href=%q>%s</a>`, link, link)
	}
	sb.WriteString("</main></body></html>")
	return sb.String()
}

func TestSiteScraper_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page("Terms", "Liability capped at fees paid.", "/privacy"))
	}))
	defer srv.Close()

	got, err := testScraper(t).Fetch(context.Background(), srv.URL+"/terms")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !strings.Contains(got.Text, "Liability capped at fees paid.") {
		t.Errorf("page text missing:\n%s", got.Text)
	}
	if len(got.Links) != 1 || got.Links[0] != srv.URL+"/privacy" {
		t.Errorf("links = %v, want [%s/privacy]", got.Links, srv.URL)
	}
}

func TestSiteScraper_FetchRejectsNonHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4")
	}))
	defer srv.Close()

	if _, err := testScraper(t).Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch() of a PDF should fail")
	}
}

func TestSiteScraper_FetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	if _, err := testScraper(t).Fetch(context.Background(), srv.URL); err == nil {
		t.Error("Fetch() on HTTP 410 should fail")
	}
}

func TestSiteScraper_CrawlSite(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, page("Home", "Welcome to Acme.", "/terms", "/broken", "https://elsewhere.example.com/terms"))
		case "/terms":
			fmt.Fprint(w, page("Terms", "Termination requires 30 days notice.", "/", "/privacy"))
		case "/privacy":
			fmt.Fprint(w, page("Privacy", "Data is retained for 90 days."))
		default:
			http.NotFound(w, r)
		}
	})

	result, err := testScraper(t).CrawlSite(context.Background(), srv.URL+"/", 5)
	if err != nil {
		t.Fatalf("CrawlSite() error: %v", err)
	}
	// Home, terms, privacy; /broken 404s and is skipped, the off-site
	// link is never followed.
	if len(result.Pages) != 3 {
		urls := make([]string, 0, len(result.Pages))
		for _, p := range result.Pages {
			urls = append(urls, p.URL)
		}
		t.Fatalf("crawled %d pages %v, want 3", len(result.Pages), urls)
	}
	for _, want := range []string{"Welcome to Acme.", "30 days notice", "retained for 90 days"} {
		if !strings.Contains(result.Text, want) {
			t.Errorf("combined text missing %q", want)
		}
	}
}

func TestSiteScraper_CrawlSiteRespectsMaxPages(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		next := fmt.Sprintf("/page%d", len(r.URL.Path))
		fmt.Fprint(w, page("Page", "Some content here.", next))
	})

	result, err := testScraper(t).CrawlSite(context.Background(), srv.URL+"/", 2)
	if err != nil {
		t.Fatalf("CrawlSite() error: %v", err)
	}
	if len(result.Pages) != 2 {
		t.Errorf("crawled %d pages, want 2", len(result.Pages))
	}
}

func TestSiteScraper_CrawlSiteStartFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := testScraper(t).CrawlSite(context.Background(), srv.URL, 3); err == nil {
		t.Error("CrawlSite() should fail when the start page cannot be fetched")
	}
}
