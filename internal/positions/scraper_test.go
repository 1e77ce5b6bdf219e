package positions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var testTime = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func article(date, title, href string) string {
	return fmt.Sprintf(`<article class="post">
		<span class="published">%s</span>
		<h2 class="entry-title"><a href="%s">%s</a></h2>
	</article>`, date, href, title)
}

func TestScraperListings(t *testing.T) {
	var pageTwoHits int
	mux := http.NewServeMux()
	mux.HandleFunc("/positions/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>`)
		fmt.Fprint(w, article("June 14, 2026", "PhD in Robotics", "https://example.org/p/robotics"))
		fmt.Fprint(w, article("June 1, 2026", "Stale PhD Position", "https://example.org/p/stale"))
		fmt.Fprint(w, `<article class="post"><h2 class="entry-title"><a href="https://example.org/p/undated">No Date</a></h2></article>`)
		fmt.Fprint(w, `<a class="page-numbers" href="#">1</a><a class="page-numbers" href="#">2</a>`)
		fmt.Fprint(w, `</body></html>`)
	})
	mux.HandleFunc("/positions/page/2/", func(w http.ResponseWriter, r *http.Request) {
		pageTwoHits++
		fmt.Fprint(w, `<html><body>`)
		fmt.Fprint(w, article("June 13, 2026", "PhD in NLP", "https://example.org/p/nlp"))
		fmt.Fprint(w, `</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewScraper(srv.URL+"/positions", 10, 7, testLogger())
	s.now = func() time.Time { return testTime }

	listings, err := s.Listings(context.Background())
	if err != nil {
		t.Fatalf("Listings() error = %v", err)
	}

	if pageTwoHits != 1 {
		t.Errorf("page 2 fetched %d times, want 1", pageTwoHits)
	}
	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2: %+v", len(listings), listings)
	}
	if listings[0].Title != "PhD in Robotics" || listings[0].URL != "https://example.org/p/robotics" {
		t.Errorf("first listing = %+v", listings[0])
	}
	if listings[1].Title != "PhD in NLP" {
		t.Errorf("second listing = %+v", listings[1])
	}
}

func TestScraperListingsRespectsMaxPages(t *testing.T) {
	var pageTwoHits int
	mux := http.NewServeMux()
	mux.HandleFunc("/positions/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>`)
		fmt.Fprint(w, article("June 14, 2026", "Fresh", "https://example.org/p/fresh"))
		fmt.Fprint(w, `<a class="page-numbers">1</a><a class="page-numbers">2</a><a class="page-numbers">3</a>`)
		fmt.Fprint(w, `</body></html>`)
	})
	mux.HandleFunc("/positions/page/", func(w http.ResponseWriter, r *http.Request) {
		pageTwoHits++
		fmt.Fprint(w, `<html><body></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewScraper(srv.URL+"/positions", 1, 7, testLogger())
	s.now = func() time.Time { return testTime }

	if _, err := s.Listings(context.Background()); err != nil {
		t.Fatalf("Listings() error = %v", err)
	}
	if pageTwoHits != 0 {
		t.Errorf("fetched %d extra pages, want 0", pageTwoHits)
	}
}

func TestScraperListingsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, 10, 7, testLogger())
	if _, err := s.Listings(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestScraperFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><style>p{color:red}</style></head><body>
			<h1>PhD Position</h1>
			<script>var x = 1;</script>
			<p>Apply <b>now</b>.</p>
		</body></html>`)
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, 10, 7, testLogger())
	text, err := s.FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if want := "PhD Position Apply now ."; text != want {
		t.Errorf("FetchText() = %q, want %q", text, want)
	}
}

func TestParsePostDate(t *testing.T) {
	tests := []struct {
		raw  string
		ok   bool
		want time.Time
	}{
		{"June 14, 2026", true, time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC)},
		{"Jun 14, 2026", true, time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC)},
		{"2026-06-14", true, time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC)},
		{"not a date", false, time.Time{}},
		{"", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := parsePostDate(tt.raw)
			if ok != tt.ok {
				t.Fatalf("parsePostDate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parsePostDate(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
