package positions

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

// Listing is a position link found on the index pages.
type Listing struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Scraper walks the paginated position index and collects recent listings.
// Page fetches are rate limited so the upstream site is not hammered.
type Scraper struct {
	baseURL    string
	maxPages   int
	windowDays int
	client     *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	now        func() time.Time
}

func NewScraper(baseURL string, maxPages, windowDays int, logger *slog.Logger) *Scraper {
	return &Scraper{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		maxPages:   maxPages,
		windowDays: windowDays,
		client:     &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		logger:     logger,
		now:        time.Now,
	}
}

// FetchText fetches a URL and flattens its HTML to whitespace-joined text.
// This is what gets handed to the LLM for field extraction.
func (s *Scraper) FetchText(ctx context.Context, url string) (string, error) {
	doc, err := s.fetchDocument(ctx, url)
	if err != nil {
		return "", err
	}
	return collectText(doc), nil
}

// Listings walks the index pages and returns every listing published within
// the recency window, newest pages first.
func (s *Scraper) Listings(ctx context.Context) ([]Listing, error) {
	first, err := s.fetchDocument(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetch index: %w", err)
	}

	total := totalPages(first)
	if s.maxPages > 0 && total > s.maxPages {
		total = s.maxPages
	}
	s.logger.Info("scraping position index", "pages", total, "base_url", s.baseURL)

	cutoff := s.now().AddDate(0, 0, -s.windowDays)
	listings := s.listingsFromPage(first, cutoff)

	for page := 2; page <= total; page++ {
		pageURL := fmt.Sprintf("%spage/%d/", s.baseURL, page)
		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		listings = append(listings, s.listingsFromPage(doc, cutoff)...)
	}

	s.logger.Info("collected recent listings", "count", len(listings))
	return listings, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, url string) (*html.Node, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

func (s *Scraper) listingsFromPage(doc *html.Node, cutoff time.Time) []Listing {
	var listings []Listing
	for _, article := range findAll(doc, "article", "post") {
		published := findFirst(article, "span", "published")
		if published == nil {
			continue
		}
		postDate, ok := parsePostDate(strings.TrimSpace(collectText(published)))
		if !ok || postDate.Before(cutoff) {
			continue
		}

		heading := findFirst(article, "h2", "entry-title")
		if heading == nil {
			continue
		}
		link := findFirst(heading, "a", "")
		if link == nil {
			continue
		}
		href := attr(link, "href")
		if href == "" {
			continue
		}
		listings = append(listings, Listing{
			Title: strings.TrimSpace(collectText(link)),
			URL:   href,
		})
	}
	return listings
}

// totalPages reads the highest numeric pagination entry, defaulting to 1.
func totalPages(doc *html.Node) int {
	total := 1
	for _, n := range findAll(doc, "a", "page-numbers") {
		if v, err := strconv.Atoi(strings.TrimSpace(collectText(n))); err == nil && v > total {
			total = v
		}
	}
	return total
}

var postDateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	time.RFC3339,
}

func parsePostDate(raw string) (time.Time, bool) {
	for _, layout := range postDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// findAll returns every element with the given tag carrying class (any class
// when class is empty), in document order.
func findAll(n *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag && (class == "" || hasClass(node, class)) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func findFirst(n *html.Node, tag, class string) *html.Node {
	if all := findAll(n, tag, class); len(all) > 0 {
		return all[0]
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// collectText joins all text nodes under n with single spaces.
func collectText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			if s := strings.TrimSpace(node.Data); s != "" {
				parts = append(parts, s)
			}
		}
		if node.Type == html.ElementNode && (node.Data == "script" || node.Data == "style") {
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
