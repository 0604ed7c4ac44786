// Package scrape fetches a job-posting page and reduces it to text the
// interviewer prompt can consume.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchTimeout = 10 * time.Second
	maxBodyChars = 8000
)

// Posting is the distilled content of a job-listing page.
type Posting struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Fetcher retrieves and parses postings.
type Fetcher struct {
	hc *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{hc: &http.Client{Timeout: fetchTimeout}}
}

// Fetch downloads the page and extracts its title and visible text. Only
// http and https URLs are accepted.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Posting, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid posting url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "techterview/1.0")

	resp, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch posting: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("posting fetch returned %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse posting html: %w", err)
	}

	doc.Find("script, style, nav, footer, noscript").Remove()

	body := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(body) > maxBodyChars {
		body = body[:maxBodyChars]
	}

	return &Posting{
		URL:   u.String(),
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
		Body:  body,
	}, nil
}
