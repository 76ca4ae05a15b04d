package scraper

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const indeedSource = "indeed"

// Indeed scrapes the server-rendered search results page. Job cards carry
// no stable id, so the external id is a digest of the posting URL.
type Indeed struct {
	client    *http.Client
	searchURL string
}

func NewIndeed() *Indeed {
	return &Indeed{
		client:    &http.Client{Timeout: 30 * time.Second},
		searchURL: "https://www.indeed.com/jobs?q=staff+software+engineer&l=Remote&fromage=7",
	}
}

func (s *Indeed) Source() string {
	return indeedSource
}

func (s *Indeed) Scrape(ctx context.Context) ([]ScrapedJob, error) {
	if s == nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("indeed: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseIndeedListing(doc), nil
}

func parseIndeedListing(doc *goquery.Document) []ScrapedJob {
	out := make([]ScrapedJob, 0)
	doc.Find("div.job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find("h2.jobTitle a").First()
		title := strings.TrimSpace(titleEl.Text())
		if title == "" {
			return
		}

		href, _ := titleEl.Attr("href")
		url := href
		if strings.HasPrefix(href, "/") {
			url = "https://www.indeed.com" + href
		}

		location := strings.TrimSpace(card.Find("[data-testid='text-location']").First().Text())
		h := md5.Sum([]byte(url))

		out = append(out, ScrapedJob{
			Source:     indeedSource,
			ExternalID: hex.EncodeToString(h[:]),
			URL:        url,
			Title:      title,
			Company:    strings.TrimSpace(card.Find("[data-testid='company-name']").First().Text()),
			Location:   location,
			IsRemote:   strings.Contains(strings.ToLower(location), "remote"),
			// The snippet attribute usually holds the salary line.
			Description: strings.TrimSpace(card.Find("[data-testid='attribute_snippet_testid']").First().Text()),
		})
	})
	return out
}
