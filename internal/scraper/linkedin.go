package scraper

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const linkedInSource = "linkedin"

// LinkedIn renders the public jobs search in a headless browser; the
// page builds its cards client-side so a plain GET returns nothing
// useful. The search URL pins remote (f_WT=2), staff level (f_E=5) and
// date-descending order.
type LinkedIn struct {
	searchURL string
	limit     int
}

func NewLinkedIn() *LinkedIn {
	return &LinkedIn{
		searchURL: "https://www.linkedin.com/jobs/search/?keywords=staff+software+engineer&f_WT=2&f_E=5&sortBy=DD",
		limit:     25,
	}
}

func (s *LinkedIn) Source() string {
	return linkedInSource
}

type linkedInCard struct {
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
	URL      string `json:"url"`
}

func (s *LinkedIn) Scrape(ctx context.Context) ([]ScrapedJob, error) {
	if s == nil {
		return nil, nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (compatible; JobFinder/1.0)"),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 30*time.Second)
	defer reqCancel()

	var cards []linkedInCard
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(s.searchURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
		chromedp.EvaluateAsDevTools(`Array.from(document.querySelectorAll('div.base-card')).map(c => ({
			title: (c.querySelector('.base-search-card__title')?.innerText || '').trim(),
			company: (c.querySelector('.base-search-card__subtitle a')?.innerText || '').trim(),
			location: (c.querySelector('.job-search-card__location')?.innerText || '').trim(),
			url: c.querySelector('a.base-card__full-link')?.getAttribute('href') || ''
		}))`, &cards),
	)
	if err != nil {
		return nil, err
	}

	return linkedInRecords(cards, s.limit), nil
}

// linkedInRecords converts raw cards into jobs. LinkedIn reposts the same
// remote role under several location tags, so the external id digests
// title|company rather than the URL. Remote is implied by the f_WT=2
// search filter.
func linkedInRecords(cards []linkedInCard, limit int) []ScrapedJob {
	if limit <= 0 {
		limit = 25
	}
	seen := map[string]struct{}{}
	out := make([]ScrapedJob, 0, limit)
	for _, c := range cards {
		if len(out) >= limit {
			break
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			continue
		}
		company := strings.TrimSpace(c.Company)
		h := md5.Sum([]byte(title + "|" + company))
		id := hex.EncodeToString(h[:])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		out = append(out, ScrapedJob{
			Source:     linkedInSource,
			ExternalID: id,
			URL:        strings.TrimSpace(c.URL),
			Title:      title,
			Company:    company,
			Location:   strings.TrimSpace(c.Location),
			IsRemote:   true,
		})
	}
	return out
}
