package scraper

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// CareersTarget describes a company careers page well enough to crawl
// it: a listing URL plus CSS selectors for the pieces we need.
type CareersTarget struct {
	SourceName         string
	ListURL            string
	LinkSelector       string
	TitleSelector      string
	LocationSelector   string
	DetailBodySelector string
}

// CareersPage crawls a configured careers site with colly: one pass over
// the listing page, then one detail visit per posting. Useful for
// companies that never post to the big boards.
type CareersPage struct {
	target CareersTarget
}

func NewCareersPage(target CareersTarget) *CareersPage {
	if strings.TrimSpace(target.LinkSelector) == "" {
		target.LinkSelector = "a"
	}
	if strings.TrimSpace(target.TitleSelector) == "" {
		target.TitleSelector = "title"
	}
	if strings.TrimSpace(target.DetailBodySelector) == "" {
		target.DetailBodySelector = "body"
	}
	return &CareersPage{target: target}
}

func (s *CareersPage) Source() string {
	return strings.ToLower(strings.TrimSpace(s.target.SourceName))
}

type careersListItem struct {
	Link     string
	Title    string
	Location string
}

func (s *CareersPage) Scrape(ctx context.Context) ([]ScrapedJob, error) {
	if s == nil {
		return nil, nil
	}
	if strings.TrimSpace(s.target.ListURL) == "" {
		return nil, fmt.Errorf("careers: no list URL configured")
	}

	items, err := s.scrapeListingPage(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ScrapedJob, 0, len(items))
	for _, it := range items {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		title, location, description, err := s.scrapeDetailPage(ctx, it.Link)
		if err != nil {
			// A single broken posting page should not sink the batch.
			continue
		}
		if title == "" {
			title = it.Title
		}
		if location == "" {
			location = it.Location
		}
		out = append(out, ScrapedJob{
			Source:      s.Source(),
			ExternalID:  StableExternalID(it.Link),
			URL:         it.Link,
			Title:       title,
			Company:     s.target.SourceName,
			Location:    location,
			Description: description,
		})
	}
	return out, nil
}

func (s *CareersPage) scrapeListingPage(ctx context.Context) ([]careersListItem, error) {
	c := newCollector(s.target.ListURL)

	items := make([]careersListItem, 0)
	dedup := map[string]struct{}{}

	c.OnHTML(s.target.LinkSelector, func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" {
			return
		}
		abs := e.Request.AbsoluteURL(href)
		if abs == "" {
			return
		}
		if _, ok := dedup[abs]; ok {
			return
		}
		dedup[abs] = struct{}{}

		title := strings.TrimSpace(e.DOM.Find(s.target.TitleSelector).Text())
		location := ""
		if strings.TrimSpace(s.target.LocationSelector) != "" {
			location = strings.TrimSpace(e.DOM.Find(s.target.LocationSelector).Text())
		}

		items = append(items, careersListItem{Link: abs, Title: title, Location: location})
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := c.Visit(s.target.ListURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return items, nil
}

func (s *CareersPage) scrapeDetailPage(ctx context.Context, jobURL string) (title, location, description string, err error) {
	c := newCollector(jobURL)

	c.OnHTML(s.target.TitleSelector, func(e *colly.HTMLElement) {
		if strings.TrimSpace(title) == "" {
			title = strings.TrimSpace(e.Text)
		}
	})

	if strings.TrimSpace(s.target.LocationSelector) != "" {
		c.OnHTML(s.target.LocationSelector, func(e *colly.HTMLElement) {
			if strings.TrimSpace(location) == "" {
				location = strings.TrimSpace(e.Text)
			}
		})
	}

	c.OnHTML(s.target.DetailBodySelector, func(e *colly.HTMLElement) {
		description = strings.TrimSpace(e.Text)
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, e error) {
		reqErr = e
	})

	if ctx.Err() != nil {
		return "", "", "", ctx.Err()
	}
	if err := c.Visit(jobURL); err != nil {
		return "", "", "", err
	}
	c.Wait()
	if reqErr != nil {
		return "", "", "", reqErr
	}
	return title, location, description, nil
}

func newCollector(rawURL string) *colly.Collector {
	allowed := hostFromURL(rawURL)
	var c *colly.Collector
	if allowed == "" {
		c = colly.NewCollector()
	} else {
		c = colly.NewCollector(colly.AllowedDomains(allowed))
	}
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 850 * time.Millisecond, Delay: 450 * time.Millisecond})
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "JobFinder/1.0")
	})
	return c
}

func hostFromURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	host := u.Host
	if host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
