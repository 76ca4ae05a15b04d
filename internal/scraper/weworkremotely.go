package scraper

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const weWorkRemotelySource = "weworkremotely"

// WeWorkRemotely reads the programming-jobs RSS feed. The feed carries
// no stable id, so one is derived from the item link.
type WeWorkRemotely struct {
	client  *http.Client
	feedURL string
}

func NewWeWorkRemotely() *WeWorkRemotely {
	return &WeWorkRemotely{
		client:  &http.Client{Timeout: 30 * time.Second},
		feedURL: "https://weworkremotely.com/categories/remote-programming-jobs.rss",
	}
}

func (s *WeWorkRemotely) Source() string {
	return weWorkRemotelySource
}

type wwrFeed struct {
	Channel struct {
		Items []wwrItem `xml:"item"`
	} `xml:"channel"`
}

type wwrItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Region      string `xml:"region"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

func (s *WeWorkRemotely) Scrape(ctx context.Context) ([]ScrapedJob, error) {
	if s == nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "JobFinder/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weworkremotely: status %d", resp.StatusCode)
	}

	var feed wwrFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, err
	}

	return s.parseItems(feed.Channel.Items), nil
}

func (s *WeWorkRemotely) parseItems(items []wwrItem) []ScrapedJob {
	out := make([]ScrapedJob, 0, len(items))
	for _, it := range items {
		titleText := strings.TrimSpace(it.Title)
		link := strings.TrimSpace(it.Link)
		if titleText == "" || link == "" {
			continue
		}

		// Feed titles read "Company: Job Title".
		company := ""
		title := titleText
		if idx := strings.Index(titleText, ": "); idx >= 0 {
			company = strings.TrimSpace(titleText[:idx])
			title = strings.TrimSpace(titleText[idx+2:])
		}

		region := strings.TrimSpace(it.Region)
		if region == "" {
			region = "Remote"
		}

		var postedAt *time.Time
		if it.PubDate != "" {
			if t, err := time.Parse(time.RFC1123Z, strings.TrimSpace(it.PubDate)); err == nil {
				u := t.UTC()
				postedAt = &u
			}
		}

		out = append(out, ScrapedJob{
			Source:      weWorkRemotelySource,
			ExternalID:  StableExternalID(link),
			URL:         link,
			Title:       title,
			Company:     company,
			Location:    region,
			IsRemote:    true,
			Description: it.Description,
			PostedAt:    postedAt,
		})
	}
	return out
}
