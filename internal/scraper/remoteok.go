package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const remoteOKSource = "remoteok"

// RemoteOK reads the public JSON API. Everything on the board is remote.
type RemoteOK struct {
	client  *http.Client
	apiBase string
}

func NewRemoteOK() *RemoteOK {
	return &RemoteOK{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiBase: "https://remoteok.com",
	}
}

func (s *RemoteOK) Source() string {
	return remoteOKSource
}

type remoteOKItem struct {
	ID          json.Number `json:"id"`
	URL         string      `json:"url"`
	Position    string      `json:"position"`
	Company     string      `json:"company"`
	Location    string      `json:"location"`
	SalaryMin   int         `json:"salary_min"`
	SalaryMax   int         `json:"salary_max"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	Date        string      `json:"date"`
}

func (s *RemoteOK) Scrape(ctx context.Context) ([]ScrapedJob, error) {
	if s == nil {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(s.apiBase, "/")+"/api", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "JobFinder/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("remoteok: status %d", resp.StatusCode)
	}

	var items []remoteOKItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}

	out := make([]ScrapedJob, 0, len(items))
	for _, it := range items {
		// The first array element is a legal notice without an id.
		if it.ID.String() == "" {
			continue
		}
		out = append(out, s.parse(it))
	}
	return out, nil
}

func (s *RemoteOK) parse(it remoteOKItem) ScrapedJob {
	id := it.ID.String()

	url := strings.TrimSpace(it.URL)
	if url == "" {
		url = "https://remoteok.com/jobs/" + id
	}

	location := strings.TrimSpace(it.Location)
	if location == "" {
		location = "Worldwide"
	}

	var postedAt *time.Time
	if it.Date != "" {
		if t, err := time.Parse(time.RFC3339, it.Date); err == nil {
			u := t.UTC()
			postedAt = &u
		}
	}

	return ScrapedJob{
		Source:      remoteOKSource,
		ExternalID:  id,
		URL:         url,
		Title:       strings.TrimSpace(it.Position),
		Company:     strings.TrimSpace(it.Company),
		Location:    location,
		IsRemote:    true,
		SalaryMin:   positiveSalary(it.SalaryMin),
		SalaryMax:   positiveSalary(it.SalaryMax),
		Description: it.Description,
		TechTags:    it.Tags,
		PostedAt:    postedAt,
	}
}

func positiveSalary(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}
