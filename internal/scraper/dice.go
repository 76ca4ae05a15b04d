package scraper

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const diceSource = "dice"

// Dice queries the search API behind the JS-rendered board. Results are
// filtered to remote roles server-side. Dice reissues the same position
// under different ids, so the external id is a digest of
// title|company|salary instead of the Dice id.
type Dice struct {
	client  *http.Client
	apiBase string
	apiKey  string
	query   string
}

func NewDice() *Dice {
	return &Dice{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiBase: "https://job-search-api.svc.dhigroupinc.com/v1/dice/jobs/search",
		// Public API key shipped in the Dice frontend bundle.
		apiKey: "1YAt0R9wBg4WfsF9VB2778F5CHLAPMVW3WAZcKd8",
		query:  "staff software engineer",
	}
}

func (s *Dice) Source() string {
	return diceSource
}

type diceItem struct {
	Title               string   `json:"title"`
	CompanyName         string   `json:"companyName"`
	EmployerName        string   `json:"employerName"`
	Location            string   `json:"location"`
	Salary              string   `json:"salary"`
	Skills              []string `json:"skills"`
	DetailsPageURL      string   `json:"detailsPageUrl"`
	DescriptionFragment string   `json:"descriptionFragment"`
}

type diceResponse struct {
	Data []diceItem `json:"data"`
}

func (s *Dice) Scrape(ctx context.Context) ([]ScrapedJob, error) {
	if s == nil {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", s.query)
	params.Set("filters.workplaceTypes", "Remote")
	params.Set("pageSize", "50")
	params.Set("page", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "JobFinder/1.0")
	req.Header.Set("x-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dice: status %d", resp.StatusCode)
	}

	var body diceResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return s.parseItems(body.Data), nil
}

func (s *Dice) parseItems(items []diceItem) []ScrapedJob {
	out := make([]ScrapedJob, 0, len(items))
	seen := map[string]struct{}{}
	for _, it := range items {
		company := it.CompanyName
		if company == "" {
			company = it.EmployerName
		}

		salaryMin, salaryMax := parseDiceSalary(it.Salary)

		externalID := diceDedupeID(it.Title, company, salaryMin, salaryMax)
		if _, ok := seen[externalID]; ok {
			continue
		}
		seen[externalID] = struct{}{}

		out = append(out, ScrapedJob{
			Source:      diceSource,
			ExternalID:  externalID,
			URL:         it.DetailsPageURL,
			Title:       it.Title,
			Company:     company,
			Location:    it.Location,
			IsRemote:    true,
			SalaryMin:   salaryMin,
			SalaryMax:   salaryMax,
			Description: it.DescriptionFragment,
			TechTags:    it.Skills,
		})
	}
	return out
}

var diceSalaryNumberRe = regexp.MustCompile(`[\d,]+\.?\d*`)

// parseDiceSalary extracts a range from strings like
// "USD 166,500.00 - 291,400.00 per year".
func parseDiceSalary(s string) (*int, *int) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	numbers := diceSalaryNumberRe.FindAllString(s, -1)
	parse := func(raw string) *int {
		f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil
		}
		v := int(f)
		return &v
	}
	switch {
	case len(numbers) >= 2:
		return parse(numbers[0]), parse(numbers[1])
	case len(numbers) == 1:
		return parse(numbers[0]), nil
	}
	return nil, nil
}

func diceDedupeID(title, company string, salaryMin, salaryMax *int) string {
	fmtSalary := func(v *int) string {
		if v == nil {
			return "None"
		}
		return strconv.Itoa(*v)
	}
	key := title + "|" + company + "|" + fmtSalary(salaryMin) + "|" + fmtSalary(salaryMax)
	h := md5.Sum([]byte(key))
	return hex.EncodeToString(h[:])
}
