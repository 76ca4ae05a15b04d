// Package scoring holds the pure job-vs-criteria scoring function.
// No I/O, no clock, no randomness: identical inputs always produce the
// same score, which is what makes re-scoring after a criteria change
// idempotent.
package scoring

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Composite weights. They sum to exactly 100.
const (
	WeightTitle     = 40
	WeightTechStack = 25
	WeightRemote    = 15
	WeightSalary    = 10
	WeightWhitelist = 10
)

// MatchThreshold is the minimum score at which a JobMatch row is created.
// A disqualified job scores 0, so it can never cross the threshold.
const MatchThreshold = 50

// titleGate is the minimum fuzzy title similarity required before any
// non-title bonus is awarded.
const titleGate = 50

// Job carries the fields the scorer reads. SalaryMin and SalaryMax are
// nil when the source did not publish a figure; absence is never
// penalized.
type Job struct {
	Title       string
	Company     string
	Description string
	IsRemote    bool
	SalaryMin   *int
	SalaryMax   *int
	TechTags    []string
}

// Criteria is a user-authored search definition. MinSalary of 0 means no
// salary floor.
type Criteria struct {
	Titles           []string
	TechStack        []string
	MinSalary        int
	ExcludeKeywords  []string
	CompanyBlacklist []string
	CompanyWhitelist []string
}

// Score maps (job, criteria) to an integer in [0, 100].
//
// Hard disqualifiers short-circuit to 0: a blacklisted company, an
// excluded keyword in the description, or a known salary ceiling below
// the criteria floor. Otherwise the score is a weighted composite
// anchored on fuzzy title similarity; bonuses only apply once the best
// title similarity reaches 50, so criteria with no titles always score 0.
func Score(job Job, c Criteria) int {
	company := strings.ToLower(job.Company)
	description := strings.ToLower(job.Description)

	for _, b := range c.CompanyBlacklist {
		if strings.ToLower(b) == company {
			return 0
		}
	}

	for _, kw := range c.ExcludeKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(description, strings.ToLower(kw)) {
			return 0
		}
	}

	if c.MinSalary > 0 && job.SalaryMax != nil && *job.SalaryMax < c.MinSalary {
		return 0
	}

	score := 0

	title := strings.ToLower(job.Title)
	bestTitle := 0
	for _, t := range c.Titles {
		if t == "" || title == "" {
			continue
		}
		r := fuzzy.PartialRatio(strings.ToLower(t), title)
		if r > bestTitle {
			bestTitle = r
		}
	}
	score += bestTitle * WeightTitle / 100

	if bestTitle >= titleGate {
		jobTags := make(map[string]struct{}, len(job.TechTags))
		for _, t := range job.TechTags {
			jobTags[strings.ToLower(t)] = struct{}{}
		}
		if len(c.TechStack) > 0 && len(jobTags) > 0 {
			matched := 0
			for _, t := range c.TechStack {
				if _, ok := jobTags[strings.ToLower(t)]; ok {
					matched++
				}
			}
			score += matched * WeightTechStack / len(c.TechStack)
		}

		if job.IsRemote {
			score += WeightRemote
		}

		if c.MinSalary > 0 && job.SalaryMin != nil && *job.SalaryMin >= c.MinSalary {
			score += WeightSalary
		}

		for _, w := range c.CompanyWhitelist {
			if strings.ToLower(w) == company {
				score += WeightWhitelist
				break
			}
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}
