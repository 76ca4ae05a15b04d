package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobfinder/internal/repository"

	"github.com/google/uuid"
)

// MatchListCache caches listing responses briefly; it also carries the
// invalidation hook the mutating paths use.
type MatchListCache interface {
	ListingCache
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type MatchListParams struct {
	Status     string
	MinScore   int
	CriteriaID uuid.UUID
	Limit      int
}

// JobListUsecase reads the Job and JobMatch join for the API layer.
type JobListUsecase interface {
	ListMatches(ctx context.Context, p MatchListParams) ([]repository.MatchWithJob, error)
	ListRuns(ctx context.Context, limit int) ([]repository.ScrapeRun, error)
}

type JobList struct {
	matches repository.MatchRepository
	runs    repository.ScrapeRunRepository
	cache   MatchListCache
	ttl     time.Duration
	log     *log.Logger
}

func NewJobListUsecase(
	matches repository.MatchRepository,
	runs repository.ScrapeRunRepository,
	cache MatchListCache,
	ttl time.Duration,
	logger *log.Logger,
) *JobList {
	if logger == nil {
		logger = log.Default()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &JobList{matches: matches, runs: runs, cache: cache, ttl: ttl, log: logger}
}

func (u *JobList) ListMatches(ctx context.Context, p MatchListParams) ([]repository.MatchWithJob, error) {
	if p.MinScore < 0 || p.MinScore > 100 {
		return nil, ErrInvalidInput
	}
	if p.Limit < 0 {
		return nil, ErrInvalidInput
	}
	if p.Limit == 0 || p.Limit > 200 {
		p.Limit = 200
	}

	key := listingCacheKey(p)
	if u.cache != nil {
		var cached []repository.MatchWithJob
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	items, err := u.matches.ListWithJobs(ctx, repository.MatchListFilter{
		Status:     p.Status,
		MinScore:   p.MinScore,
		CriteriaID: p.CriteriaID,
		Limit:      p.Limit,
	})
	if err != nil {
		return nil, err
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, items, u.ttl); err != nil {
			u.log.Printf("joblist cache_set_err=%v", err)
		}
	}
	return items, nil
}

func (u *JobList) ListRuns(ctx context.Context, limit int) ([]repository.ScrapeRun, error) {
	return u.runs.ListRecent(ctx, limit)
}

func listingCacheKey(p MatchListParams) string {
	return fmt.Sprintf("jobs:list:%s:%d:%s:%d", p.Status, p.MinScore, p.CriteriaID, p.Limit)
}
