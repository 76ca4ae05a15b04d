package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"jobfinder/internal/domain/match"
	"jobfinder/internal/domain/scoring"
	"jobfinder/internal/repository"

	"github.com/google/uuid"
)

// MatchUsecase orchestrates scoring across the job x criteria
// cross-product and maintains the match table.
type MatchUsecase interface {
	RescoreAll(ctx context.Context, criteriaID uuid.UUID) (int, error)
	IncrementalMatch(ctx context.Context) (int, error)
	UpdateStatus(ctx context.Context, matchID uuid.UUID, status string) error
}

// MatchCreatedFunc is called once per created match. The notifier is
// wired through this hook so the engine never depends on it.
type MatchCreatedFunc func(m repository.JobMatch, job repository.Job)

type Matcher struct {
	jobs     repository.JobRepository
	criteria repository.CriteriaRepository
	matches  repository.MatchRepository

	onMatch MatchCreatedFunc
	log     *log.Logger
}

func NewMatchUsecase(
	jobs repository.JobRepository,
	criteria repository.CriteriaRepository,
	matches repository.MatchRepository,
	onMatch MatchCreatedFunc,
	logger *log.Logger,
) *Matcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Matcher{
		jobs:     jobs,
		criteria: criteria,
		matches:  matches,
		onMatch:  onMatch,
		log:      logger,
	}
}

// RescoreAll deletes every existing match for the criteria and recreates
// matches from all currently active jobs, in one transaction. Running it
// twice with no data change produces the same rows, which is what makes
// criteria updates safe to repeat.
func (u *Matcher) RescoreAll(ctx context.Context, criteriaID uuid.UUID) (int, error) {
	c, err := u.criteria.GetByID(ctx, criteriaID)
	if err != nil {
		if errors.Is(err, repository.ErrCriteriaNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	jobs, err := u.jobs.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	sc := toScoringCriteria(c)
	inserts := make([]repository.MatchInsert, 0)
	insertJobs := make([]repository.Job, 0)
	for _, j := range jobs {
		score := scoring.Score(toScoringJob(j), sc)
		if score >= scoring.MatchThreshold {
			inserts = append(inserts, repository.MatchInsert{JobID: j.ID, Score: score})
			insertJobs = append(insertJobs, j)
		}
	}

	created, err := u.matches.ReplaceForCriteria(ctx, criteriaID, inserts)
	if err != nil {
		return 0, err
	}

	for i, m := range created {
		u.fireOnMatch(m, insertJobs[i])
	}

	u.log.Printf("match op=rescore_all criteria=%s jobs=%d matches=%d", criteriaID, len(jobs), len(created))
	return len(created), nil
}

// IncrementalMatch scores only jobs with no match row under ANY criteria
// against every active criteria. A job that already matched criteria A
// is never retroactively checked against criteria B here; that only
// happens when B's own RescoreAll runs. Known limitation, kept for the
// cost profile of the post-ingest path.
func (u *Matcher) IncrementalMatch(ctx context.Context) (int, error) {
	criteriaList, err := u.criteria.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	if len(criteriaList) == 0 {
		return 0, nil
	}

	jobs, err := u.jobs.ListActiveUnmatched(ctx)
	if err != nil {
		return 0, err
	}

	createdCount := 0
	for _, j := range jobs {
		sj := toScoringJob(j)
		for _, c := range criteriaList {
			score := scoring.Score(sj, toScoringCriteria(c))
			if score < scoring.MatchThreshold {
				continue
			}
			m, created, err := u.matches.Insert(ctx, repository.MatchInsert{
				JobID:      j.ID,
				CriteriaID: c.ID,
				Score:      score,
			})
			if err != nil {
				return createdCount, err
			}
			if !created {
				// The unique constraint absorbed a concurrent insert.
				continue
			}
			createdCount++
			u.fireOnMatch(m, j)
		}
	}

	if createdCount > 0 {
		u.log.Printf("match op=incremental jobs=%d matches=%d", len(jobs), createdCount)
	}
	return createdCount, nil
}

// UpdateStatus applies a user-driven review transition. Any status can
// move to any other; reviewed_at is stamped on the first transition away
// from "new".
func (u *Matcher) UpdateStatus(ctx context.Context, matchID uuid.UUID, status string) error {
	st, err := match.ParseStatus(status)
	if err != nil {
		return ErrInvalidStatus
	}

	var reviewedAt *time.Time
	if st != match.StatusNew {
		now := time.Now().UTC()
		reviewedAt = &now
	}

	if err := u.matches.UpdateStatus(ctx, matchID, string(st), reviewedAt); err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (u *Matcher) fireOnMatch(m repository.JobMatch, job repository.Job) {
	if u.onMatch == nil {
		return
	}
	u.onMatch(m, job)
}

func toScoringJob(j repository.Job) scoring.Job {
	return scoring.Job{
		Title:       j.Title,
		Company:     j.Company,
		Description: j.Description,
		IsRemote:    j.IsRemote,
		SalaryMin:   j.SalaryMin,
		SalaryMax:   j.SalaryMax,
		TechTags:    j.TechTags,
	}
}

func toScoringCriteria(c repository.SearchCriteria) scoring.Criteria {
	return scoring.Criteria{
		Titles:           c.Titles,
		TechStack:        c.TechStack,
		MinSalary:        c.MinSalary,
		ExcludeKeywords:  c.ExcludeKeywords,
		CompanyBlacklist: c.CompanyBlacklist,
		CompanyWhitelist: c.CompanyWhitelist,
	}
}
