package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"jobfinder/internal/repository"

	"github.com/google/uuid"
)

// CriteriaUsecase is the criteria CRUD surface. Create and Update
// trigger a full re-score because the old match set may be invalid
// under the new definition.
type CriteriaUsecase interface {
	List(ctx context.Context) ([]repository.SearchCriteria, error)
	Create(ctx context.Context, c repository.SearchCriteria) (repository.SearchCriteria, error)
	Update(ctx context.Context, c repository.SearchCriteria) (repository.SearchCriteria, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Criteria struct {
	repo    repository.CriteriaRepository
	matcher MatchUsecase
	cache   ListingCache
	log     *log.Logger
}

func NewCriteriaUsecase(repo repository.CriteriaRepository, matcher MatchUsecase, cache ListingCache, logger *log.Logger) *Criteria {
	if logger == nil {
		logger = log.Default()
	}
	return &Criteria{repo: repo, matcher: matcher, cache: cache, log: logger}
}

func (u *Criteria) List(ctx context.Context) ([]repository.SearchCriteria, error) {
	return u.repo.List(ctx)
}

func (u *Criteria) Create(ctx context.Context, c repository.SearchCriteria) (repository.SearchCriteria, error) {
	if err := validateCriteria(c); err != nil {
		return repository.SearchCriteria{}, err
	}

	created, err := u.repo.Create(ctx, c)
	if err != nil {
		return repository.SearchCriteria{}, err
	}

	if _, err := u.matcher.RescoreAll(ctx, created.ID); err != nil {
		// The criteria row exists; a failed initial score pass is
		// recoverable by the next update or explicit rescore.
		u.log.Printf("criteria op=create id=%s rescore_err=%v", created.ID, err)
	}
	u.invalidate(ctx)

	return created, nil
}

func (u *Criteria) Update(ctx context.Context, c repository.SearchCriteria) (repository.SearchCriteria, error) {
	if c.ID == uuid.Nil {
		return repository.SearchCriteria{}, ErrNotFound
	}
	if err := validateCriteria(c); err != nil {
		return repository.SearchCriteria{}, err
	}

	if err := u.repo.Update(ctx, c); err != nil {
		if errors.Is(err, repository.ErrCriteriaNotFound) {
			return repository.SearchCriteria{}, ErrNotFound
		}
		return repository.SearchCriteria{}, err
	}

	if _, err := u.matcher.RescoreAll(ctx, c.ID); err != nil {
		return repository.SearchCriteria{}, err
	}
	u.invalidate(ctx)

	return c, nil
}

func (u *Criteria) Delete(ctx context.Context, id uuid.UUID) error {
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCriteriaNotFound) {
			return ErrNotFound
		}
		return err
	}
	u.invalidate(ctx)
	return nil
}

func (u *Criteria) invalidate(ctx context.Context) {
	if u.cache != nil {
		u.cache.InvalidateListings(ctx)
	}
}

func validateCriteria(c repository.SearchCriteria) error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidInput
	}
	if c.MinSalary < 0 {
		return ErrInvalidInput
	}
	return nil
}
