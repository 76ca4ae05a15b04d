package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobfinder/internal/repository"
	"jobfinder/internal/scraper"
)

// ListingCache is the slice of the cache the pipeline needs: dropping
// stale listing responses after data changes.
type ListingCache interface {
	InvalidateListings(ctx context.Context)
}

// PipelineUsecase runs one producer end to end: audit row, scrape,
// ingest, incremental match, finalize.
type PipelineUsecase interface {
	RunOnce(ctx context.Context, p scraper.Producer) (repository.ScrapeRun, error)
}

type Pipeline struct {
	runs    repository.ScrapeRunRepository
	ingest  IngestUsecase
	matcher MatchUsecase
	cache   ListingCache
	log     *log.Logger
}

func NewPipelineUsecase(
	runs repository.ScrapeRunRepository,
	ingest IngestUsecase,
	matcher MatchUsecase,
	cache ListingCache,
	logger *log.Logger,
) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{runs: runs, ingest: ingest, matcher: matcher, cache: cache, log: logger}
}

// RunOnce never lets a producer failure escape: the failure (including a
// panic) is recorded on the run, the run is finalized, and the error
// return is reserved for the audit trail itself being unwritable.
func (u *Pipeline) RunOnce(ctx context.Context, p scraper.Producer) (repository.ScrapeRun, error) {
	run, err := u.runs.Create(ctx, p.Source())
	if err != nil {
		return repository.ScrapeRun{}, err
	}

	start := time.Now()
	u.log.Printf("pipeline source=%s run=%s status=started", run.Source, run.ID)

	found, newCount, runErr := u.execute(ctx, p)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		u.log.Printf("pipeline source=%s run=%s status=error err=%v", run.Source, run.ID, runErr)
	}

	if err := u.runs.Finalize(ctx, run.ID, found, newCount, errMsg); err != nil {
		return run, err
	}

	now := time.Now().UTC()
	run.FinishedAt = &now
	run.JobsFound = found
	run.JobsNew = newCount
	run.Error = errMsg

	u.log.Printf("pipeline source=%s run=%s status=finished found=%d new=%d duration=%s",
		run.Source, run.ID, found, newCount, time.Since(start))
	return run, nil
}

func (u *Pipeline) execute(ctx context.Context, p scraper.Producer) (found, newCount int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("producer panic: %v", r)
		}
	}()

	records, err := p.Scrape(ctx)
	if err != nil {
		return 0, 0, err
	}
	found = len(records)

	res, err := u.ingest.UpsertBatch(ctx, records)
	if err != nil {
		return found, res.New, err
	}
	newCount = res.New

	if _, err := u.matcher.IncrementalMatch(ctx); err != nil {
		return found, newCount, err
	}

	if newCount > 0 && u.cache != nil {
		u.cache.InvalidateListings(ctx)
	}
	return found, newCount, nil
}
