package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobfinder/internal/repository"
	"jobfinder/internal/scraper"

	"github.com/google/uuid"
)

type mockRunRepo struct {
	createErr error
	finalized []repository.ScrapeRun
}

func (m *mockRunRepo) Create(_ context.Context, source string) (repository.ScrapeRun, error) {
	if m.createErr != nil {
		return repository.ScrapeRun{}, m.createErr
	}
	return repository.ScrapeRun{ID: uuid.New(), Source: source, StartedAt: time.Now().UTC()}, nil
}

func (m *mockRunRepo) Finalize(_ context.Context, id uuid.UUID, jobsFound, jobsNew int, errMsg string) error {
	m.finalized = append(m.finalized, repository.ScrapeRun{
		ID:        id,
		JobsFound: jobsFound,
		JobsNew:   jobsNew,
		Error:     errMsg,
	})
	return nil
}

func (m *mockRunRepo) ListRecent(context.Context, int) ([]repository.ScrapeRun, error) {
	return nil, nil
}

type mockProducer struct {
	source  string
	records []scraper.ScrapedJob
	err     error
	panics  bool
}

func (p *mockProducer) Source() string { return p.source }

func (p *mockProducer) Scrape(context.Context) ([]scraper.ScrapedJob, error) {
	if p.panics {
		panic("selector changed upstream")
	}
	return p.records, p.err
}

type mockIngest struct {
	res IngestResult
	err error
}

func (m *mockIngest) UpsertBatch(_ context.Context, records []scraper.ScrapedJob) (IngestResult, error) {
	if m.err != nil {
		return IngestResult{Found: len(records)}, m.err
	}
	return m.res, nil
}

type mockMatcher struct {
	incremental int
	err         error
	calls       int
}

func (m *mockMatcher) RescoreAll(context.Context, uuid.UUID) (int, error) { return 0, nil }

func (m *mockMatcher) IncrementalMatch(context.Context) (int, error) {
	m.calls++
	return m.incremental, m.err
}

func (m *mockMatcher) UpdateStatus(context.Context, uuid.UUID, string) error { return nil }

type mockListingCache struct {
	invalidations int
}

func (m *mockListingCache) InvalidateListings(context.Context) { m.invalidations++ }

func TestRunOnce_SuccessRecordsCountsAndInvalidates(t *testing.T) {
	runs := &mockRunRepo{}
	cache := &mockListingCache{}
	matcher := &mockMatcher{incremental: 2}
	p := &mockProducer{source: "remoteok", records: []scraper.ScrapedJob{
		{Source: "remoteok", ExternalID: "1", Title: "Go Engineer", URL: "https://remoteok.com/jobs/1"},
		{Source: "remoteok", ExternalID: "2", Title: "Platform Engineer", URL: "https://remoteok.com/jobs/2"},
	}}

	u := NewPipelineUsecase(runs, &mockIngest{res: IngestResult{Found: 2, New: 2}}, matcher, cache, nil)
	run, err := u.RunOnce(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if run.JobsFound != 2 || run.JobsNew != 2 || run.Error != "" {
		t.Fatalf("run = %+v", run)
	}
	if run.FinishedAt == nil {
		t.Fatalf("run must be finalized")
	}
	if len(runs.finalized) != 1 {
		t.Fatalf("expected exactly one finalize, got %d", len(runs.finalized))
	}
	if matcher.calls != 1 {
		t.Fatalf("incremental match ran %d times", matcher.calls)
	}
	if cache.invalidations != 1 {
		t.Fatalf("new jobs must invalidate cached listings")
	}
}

func TestRunOnce_NoNewJobsSkipsInvalidation(t *testing.T) {
	runs := &mockRunRepo{}
	cache := &mockListingCache{}
	p := &mockProducer{source: "remoteok"}

	u := NewPipelineUsecase(runs, &mockIngest{}, &mockMatcher{}, cache, nil)
	if _, err := u.RunOnce(context.Background(), p); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cache.invalidations != 0 {
		t.Fatalf("no-op run must not invalidate the cache")
	}
}

func TestRunOnce_ProducerFailureStillFinalizes(t *testing.T) {
	runs := &mockRunRepo{}
	p := &mockProducer{source: "dice", err: errors.New("status 503")}

	u := NewPipelineUsecase(runs, &mockIngest{}, &mockMatcher{}, nil, nil)
	run, err := u.RunOnce(context.Background(), p)
	if err != nil {
		t.Fatalf("producer failure must not surface as an error: %v", err)
	}
	if run.Error != "status 503" {
		t.Fatalf("run.Error = %q", run.Error)
	}
	if len(runs.finalized) != 1 || runs.finalized[0].Error != "status 503" {
		t.Fatalf("failure must be written to the audit row, got %+v", runs.finalized)
	}
}

func TestRunOnce_ProducerPanicIsRecorded(t *testing.T) {
	runs := &mockRunRepo{}
	p := &mockProducer{source: "weworkremotely", panics: true}

	u := NewPipelineUsecase(runs, &mockIngest{}, &mockMatcher{}, nil, nil)
	run, err := u.RunOnce(context.Background(), p)
	if err != nil {
		t.Fatalf("panic must be contained: %v", err)
	}
	if run.Error == "" {
		t.Fatalf("panic must be recorded on the run")
	}
	if len(runs.finalized) != 1 {
		t.Fatalf("run must be finalized after a panic")
	}
}

func TestRunOnce_IngestFailureKeepsPartialCounts(t *testing.T) {
	runs := &mockRunRepo{}
	matcher := &mockMatcher{}
	p := &mockProducer{source: "remoteok", records: []scraper.ScrapedJob{
		{Source: "remoteok", ExternalID: "1", Title: "Go Engineer", URL: "https://remoteok.com/jobs/1"},
	}}

	u := NewPipelineUsecase(runs, &mockIngest{err: errors.New("connection reset")}, matcher, nil, nil)
	run, err := u.RunOnce(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if run.JobsFound != 1 {
		t.Fatalf("found = %d, want 1", run.JobsFound)
	}
	if run.Error != "connection reset" {
		t.Fatalf("run.Error = %q", run.Error)
	}
	if matcher.calls != 0 {
		t.Fatalf("matching must not run after an ingest failure")
	}
}
