package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"jobfinder/internal/scraper"
)

func TestUpsertBatch_CountsNewAndSkipsMalformed(t *testing.T) {
	jobs := &mockJobRepo{}
	u := NewIngestUsecase(jobs, nil)

	records := []scraper.ScrapedJob{
		{Source: "remoteok", ExternalID: "1", Title: "Go Engineer", URL: "https://remoteok.com/jobs/1"},
		{Source: "remoteok", ExternalID: "2", Title: "  ", URL: "https://remoteok.com/jobs/2"}, // no title
		{Source: "remoteok", ExternalID: "3", Title: "Platform Engineer", URL: ""},            // no url
		{Source: "remoteok", ExternalID: "1", Title: "Go Engineer", URL: "https://remoteok.com/jobs/1"},
	}

	res, err := u.UpsertBatch(context.Background(), records)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Found != 4 {
		t.Fatalf("found = %d, want 4", res.Found)
	}
	if res.New != 1 {
		t.Fatalf("new = %d, want 1 (duplicate must not count)", res.New)
	}
	if res.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", res.Skipped)
	}
}

func TestUpsertBatch_FallsBackToURLDerivedID(t *testing.T) {
	jobs := &mockJobRepo{}
	u := NewIngestUsecase(jobs, nil)

	_, err := u.UpsertBatch(context.Background(), []scraper.ScrapedJob{
		{Source: "weworkremotely", Title: "Go Engineer", URL: "https://example.com/job/42"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	want := "weworkremotely/" + scraper.StableExternalID("https://example.com/job/42")
	if jobs.upserts[want] != 1 {
		t.Fatalf("expected upsert under derived key %q, got %v", want, jobs.upserts)
	}
	if !strings.HasPrefix(scraper.StableExternalID("https://example.com/job/42"), "urlsha1-") {
		t.Fatalf("derived id must be url-hash based")
	}
}

func TestUpsertBatch_StoreErrorStopsBatch(t *testing.T) {
	boom := errors.New("connection reset")
	jobs := &mockJobRepo{err: boom}
	u := NewIngestUsecase(jobs, nil)

	res, err := u.UpsertBatch(context.Background(), []scraper.ScrapedJob{
		{Source: "remoteok", ExternalID: "1", Title: "Go Engineer", URL: "https://remoteok.com/jobs/1"},
		{Source: "remoteok", ExternalID: "2", Title: "Go Engineer", URL: "https://remoteok.com/jobs/2"},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if res.Found != 2 {
		t.Fatalf("found = %d, want 2", res.Found)
	}
	if res.New != 0 {
		t.Fatalf("new = %d, want 0", res.New)
	}
}
