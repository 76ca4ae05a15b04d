package usecase

import (
	"context"
	"log"
	"strings"

	"jobfinder/internal/repository"
	"jobfinder/internal/scraper"
)

// IngestResult summarizes one batch upsert.
type IngestResult struct {
	Found   int
	New     int
	Skipped int
}

// IngestUsecase persists normalized scraped records with
// upsert-by-natural-key semantics.
type IngestUsecase interface {
	UpsertBatch(ctx context.Context, records []scraper.ScrapedJob) (IngestResult, error)
}

type Ingest struct {
	jobs repository.JobRepository
	log  *log.Logger
}

func NewIngestUsecase(jobs repository.JobRepository, logger *log.Logger) *Ingest {
	if logger == nil {
		logger = log.Default()
	}
	return &Ingest{jobs: jobs, log: logger}
}

// UpsertBatch upserts every record in order. Malformed records (no title
// or no URL) are skipped and logged, never aborting the batch; a record
// that fails at the store stops remaining work in this batch but keeps
// the rows already written. Returns the count of newly created jobs.
func (u *Ingest) UpsertBatch(ctx context.Context, records []scraper.ScrapedJob) (IngestResult, error) {
	res := IngestResult{Found: len(records)}

	for _, rec := range records {
		up, ok := normalizeRecord(rec)
		if !ok {
			res.Skipped++
			u.log.Printf("ingest status=skipped source=%s external_id=%s reason=missing_title_or_url", rec.Source, rec.ExternalID)
			continue
		}

		created, err := u.jobs.Upsert(ctx, up)
		if err != nil {
			return res, err
		}
		if created {
			res.New++
		}
	}

	return res, nil
}

// normalizeRecord validates a producer record and fills the derived
// external id when the source did not provide one.
func normalizeRecord(rec scraper.ScrapedJob) (repository.JobUpsert, bool) {
	title := strings.TrimSpace(rec.Title)
	url := strings.TrimSpace(rec.URL)
	source := strings.TrimSpace(rec.Source)
	if title == "" || url == "" || source == "" {
		return repository.JobUpsert{}, false
	}

	externalID := strings.TrimSpace(rec.ExternalID)
	if externalID == "" {
		externalID = scraper.StableExternalID(url)
	}
	if externalID == "" {
		return repository.JobUpsert{}, false
	}

	return repository.JobUpsert{
		Source:      source,
		ExternalID:  externalID,
		URL:         url,
		Title:       title,
		Company:     strings.TrimSpace(rec.Company),
		Location:    strings.TrimSpace(rec.Location),
		IsRemote:    rec.IsRemote,
		SalaryMin:   rec.SalaryMin,
		SalaryMax:   rec.SalaryMax,
		Description: rec.Description,
		TechTags:    rec.TechTags,
		PostedAt:    rec.PostedAt,
	}, true
}
