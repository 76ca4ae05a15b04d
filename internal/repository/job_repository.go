package repository

import (
	"context"
	"errors"
	"time"

	"jobfinder/internal/database"

	"github.com/google/uuid"
)

var ErrJobNotFound = errors.New("job not found")

// Job is the persisted record. (Source, ExternalID) is the natural key
// and never changes after creation.
type Job struct {
	ID             uuid.UUID
	Source         string
	ExternalID     string
	URL            string
	Title          string
	Company        string
	Location       string
	IsRemote       bool
	SalaryMin      *int
	SalaryMax      *int
	Description    string
	TechTags       []string
	PostedAt       *time.Time
	FirstScrapedAt time.Time
	ScrapedAt      time.Time
	IsActive       bool
}

// JobUpsert is the insert shape for a scraped record.
type JobUpsert struct {
	Source      string
	ExternalID  string
	URL         string
	Title       string
	Company     string
	Location    string
	IsRemote    bool
	SalaryMin   *int
	SalaryMax   *int
	Description string
	TechTags    []string
	PostedAt    *time.Time
}

type JobRepository interface {
	// Upsert inserts the record or, when the natural key already exists,
	// re-activates the stored job and bumps scraped_at without touching
	// its content fields. Returns true when a new row was created.
	Upsert(ctx context.Context, j JobUpsert) (bool, error)

	ListActive(ctx context.Context) ([]Job, error)

	// ListActiveUnmatched returns active jobs with no match row under
	// any criteria: the jobs an incremental matching pass considers.
	ListActiveUnmatched(ctx context.Context) ([]Job, error)
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Upsert(ctx context.Context, j JobUpsert) (bool, error) {
	now := time.Now().UTC()
	tags := j.TechTags
	if tags == nil {
		tags = []string{}
	}

	// ON CONFLICT makes concurrent upserts of the same natural key
	// resolve to an update instead of a duplicate-key error.
	// (xmax = 0) is true only for a freshly inserted row.
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (
			id, source, external_id, url, title, company, location, is_remote,
			salary_min, salary_max, description, tech_tags, posted_at,
			first_scraped_at, scraped_at, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$14,TRUE)
		ON CONFLICT (source, external_id) DO UPDATE SET
			is_active = TRUE,
			scraped_at = EXCLUDED.scraped_at
		RETURNING (xmax = 0)`,
		uuid.New(),
		j.Source,
		j.ExternalID,
		j.URL,
		j.Title,
		j.Company,
		nullableText(j.Location),
		j.IsRemote,
		j.SalaryMin,
		j.SalaryMax,
		nullableText(j.Description),
		tags,
		j.PostedAt,
		now,
	)

	var inserted bool
	if err := row.Scan(&inserted); err != nil {
		return false, err
	}
	return inserted, nil
}

const jobColumns = `id, source, external_id, url, title,
	COALESCE(company, ''), COALESCE(location, ''), is_remote,
	salary_min, salary_max, COALESCE(description, ''), tech_tags,
	posted_at, first_scraped_at, scraped_at, is_active`

func (r *PostgresJobRepository) ListActive(ctx context.Context) ([]Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE is_active ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *PostgresJobRepository) ListActiveUnmatched(ctx context.Context) ([]Job, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE is_active
		   AND NOT EXISTS (SELECT 1 FROM job_matches m WHERE m.job_id = jobs.id)
		 ORDER BY scraped_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJobs(rows database.Rows) ([]Job, error) {
	out := make([]Job, 0)
	for rows.Next() {
		var j Job
		if err := rows.Scan(
			&j.ID, &j.Source, &j.ExternalID, &j.URL, &j.Title,
			&j.Company, &j.Location, &j.IsRemote,
			&j.SalaryMin, &j.SalaryMax, &j.Description, &j.TechTags,
			&j.PostedAt, &j.FirstScrapedAt, &j.ScrapedAt, &j.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
