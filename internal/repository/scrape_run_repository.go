package repository

import (
	"context"
	"time"

	"jobfinder/internal/database"

	"github.com/google/uuid"
)

// ScrapeRun is the audit record for one pipeline invocation. A run is
// created open at invocation start and always finalized, even when the
// producer fails.
type ScrapeRun struct {
	ID         uuid.UUID
	Source     string
	StartedAt  time.Time
	FinishedAt *time.Time
	JobsFound  int
	JobsNew    int
	Error      string
}

type ScrapeRunRepository interface {
	Create(ctx context.Context, source string) (ScrapeRun, error)
	Finalize(ctx context.Context, id uuid.UUID, jobsFound, jobsNew int, errMsg string) error
	ListRecent(ctx context.Context, limit int) ([]ScrapeRun, error)
}

type PostgresScrapeRunRepository struct {
	db database.DB
}

func NewPostgresScrapeRunRepository(db database.DB) *PostgresScrapeRunRepository {
	return &PostgresScrapeRunRepository{db: db}
}

func (r *PostgresScrapeRunRepository) Create(ctx context.Context, source string) (ScrapeRun, error) {
	run := ScrapeRun{
		ID:        uuid.New(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO scrape_runs (id, source, started_at) VALUES ($1,$2,$3)`,
		run.ID, run.Source, run.StartedAt,
	)
	if err != nil {
		return ScrapeRun{}, err
	}
	return run, nil
}

func (r *PostgresScrapeRunRepository) Finalize(ctx context.Context, id uuid.UUID, jobsFound, jobsNew int, errMsg string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE scrape_runs SET finished_at = $2, jobs_found = $3, jobs_new = $4, error = $5 WHERE id = $1`,
		id, time.Now().UTC(), jobsFound, jobsNew, nullableText(errMsg),
	)
	return err
}

func (r *PostgresScrapeRunRepository) ListRecent(ctx context.Context, limit int) ([]ScrapeRun, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, source, started_at, finished_at, jobs_found, jobs_new, COALESCE(error, '')
		 FROM scrape_runs
		 ORDER BY started_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ScrapeRun, 0)
	for rows.Next() {
		var run ScrapeRun
		if err := rows.Scan(
			&run.ID, &run.Source, &run.StartedAt, &run.FinishedAt,
			&run.JobsFound, &run.JobsNew, &run.Error,
		); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
