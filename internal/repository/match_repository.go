package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"jobfinder/internal/database"

	"github.com/google/uuid"
)

var ErrMatchNotFound = errors.New("job match not found")

// JobMatch links one job to one criteria with a score and review status.
// At most one row exists per (job, criteria); the schema enforces it.
type JobMatch struct {
	ID         uuid.UUID
	JobID      uuid.UUID
	CriteriaID uuid.UUID
	Score      int
	Status     string
	ReviewedAt *time.Time
	CreatedAt  time.Time
}

type MatchInsert struct {
	JobID      uuid.UUID
	CriteriaID uuid.UUID
	Score      int
}

// MatchWithJob is the joined row the listing and digest queries return.
type MatchWithJob struct {
	Match JobMatch
	Job   Job
}

type MatchListFilter struct {
	Status     string
	MinScore   int
	CriteriaID uuid.UUID
	Limit      int
}

type MatchRepository interface {
	// Insert creates a match with status "new". Returns false when a row
	// for the (job, criteria) pair already exists; the unique constraint
	// turns a workflow bug into a visible no-op instead of a duplicate.
	Insert(ctx context.Context, m MatchInsert) (JobMatch, bool, error)

	// ReplaceForCriteria deletes every match of the criteria and inserts
	// the given set in one transaction, so a concurrent reader never
	// observes the emptied intermediate state.
	ReplaceForCriteria(ctx context.Context, criteriaID uuid.UUID, inserts []MatchInsert) ([]JobMatch, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string, reviewedAt *time.Time) error

	ListWithJobs(ctx context.Context, f MatchListFilter) ([]MatchWithJob, error)

	// ListNewSince returns status=new matches whose job was scraped at or
	// after the cutoff, best first. Feeds the daily digest.
	ListNewSince(ctx context.Context, since time.Time, limit int) ([]MatchWithJob, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

func (r *PostgresMatchRepository) Insert(ctx context.Context, m MatchInsert) (JobMatch, bool, error) {
	id := uuid.New()
	now := time.Now().UTC()

	affected, err := r.db.Exec(ctx,
		`INSERT INTO job_matches (id, job_id, criteria_id, match_score, status, created_at)
		 VALUES ($1,$2,$3,$4,'new',$5)
		 ON CONFLICT (job_id, criteria_id) DO NOTHING`,
		id, m.JobID, m.CriteriaID, m.Score, now,
	)
	if err != nil {
		return JobMatch{}, false, err
	}
	if affected == 0 {
		return JobMatch{}, false, nil
	}
	return JobMatch{
		ID:         id,
		JobID:      m.JobID,
		CriteriaID: m.CriteriaID,
		Score:      m.Score,
		Status:     "new",
		CreatedAt:  now,
	}, true, nil
}

func (r *PostgresMatchRepository) ReplaceForCriteria(ctx context.Context, criteriaID uuid.UUID, inserts []MatchInsert) ([]JobMatch, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM job_matches WHERE criteria_id = $1`, criteriaID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := make([]JobMatch, 0, len(inserts))
	for _, m := range inserts {
		id := uuid.New()
		if _, err := tx.Exec(ctx,
			`INSERT INTO job_matches (id, job_id, criteria_id, match_score, status, created_at)
			 VALUES ($1,$2,$3,$4,'new',$5)`,
			id, m.JobID, criteriaID, m.Score, now,
		); err != nil {
			return nil, err
		}
		created = append(created, JobMatch{
			ID:         id,
			JobID:      m.JobID,
			CriteriaID: criteriaID,
			Score:      m.Score,
			Status:     "new",
			CreatedAt:  now,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *PostgresMatchRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, reviewedAt *time.Time) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE job_matches SET status = $2, reviewed_at = COALESCE($3, reviewed_at) WHERE id = $1`,
		id, status, reviewedAt,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

const matchJoinColumns = `m.id, m.job_id, m.criteria_id, m.match_score, m.status, m.reviewed_at, m.created_at,
	j.id, j.source, j.external_id, j.url, j.title,
	COALESCE(j.company, ''), COALESCE(j.location, ''), j.is_remote,
	j.salary_min, j.salary_max, COALESCE(j.description, ''), j.tech_tags,
	j.posted_at, j.first_scraped_at, j.scraped_at, j.is_active`

func (r *PostgresMatchRepository) ListWithJobs(ctx context.Context, f MatchListFilter) ([]MatchWithJob, error) {
	query, args := buildMatchListQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatchesWithJobs(rows)
}

func (r *PostgresMatchRepository) ListNewSince(ctx context.Context, since time.Time, limit int) ([]MatchWithJob, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+matchJoinColumns+`
		 FROM job_matches m
		 JOIN jobs j ON j.id = m.job_id
		 WHERE m.status = 'new' AND j.scraped_at >= $1
		 ORDER BY m.match_score DESC, m.created_at DESC
		 LIMIT $2`,
		since, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatchesWithJobs(rows)
}

// Ties on score break on created_at so pagination stays stable between
// requests.
func buildMatchListQuery(f MatchListFilter) (string, []any) {
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	args := []any{limit}
	query := `SELECT ` + matchJoinColumns + `
		FROM job_matches m
		JOIN jobs j ON j.id = m.job_id
		WHERE TRUE`

	if f.Status != "" {
		args = append(args, f.Status)
		query += ` AND m.status = $` + strconv.Itoa(len(args))
	}
	if f.MinScore > 0 {
		args = append(args, f.MinScore)
		query += ` AND m.match_score >= $` + strconv.Itoa(len(args))
	}
	if f.CriteriaID != uuid.Nil {
		args = append(args, f.CriteriaID)
		query += ` AND m.criteria_id = $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY m.match_score DESC, m.created_at DESC LIMIT $1`
	return query, args
}

func scanMatchesWithJobs(rows database.Rows) ([]MatchWithJob, error) {
	out := make([]MatchWithJob, 0)
	for rows.Next() {
		var it MatchWithJob
		if err := rows.Scan(
			&it.Match.ID, &it.Match.JobID, &it.Match.CriteriaID, &it.Match.Score,
			&it.Match.Status, &it.Match.ReviewedAt, &it.Match.CreatedAt,
			&it.Job.ID, &it.Job.Source, &it.Job.ExternalID, &it.Job.URL, &it.Job.Title,
			&it.Job.Company, &it.Job.Location, &it.Job.IsRemote,
			&it.Job.SalaryMin, &it.Job.SalaryMax, &it.Job.Description, &it.Job.TechTags,
			&it.Job.PostedAt, &it.Job.FirstScrapedAt, &it.Job.ScrapedAt, &it.Job.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
