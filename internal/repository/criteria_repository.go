package repository

import (
	"context"
	"errors"

	"jobfinder/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCriteriaNotFound = errors.New("search criteria not found")

// SearchCriteria is a user-authored search definition. MinSalary of 0
// means no salary floor.
type SearchCriteria struct {
	ID               uuid.UUID
	Name             string
	Titles           []string
	TechStack        []string
	MinSalary        int
	ExcludeKeywords  []string
	CompanyBlacklist []string
	CompanyWhitelist []string
	IsActive         bool
}

type CriteriaRepository interface {
	List(ctx context.Context) ([]SearchCriteria, error)
	ListActive(ctx context.Context) ([]SearchCriteria, error)
	GetByID(ctx context.Context, id uuid.UUID) (SearchCriteria, error)
	Create(ctx context.Context, c SearchCriteria) (SearchCriteria, error)
	Update(ctx context.Context, c SearchCriteria) error
	// Delete removes the criteria; match rows cascade at the schema level.
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresCriteriaRepository struct {
	db database.DB
}

func NewPostgresCriteriaRepository(db database.DB) *PostgresCriteriaRepository {
	return &PostgresCriteriaRepository{db: db}
}

const criteriaColumns = `id, name, titles, tech_stack, min_salary,
	exclude_keywords, company_blacklist, company_whitelist, is_active`

func (r *PostgresCriteriaRepository) List(ctx context.Context) ([]SearchCriteria, error) {
	rows, err := r.db.Query(ctx, `SELECT `+criteriaColumns+` FROM search_criteria ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCriteria(rows)
}

func (r *PostgresCriteriaRepository) ListActive(ctx context.Context) ([]SearchCriteria, error) {
	rows, err := r.db.Query(ctx, `SELECT `+criteriaColumns+` FROM search_criteria WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCriteria(rows)
}

func (r *PostgresCriteriaRepository) GetByID(ctx context.Context, id uuid.UUID) (SearchCriteria, error) {
	row := r.db.QueryRow(ctx, `SELECT `+criteriaColumns+` FROM search_criteria WHERE id = $1`, id)
	c, err := scanOneCriteria(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SearchCriteria{}, ErrCriteriaNotFound
		}
		return SearchCriteria{}, err
	}
	return c, nil
}

func (r *PostgresCriteriaRepository) Create(ctx context.Context, c SearchCriteria) (SearchCriteria, error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	normalizeCriteriaArrays(&c)

	_, err := r.db.Exec(ctx,
		`INSERT INTO search_criteria (
			id, name, titles, tech_stack, min_salary,
			exclude_keywords, company_blacklist, company_whitelist, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.Name, c.Titles, c.TechStack, c.MinSalary,
		c.ExcludeKeywords, c.CompanyBlacklist, c.CompanyWhitelist, c.IsActive,
	)
	if err != nil {
		return SearchCriteria{}, err
	}
	return c, nil
}

func (r *PostgresCriteriaRepository) Update(ctx context.Context, c SearchCriteria) error {
	normalizeCriteriaArrays(&c)

	affected, err := r.db.Exec(ctx,
		`UPDATE search_criteria SET
			name = $2, titles = $3, tech_stack = $4, min_salary = $5,
			exclude_keywords = $6, company_blacklist = $7,
			company_whitelist = $8, is_active = $9
		 WHERE id = $1`,
		c.ID, c.Name, c.Titles, c.TechStack, c.MinSalary,
		c.ExcludeKeywords, c.CompanyBlacklist, c.CompanyWhitelist, c.IsActive,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCriteriaNotFound
	}
	return nil
}

func (r *PostgresCriteriaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM search_criteria WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCriteriaNotFound
	}
	return nil
}

func scanCriteria(rows database.Rows) ([]SearchCriteria, error) {
	out := make([]SearchCriteria, 0)
	for rows.Next() {
		var c SearchCriteria
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Titles, &c.TechStack, &c.MinSalary,
			&c.ExcludeKeywords, &c.CompanyBlacklist, &c.CompanyWhitelist, &c.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanOneCriteria(row database.Row) (SearchCriteria, error) {
	var c SearchCriteria
	err := row.Scan(
		&c.ID, &c.Name, &c.Titles, &c.TechStack, &c.MinSalary,
		&c.ExcludeKeywords, &c.CompanyBlacklist, &c.CompanyWhitelist, &c.IsActive,
	)
	return c, err
}

func normalizeCriteriaArrays(c *SearchCriteria) {
	if c.Titles == nil {
		c.Titles = []string{}
	}
	if c.TechStack == nil {
		c.TechStack = []string{}
	}
	if c.ExcludeKeywords == nil {
		c.ExcludeKeywords = []string{}
	}
	if c.CompanyBlacklist == nil {
		c.CompanyBlacklist = []string{}
	}
	if c.CompanyWhitelist == nil {
		c.CompanyWhitelist = []string{}
	}
}
