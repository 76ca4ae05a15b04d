package seeder

import (
	"context"
	"fmt"

	"jobfinder/internal/database"
)

// CriteriaSeeder inserts a starter search definition so a fresh install
// produces matches on the first scrape. It only runs against an empty
// table; user-authored criteria are never touched.
type CriteriaSeeder struct{}

func (CriteriaSeeder) Name() string { return "search_criteria" }

func (CriteriaSeeder) Run(ctx context.Context, db database.DB) error {
	row := db.QueryRow(ctx, `SELECT COUNT(*) FROM search_criteria`)
	var count int
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(
		ctx,
		`INSERT INTO search_criteria
			(id, name, titles, tech_stack, min_salary, exclude_keywords, company_blacklist, company_whitelist, is_active)
		 VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, TRUE)`,
		"Senior backend roles",
		[]string{"Senior Software Engineer", "Staff Software Engineer", "Backend Engineer"},
		[]string{"go", "postgresql", "kubernetes", "aws"},
		0,
		[]string{"unpaid", "internship"},
		[]string{},
		[]string{},
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
