package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobfinder/internal/repository"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	active    []repository.Job
	unmatched []repository.Job
	err       error

	upserts map[string]int
}

func (m *mockJobRepo) Upsert(_ context.Context, j repository.JobUpsert) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if m.upserts == nil {
		m.upserts = map[string]int{}
	}
	key := j.Source + "/" + j.ExternalID
	m.upserts[key]++
	return m.upserts[key] == 1, nil
}

func (m *mockJobRepo) ListActive(context.Context) ([]repository.Job, error) {
	return m.active, m.err
}

func (m *mockJobRepo) ListActiveUnmatched(context.Context) ([]repository.Job, error) {
	return m.unmatched, m.err
}

type matchKey struct {
	job      uuid.UUID
	criteria uuid.UUID
}

type mockMatchRepo struct {
	rows map[matchKey]repository.JobMatch
	err  error
}

func newMockMatchRepo() *mockMatchRepo {
	return &mockMatchRepo{rows: map[matchKey]repository.JobMatch{}}
}

func (m *mockMatchRepo) Insert(_ context.Context, in repository.MatchInsert) (repository.JobMatch, bool, error) {
	if m.err != nil {
		return repository.JobMatch{}, false, m.err
	}
	k := matchKey{job: in.JobID, criteria: in.CriteriaID}
	if _, ok := m.rows[k]; ok {
		return repository.JobMatch{}, false, nil
	}
	row := repository.JobMatch{
		ID:         uuid.New(),
		JobID:      in.JobID,
		CriteriaID: in.CriteriaID,
		Score:      in.Score,
		Status:     "new",
		CreatedAt:  time.Now().UTC(),
	}
	m.rows[k] = row
	return row, true, nil
}

func (m *mockMatchRepo) ReplaceForCriteria(_ context.Context, criteriaID uuid.UUID, inserts []repository.MatchInsert) ([]repository.JobMatch, error) {
	if m.err != nil {
		return nil, m.err
	}
	for k := range m.rows {
		if k.criteria == criteriaID {
			delete(m.rows, k)
		}
	}
	out := make([]repository.JobMatch, 0, len(inserts))
	for _, in := range inserts {
		row := repository.JobMatch{
			ID:         uuid.New(),
			JobID:      in.JobID,
			CriteriaID: criteriaID,
			Score:      in.Score,
			Status:     "new",
			CreatedAt:  time.Now().UTC(),
		}
		m.rows[matchKey{job: in.JobID, criteria: criteriaID}] = row
		out = append(out, row)
	}
	return out, nil
}

func (m *mockMatchRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string, reviewedAt *time.Time) error {
	if m.err != nil {
		return m.err
	}
	for k, row := range m.rows {
		if row.ID == id {
			row.Status = status
			row.ReviewedAt = reviewedAt
			m.rows[k] = row
			return nil
		}
	}
	return repository.ErrMatchNotFound
}

func (m *mockMatchRepo) ListWithJobs(context.Context, repository.MatchListFilter) ([]repository.MatchWithJob, error) {
	return nil, nil
}

func (m *mockMatchRepo) ListNewSince(context.Context, time.Time, int) ([]repository.MatchWithJob, error) {
	return nil, nil
}

func (m *mockMatchRepo) forCriteria(criteriaID uuid.UUID) []repository.JobMatch {
	out := make([]repository.JobMatch, 0)
	for k, row := range m.rows {
		if k.criteria == criteriaID {
			out = append(out, row)
		}
	}
	return out
}

type mockCriteriaRepo struct {
	byID   map[uuid.UUID]repository.SearchCriteria
	active []repository.SearchCriteria
	err    error
}

func (m *mockCriteriaRepo) List(context.Context) ([]repository.SearchCriteria, error) {
	return nil, nil
}

func (m *mockCriteriaRepo) ListActive(context.Context) ([]repository.SearchCriteria, error) {
	return m.active, m.err
}

func (m *mockCriteriaRepo) GetByID(_ context.Context, id uuid.UUID) (repository.SearchCriteria, error) {
	if m.err != nil {
		return repository.SearchCriteria{}, m.err
	}
	c, ok := m.byID[id]
	if !ok {
		return repository.SearchCriteria{}, repository.ErrCriteriaNotFound
	}
	return c, nil
}

func (m *mockCriteriaRepo) Create(_ context.Context, c repository.SearchCriteria) (repository.SearchCriteria, error) {
	return c, nil
}

func (m *mockCriteriaRepo) Update(context.Context, repository.SearchCriteria) error { return nil }
func (m *mockCriteriaRepo) Delete(context.Context, uuid.UUID) error                 { return nil }

func remoteJob(title, company string) repository.Job {
	return repository.Job{
		ID:       uuid.New(),
		Source:   "remoteok",
		URL:      "https://example.com/" + uuid.NewString(),
		Title:    title,
		Company:  company,
		IsRemote: true,
		IsActive: true,
	}
}

func TestRescoreAll_CreatesMatchesAboveThreshold(t *testing.T) {
	cID := uuid.New()
	strong := remoteJob("Staff Software Engineer", "Acme")
	weak := remoteJob("Gardener", "Acme")

	jobs := &mockJobRepo{active: []repository.Job{strong, weak}}
	matches := newMockMatchRepo()
	criteria := &mockCriteriaRepo{byID: map[uuid.UUID]repository.SearchCriteria{
		cID: {ID: cID, Name: "staff roles", Titles: []string{"Staff Software Engineer"}},
	}}

	u := NewMatchUsecase(jobs, criteria, matches, nil, nil)
	created, err := u.RescoreAll(context.Background(), cID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected 1 match, got %d", created)
	}
	rows := matches.forCriteria(cID)
	if len(rows) != 1 || rows[0].JobID != strong.ID {
		t.Fatalf("expected only the strong job to match")
	}
}

func TestRescoreAll_IsIdempotent(t *testing.T) {
	cID := uuid.New()
	jobs := &mockJobRepo{active: []repository.Job{remoteJob("Staff Software Engineer", "Acme")}}
	matches := newMockMatchRepo()
	criteria := &mockCriteriaRepo{byID: map[uuid.UUID]repository.SearchCriteria{
		cID: {ID: cID, Name: "staff roles", Titles: []string{"Staff Software Engineer"}},
	}}

	u := NewMatchUsecase(jobs, criteria, matches, nil, nil)
	first, err := u.RescoreAll(context.Background(), cID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := u.RescoreAll(context.Background(), cID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if first != second {
		t.Fatalf("rescore not idempotent: %d then %d", first, second)
	}
	if got := len(matches.forCriteria(cID)); got != first {
		t.Fatalf("expected %d rows after second run, got %d", first, got)
	}

	scores := matches.forCriteria(cID)
	for _, m := range scores {
		if m.Score < 50 || m.Score > 100 {
			t.Fatalf("score out of range: %d", m.Score)
		}
	}
}

func TestRescoreAll_ThresholdIsInclusive(t *testing.T) {
	cID := uuid.New()
	min := 150000

	// Exact title (40) + salary floor met (10) = 50, the lowest score
	// that still lands on the board.
	onBoard := repository.Job{
		ID: uuid.New(), Source: "dice", URL: "https://example.com/a",
		Title: "Staff Software Engineer", Company: "Acme",
		SalaryMin: &min, IsActive: true,
	}
	// Exact title alone is 40 and stays off.
	offBoard := repository.Job{
		ID: uuid.New(), Source: "dice", URL: "https://example.com/b",
		Title: "Staff Software Engineer", Company: "Globex",
		IsActive: true,
	}

	jobs := &mockJobRepo{active: []repository.Job{onBoard, offBoard}}
	matches := newMockMatchRepo()
	criteria := &mockCriteriaRepo{byID: map[uuid.UUID]repository.SearchCriteria{
		cID: {ID: cID, Name: "staff roles", Titles: []string{"Staff Software Engineer"}, MinSalary: 140000},
	}}

	u := NewMatchUsecase(jobs, criteria, matches, nil, nil)
	created, err := u.RescoreAll(context.Background(), cID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created != 1 {
		t.Fatalf("expected exactly the score-50 job to match, got %d", created)
	}
	rows := matches.forCriteria(cID)
	if len(rows) != 1 || rows[0].JobID != onBoard.ID {
		t.Fatalf("wrong job matched: %+v", rows)
	}
	if rows[0].Score != 50 {
		t.Fatalf("score = %d, want 50", rows[0].Score)
	}
}

func TestRescoreAll_UnknownCriteria(t *testing.T) {
	u := NewMatchUsecase(&mockJobRepo{}, &mockCriteriaRepo{byID: map[uuid.UUID]repository.SearchCriteria{}}, newMockMatchRepo(), nil, nil)
	_, err := u.RescoreAll(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncrementalMatch_NoActiveCriteriaIsNoop(t *testing.T) {
	jobs := &mockJobRepo{unmatched: []repository.Job{remoteJob("Engineer", "Acme")}}
	u := NewMatchUsecase(jobs, &mockCriteriaRepo{}, newMockMatchRepo(), nil, nil)
	created, err := u.IncrementalMatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created != 0 {
		t.Fatalf("expected 0 matches, got %d", created)
	}
}

func TestIncrementalMatch_OnlyScoresUnmatchedJobs(t *testing.T) {
	cA := repository.SearchCriteria{ID: uuid.New(), Name: "a", IsActive: true, Titles: []string{"Staff Software Engineer"}}
	cB := repository.SearchCriteria{ID: uuid.New(), Name: "b", IsActive: true, Titles: []string{"Staff Software Engineer"}}

	fresh := remoteJob("Staff Software Engineer", "Acme")
	// A job that already matched cA is absent from the unmatched set and
	// is therefore never checked against cB: the documented asymmetry.
	jobs := &mockJobRepo{unmatched: []repository.Job{fresh}}
	matches := newMockMatchRepo()
	alreadyMatched := remoteJob("Staff Software Engineer", "Globex")
	if _, _, err := matches.Insert(context.Background(), repository.MatchInsert{JobID: alreadyMatched.ID, CriteriaID: cA.ID, Score: 70}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	u := NewMatchUsecase(jobs, &mockCriteriaRepo{active: []repository.SearchCriteria{cA, cB}}, matches, nil, nil)
	created, err := u.IncrementalMatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created != 2 {
		t.Fatalf("fresh job must match both criteria, got %d", created)
	}
	if got := len(matches.forCriteria(cB.ID)); got != 1 {
		t.Fatalf("expected 1 cB match (fresh job only), got %d", got)
	}
}

func TestIncrementalMatch_FiresCallbackPerCreatedMatch(t *testing.T) {
	c := repository.SearchCriteria{ID: uuid.New(), Name: "a", IsActive: true, Titles: []string{"Staff Software Engineer"}}
	fresh := remoteJob("Staff Software Engineer", "Acme")

	var got []repository.JobMatch
	onMatch := func(m repository.JobMatch, job repository.Job) {
		if job.ID != fresh.ID {
			t.Errorf("callback job mismatch")
		}
		got = append(got, m)
	}

	u := NewMatchUsecase(
		&mockJobRepo{unmatched: []repository.Job{fresh}},
		&mockCriteriaRepo{active: []repository.SearchCriteria{c}},
		newMockMatchRepo(),
		onMatch,
		nil,
	)
	if _, err := u.IncrementalMatch(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected callback once, got %d", len(got))
	}
	if got[0].Status != "new" {
		t.Fatalf("created match must start as new, got %q", got[0].Status)
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	matches := newMockMatchRepo()
	row, _, err := matches.Insert(context.Background(), repository.MatchInsert{JobID: uuid.New(), CriteriaID: uuid.New(), Score: 60})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	u := NewMatchUsecase(&mockJobRepo{}, &mockCriteriaRepo{}, matches, nil, nil)

	if err := u.UpdateStatus(context.Background(), row.ID, "reviewed"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// Any state is reachable from any other.
	if err := u.UpdateStatus(context.Background(), row.ID, "new"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if err := u.UpdateStatus(context.Background(), row.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := u.UpdateStatus(context.Background(), uuid.New(), "saved"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
