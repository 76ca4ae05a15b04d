package scoring

import "testing"

func intPtr(v int) *int { return &v }

func staffEngineerJob() Job {
	return Job{
		Title:       "Staff Software Engineer",
		Company:     "Acme",
		Description: "Build and operate distributed systems.",
		IsRemote:    true,
		SalaryMin:   intPtr(130000),
		SalaryMax:   intPtr(160000),
		TechTags:    []string{"Python", "Kubernetes"},
	}
}

func TestScore_BlacklistDisqualifies(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{
		Titles:           []string{"Staff Software Engineer"},
		CompanyBlacklist: []string{"ACME"},
	}
	if got := Score(job, c); got != 0 {
		t.Fatalf("expected 0 for blacklisted company, got %d", got)
	}
}

func TestScore_BlacklistIsExactMatch(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{
		Titles:           []string{"Staff Software Engineer"},
		CompanyBlacklist: []string{"Acme Corp"},
	}
	if got := Score(job, c); got == 0 {
		t.Fatalf("blacklist must be exact match, not substring; got 0")
	}
}

func TestScore_ExcludedKeywordDisqualifies(t *testing.T) {
	job := staffEngineerJob()
	job.Description = "Exciting role in Blockchain and DeFi."
	c := Criteria{
		Titles:          []string{"Staff Software Engineer"},
		ExcludeKeywords: []string{"blockchain"},
	}
	if got := Score(job, c); got != 0 {
		t.Fatalf("expected 0 for excluded keyword, got %d", got)
	}
}

func TestScore_SalaryCeilingBelowFloorDisqualifies(t *testing.T) {
	job := staffEngineerJob()
	job.SalaryMax = intPtr(100000)
	c := Criteria{
		Titles:    []string{"Staff Software Engineer"},
		MinSalary: 125000,
	}
	if got := Score(job, c); got != 0 {
		t.Fatalf("expected 0 when salary_max below floor, got %d", got)
	}
}

func TestScore_UnknownSalaryNeverDisqualifies(t *testing.T) {
	job := staffEngineerJob()
	job.SalaryMin = nil
	job.SalaryMax = nil
	c := Criteria{
		Titles:    []string{"Staff Software Engineer"},
		MinSalary: 125000,
	}
	if got := Score(job, c); got <= 0 {
		t.Fatalf("missing salary data must not disqualify, got %d", got)
	}
}

func TestScore_StrongMatchScenario(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{
		Titles:    []string{"Staff Software Engineer"},
		TechStack: []string{"Python"},
		MinSalary: 0,
	}
	if got := Score(job, c); got < 80 {
		t.Fatalf("expected >= 80 for strong match, got %d", got)
	}
}

func TestScore_TitleGateBlocksBonuses(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{Titles: []string{"Junior Developer"}}
	if got := Score(job, c); got >= 40 {
		t.Fatalf("expected < 40 when title gate fails, got %d", got)
	}
}

func TestScore_SalaryBonusRequiresKnownFloor(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{
		Titles:    []string{"Staff Software Engineer"},
		MinSalary: 125000,
	}
	withSalary := Score(job, c)

	job.SalaryMin = nil
	withoutSalary := Score(job, c)

	if withSalary-withoutSalary != WeightSalary {
		t.Fatalf("expected salary bonus of %d, got delta %d", WeightSalary, withSalary-withoutSalary)
	}
}

func TestScore_WhitelistBonus(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{Titles: []string{"Staff Software Engineer"}}
	base := Score(job, c)

	c.CompanyWhitelist = []string{"acme"}
	if got := Score(job, c); got-base != WeightWhitelist {
		t.Fatalf("expected whitelist bonus of %d, got delta %d", WeightWhitelist, got-base)
	}
}

func TestScore_TechOverlapIsProportional(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{
		Titles:    []string{"Staff Software Engineer"},
		TechStack: []string{"Python", "Kubernetes", "Rust", "Haskell"},
	}
	// 2 of 4 criteria technologies present: floor(2/4 * 25) = 12.
	base := Criteria{Titles: []string{"Staff Software Engineer"}}
	if got, want := Score(job, c)-Score(job, base), 2*WeightTechStack/4; got != want {
		t.Fatalf("expected tech contribution %d, got %d", want, got)
	}
}

func TestScore_NoTitlesAlwaysZero(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{
		TechStack:        []string{"Python"},
		CompanyWhitelist: []string{"Acme"},
	}
	if got := Score(job, c); got != 0 {
		t.Fatalf("criteria without titles must score 0, got %d", got)
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	jobs := []Job{
		staffEngineerJob(),
		{},
		{Title: "Senior Software Engineer", IsRemote: true, TechTags: []string{"Go"}},
	}
	criteria := []Criteria{
		{},
		{Titles: []string{"Engineer"}, TechStack: []string{"Go"}, MinSalary: 1},
		{Titles: []string{"Senior Software Engineer"}, TechStack: []string{"Go"}, CompanyWhitelist: []string{""}},
	}
	for _, j := range jobs {
		for _, c := range criteria {
			got := Score(j, c)
			if got < 0 || got > 100 {
				t.Fatalf("score out of bounds: %d (job=%q)", got, j.Title)
			}
		}
	}
}

func TestScore_SubstringTitleScoresHigh(t *testing.T) {
	job := staffEngineerJob()
	job.Title = "Senior Software Engineer"
	c := Criteria{Titles: []string{"Engineer"}}
	// "Engineer" is contained verbatim, so partial similarity is 100 and
	// the title contribution is the full weight.
	if got := Score(job, c); got < WeightTitle {
		t.Fatalf("expected at least %d for contained title, got %d", WeightTitle, got)
	}
}

func TestScore_BestTitleAcrossList(t *testing.T) {
	job := staffEngineerJob()
	c := Criteria{Titles: []string{"Accountant", "Staff Software Engineer"}}
	if got := Score(job, c); got < WeightTitle {
		t.Fatalf("expected best-of title matching, got %d", got)
	}
}
