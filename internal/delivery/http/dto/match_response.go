package dto

// MatchResponse is one row of the match board: the match plus the job it
// points at, flattened for the client.
type MatchResponse struct {
	MatchID    string   `json:"match_id"`
	CriteriaID string   `json:"criteria_id"`
	Score      int      `json:"score"`
	Status     string   `json:"status"`
	ReviewedAt string   `json:"reviewed_at,omitempty"`
	JobID      string   `json:"job_id"`
	Source     string   `json:"source"`
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Location   string   `json:"location"`
	IsRemote   bool     `json:"is_remote"`
	SalaryMin  *int     `json:"salary_min"`
	SalaryMax  *int     `json:"salary_max"`
	TechTags   []string `json:"tech_tags"`
	PostedAt   string   `json:"posted_at,omitempty"`
	ScrapedAt  string   `json:"scraped_at"`
}

type UpdateMatchStatusRequest struct {
	Status string `json:"status"`
}
