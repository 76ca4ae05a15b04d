package dto

type ScrapeRunResponse struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
	JobsFound  int    `json:"jobs_found"`
	JobsNew    int    `json:"jobs_new"`
	Error      string `json:"error,omitempty"`
}

type TriggerScrapeResponse struct {
	Sources []string `json:"sources"`
	Status  string   `json:"status"`
}
