package dto

type CriteriaResponse struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Titles           []string `json:"titles"`
	TechStack        []string `json:"tech_stack"`
	MinSalary        int      `json:"min_salary"`
	ExcludeKeywords  []string `json:"exclude_keywords"`
	CompanyBlacklist []string `json:"company_blacklist"`
	CompanyWhitelist []string `json:"company_whitelist"`
	IsActive         bool     `json:"is_active"`
}

type CriteriaRequest struct {
	Name             string   `json:"name"`
	Titles           []string `json:"titles"`
	TechStack        []string `json:"tech_stack"`
	MinSalary        int      `json:"min_salary"`
	ExcludeKeywords  []string `json:"exclude_keywords"`
	CompanyBlacklist []string `json:"company_blacklist"`
	CompanyWhitelist []string `json:"company_whitelist"`
	IsActive         *bool    `json:"is_active"`
}
