package domain

const (
	// Nationwide disables the location filter.
	Nationwide = "全国"
	// Unrestricted disables the work-year filter.
	Unrestricted = "不限"
)

// SearchRequest carries the optional filters shared by every chart endpoint.
type SearchRequest struct {
	City         string `json:"city" form:"city"`
	Industry     string `json:"industry" form:"industry"`
	FinanceStage string `json:"financeStage" form:"financeStage"`
	WorkYear     string `json:"workYear" form:"workYear"`
	SalaryRange  []int  `json:"salaryRange" form:"salaryRange"`
	Key          string `json:"key" form:"key"`
}
