package models

import "github.com/shopspring/decimal"

// ClubActivity is a billable club or extra-curricular service offered for a
// specific term. CLUB and EXTRA_CURRICULAR are billed identically.
type ClubActivity struct {
	ID             int64           `json:"id"`
	SchoolID       int64           `json:"school_id"`
	ServiceName    string          `json:"service_name"`
	ActivityType   ActivityType    `json:"activity_type"`
	CostPerTerm    decimal.Decimal `json:"cost_per_term"`
	AcademicYearID int64           `json:"academic_year_id"`
	TermID         int64           `json:"term_id"`
}
