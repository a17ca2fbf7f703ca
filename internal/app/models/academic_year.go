package models

import "time"

// AcademicYear represents one school year of a tenant. Years of the same
// school must not overlap; that is enforced by the authoring layer.
type AcademicYear struct {
	ID        int64     `json:"id"`
	SchoolID  int64     `json:"school_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Status derives the year state from the clock. Nothing is stored.
func (y *AcademicYear) Status(now time.Time) AcademicStatus {
	if !now.Before(y.StartDate) && !now.After(y.EndDate) {
		return AcademicActive
	}
	return AcademicArchived
}

// Term is a billing and teaching period within an academic year
type Term struct {
	ID             int64     `json:"id"`
	AcademicYearID int64     `json:"academic_year_id"`
	Name           string    `json:"name"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
}

// Status derives the term state from the clock, same rule as AcademicYear
func (t *Term) Status(now time.Time) AcademicStatus {
	if !now.Before(t.StartDate) && !now.After(t.EndDate) {
		return AcademicActive
	}
	return AcademicArchived
}

// Class is a teaching group within a campus and academic year, uniquely
// named within that pair
type Class struct {
	ID             int64  `json:"id"`
	CampusID       int64  `json:"campus_id"`
	AcademicYearID int64  `json:"academic_year_id"`
	Name           string `json:"name"`
	Capacity       *int   `json:"capacity,omitempty"`
}
