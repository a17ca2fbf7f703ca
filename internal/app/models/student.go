package models

import "time"

// Student belongs to a school and campus. Transport assignment lives on the
// student record; class membership is tracked through StudentClassHistory.
type Student struct {
	ID               int64          `json:"id"`
	SchoolID         int64          `json:"school_id"`
	CampusID         int64          `json:"campus_id"`
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	Status           StudentStatus  `json:"status"`
	TransportRouteID *int64         `json:"transport_route_id,omitempty"`
	TransportType    *TransportType `json:"transport_type,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// StudentClassHistory is a time-ranged student-to-class assignment. At most
// one row per student has a nil EndDate; that row is the current assignment.
type StudentClassHistory struct {
	ID        int64      `json:"id"`
	StudentID int64      `json:"student_id"`
	ClassID   int64      `json:"class_id"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// StudentAcademicEnrollment records when a student joined an academic year.
// The open row's TermID is the first term the student was enrolled for in
// that year, which decides one-off and annual charging.
type StudentAcademicEnrollment struct {
	ID             int64      `json:"id"`
	StudentID      int64      `json:"student_id"`
	AcademicYearID int64      `json:"academic_year_id"`
	TermID         int64      `json:"term_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
}

// StudentClubActivity links a student to a club or activity for a term
type StudentClubActivity struct {
	ID             int64 `json:"id"`
	StudentID      int64 `json:"student_id"`
	ClubActivityID int64 `json:"club_activity_id"`
}
