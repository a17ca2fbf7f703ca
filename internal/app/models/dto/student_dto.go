package dto

import "github.com/tmusoke/shulepoint/internal/app/models"

// CreateStudentRequest represents a student creation request
type CreateStudentRequest struct {
	CampusID  int64  `json:"campusId" binding:"required,min=1"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

// AssignClassRequest moves a student into a class from a given date
type AssignClassRequest struct {
	ClassID   int64  `json:"classId" binding:"required,min=1"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
}

// EnrollStudentRequest records a student joining an academic year. TermID is
// the first term the student attends, which drives one-off and annual fees.
type EnrollStudentRequest struct {
	AcademicYearID int64  `json:"academicYearId" binding:"required,min=1"`
	TermID         int64  `json:"termId" binding:"required,min=1"`
	StartDate      string `json:"startDate,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// AssignTransportRequest sets or clears a student's transport. A nil RouteID
// clears the assignment.
type AssignTransportRequest struct {
	RouteID       *int64                `json:"routeId,omitempty" binding:"omitempty,min=1"`
	TransportType *models.TransportType `json:"transportType,omitempty" binding:"omitempty,oneof=ONE_WAY TWO_WAY"`
}

// JoinClubActivityRequest links a student to a club activity
type JoinClubActivityRequest struct {
	ClubActivityID int64 `json:"clubActivityId" binding:"required,min=1"`
}
