package dto

// CreateAcademicYearRequest represents an academic year creation request.
// Dates use the YYYY-MM-DD format.
type CreateAcademicYearRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// CreateTermRequest represents a term creation request
type CreateTermRequest struct {
	AcademicYearID int64  `json:"academicYearId" binding:"required,min=1"`
	Name           string `json:"name" binding:"required"`
	StartDate      string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate        string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// CreateClassRequest represents a class creation request
type CreateClassRequest struct {
	CampusID       int64  `json:"campusId" binding:"required,min=1"`
	AcademicYearID int64  `json:"academicYearId" binding:"required,min=1"`
	Name           string `json:"name" binding:"required"`
	Capacity       *int   `json:"capacity,omitempty" binding:"omitempty,min=1"`
}
