package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/repositories"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

// StudentService handles student administration: records, class assignment,
// academic enrollment, club links and transport
type StudentService interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	GetStudentByID(ctx context.Context, schoolID, id int64) (*models.Student, error)
	GetStudents(ctx context.Context, schoolID int64, offset uint64, limit int) ([]*models.Student, int64, error)
	AssignClass(ctx context.Context, schoolID, studentID, classID int64, startDate time.Time) error
	Enroll(ctx context.Context, schoolID int64, enrollment *models.StudentAcademicEnrollment) error
	AssignTransport(ctx context.Context, schoolID, studentID int64, routeID *int64, transportType *models.TransportType) error
	JoinClubActivity(ctx context.Context, schoolID, studentID, clubActivityID int64) error
	LeaveClubActivity(ctx context.Context, schoolID, studentID, clubActivityID int64) error
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	studentRepo   *repositories.StudentRepository
	academicRepo  *repositories.AcademicRepository
	clubRepo      *repositories.ClubActivityRepository
	transportRepo *repositories.TransportRouteRepository
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo *repositories.StudentRepository,
	academicRepo *repositories.AcademicRepository,
	clubRepo *repositories.ClubActivityRepository,
	transportRepo *repositories.TransportRouteRepository,
) StudentService {
	return &studentServiceImpl{
		studentRepo:   studentRepo,
		academicRepo:  academicRepo,
		clubRepo:      clubRepo,
		transportRepo: transportRepo,
	}
}

// CreateStudent creates a student record
func (s *studentServiceImpl) CreateStudent(ctx context.Context, student *models.Student) error {
	if strings.TrimSpace(student.FirstName) == "" || strings.TrimSpace(student.LastName) == "" {
		return fmt.Errorf("%w: student name cannot be empty", apperrors.ErrValidationFailed)
	}

	if student.Status == "" {
		student.Status = models.StudentActive
	}

	return s.studentRepo.Create(ctx, student)
}

// GetStudentByID retrieves a student scoped to a school
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, schoolID, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, schoolID, id)
}

// GetStudents lists the students of a school
func (s *studentServiceImpl) GetStudents(ctx context.Context, schoolID int64, offset uint64, limit int) ([]*models.Student, int64, error) {
	return s.studentRepo.GetBySchool(ctx, schoolID, offset, limit)
}

// AssignClass moves a student into a class, closing any previous assignment
func (s *studentServiceImpl) AssignClass(ctx context.Context, schoolID, studentID, classID int64, startDate time.Time) error {
	if _, err := s.studentRepo.GetByID(ctx, schoolID, studentID); err != nil {
		return err
	}

	if _, err := s.academicRepo.GetClassByID(ctx, schoolID, classID); err != nil {
		return err
	}

	return s.studentRepo.AssignClass(ctx, studentID, classID, startDate)
}

// Enroll records the student joining an academic year from a given term.
// The enrollment term decides new-student status for one-off and annual
// charges, so it must belong to the enrollment's academic year.
func (s *studentServiceImpl) Enroll(ctx context.Context, schoolID int64, enrollment *models.StudentAcademicEnrollment) error {
	if _, err := s.studentRepo.GetByID(ctx, schoolID, enrollment.StudentID); err != nil {
		return err
	}

	term, err := s.academicRepo.GetTermByID(ctx, schoolID, enrollment.TermID)
	if err != nil {
		return err
	}

	if term.AcademicYearID != enrollment.AcademicYearID {
		return fmt.Errorf("%w: enrollment term does not belong to the academic year", apperrors.ErrValidationFailed)
	}

	if enrollment.StartDate.IsZero() {
		enrollment.StartDate = term.StartDate
	}

	return s.studentRepo.Enroll(ctx, enrollment)
}

// AssignTransport sets or clears a student's transport route and usage
func (s *studentServiceImpl) AssignTransport(ctx context.Context, schoolID, studentID int64, routeID *int64, transportType *models.TransportType) error {
	if routeID != nil {
		if _, err := s.transportRepo.GetByID(ctx, schoolID, *routeID); err != nil {
			return err
		}
	}

	return s.studentRepo.UpdateTransport(ctx, schoolID, studentID, routeID, transportType)
}

// JoinClubActivity links a student to a club activity of their school
func (s *studentServiceImpl) JoinClubActivity(ctx context.Context, schoolID, studentID, clubActivityID int64) error {
	if _, err := s.studentRepo.GetByID(ctx, schoolID, studentID); err != nil {
		return err
	}

	if _, err := s.clubRepo.GetByID(ctx, schoolID, clubActivityID); err != nil {
		return err
	}

	return s.studentRepo.LinkClubActivity(ctx, studentID, clubActivityID)
}

// LeaveClubActivity removes a student's club activity link
func (s *studentServiceImpl) LeaveClubActivity(ctx context.Context, schoolID, studentID, clubActivityID int64) error {
	if _, err := s.studentRepo.GetByID(ctx, schoolID, studentID); err != nil {
		return err
	}

	return s.studentRepo.UnlinkClubActivity(ctx, studentID, clubActivityID)
}
