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

// AcademicService handles academic year, term and class administration
type AcademicService interface {
	CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error
	GetAcademicYearByID(ctx context.Context, schoolID, id int64) (*models.AcademicYear, error)
	GetAllAcademicYears(ctx context.Context, schoolID int64) ([]*models.AcademicYear, error)
	CreateTerm(ctx context.Context, schoolID int64, term *models.Term) error
	GetTermByID(ctx context.Context, schoolID, id int64) (*models.Term, error)
	GetTermsByAcademicYear(ctx context.Context, schoolID, academicYearID int64) ([]*models.Term, error)
	CreateClass(ctx context.Context, schoolID int64, class *models.Class) error
	GetClassesByAcademicYear(ctx context.Context, schoolID, academicYearID int64) ([]*models.Class, error)
}

// academicServiceImpl implements AcademicService
type academicServiceImpl struct {
	academicRepo *repositories.AcademicRepository
}

// NewAcademicService creates a new academic service instance
func NewAcademicService(academicRepo *repositories.AcademicRepository) AcademicService {
	return &academicServiceImpl{academicRepo: academicRepo}
}

// CreateAcademicYear creates an academic year after checking it does not
// overlap an existing year of the school
func (s *academicServiceImpl) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	if strings.TrimSpace(year.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	if !year.EndDate.After(year.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidationFailed)
	}

	existing, err := s.academicRepo.GetAllAcademicYears(ctx, year.SchoolID)
	if err != nil {
		return fmt.Errorf("error checking existing academic years: %w", err)
	}

	for _, other := range existing {
		if rangesOverlap(year.StartDate, year.EndDate, other.StartDate, other.EndDate) {
			return apperrors.NewConflictError(fmt.Sprintf("academic year overlaps %q", other.Name))
		}
	}

	return s.academicRepo.CreateAcademicYear(ctx, year)
}

// GetAcademicYearByID retrieves an academic year
func (s *academicServiceImpl) GetAcademicYearByID(ctx context.Context, schoolID, id int64) (*models.AcademicYear, error) {
	return s.academicRepo.GetAcademicYearByID(ctx, schoolID, id)
}

// GetAllAcademicYears retrieves all academic years of a school
func (s *academicServiceImpl) GetAllAcademicYears(ctx context.Context, schoolID int64) ([]*models.AcademicYear, error) {
	return s.academicRepo.GetAllAcademicYears(ctx, schoolID)
}

// CreateTerm creates a term after checking it lies within its year and does
// not overlap a sibling term
func (s *academicServiceImpl) CreateTerm(ctx context.Context, schoolID int64, term *models.Term) error {
	if strings.TrimSpace(term.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	if !term.EndDate.After(term.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", apperrors.ErrValidationFailed)
	}

	year, err := s.academicRepo.GetAcademicYearByID(ctx, schoolID, term.AcademicYearID)
	if err != nil {
		return err
	}

	if term.StartDate.Before(year.StartDate) || term.EndDate.After(year.EndDate) {
		return fmt.Errorf("%w: term must lie within its academic year", apperrors.ErrValidationFailed)
	}

	siblings, err := s.academicRepo.GetTermsByAcademicYear(ctx, term.AcademicYearID)
	if err != nil {
		return fmt.Errorf("error checking existing terms: %w", err)
	}

	for _, other := range siblings {
		if rangesOverlap(term.StartDate, term.EndDate, other.StartDate, other.EndDate) {
			return apperrors.NewConflictError(fmt.Sprintf("term overlaps %q", other.Name))
		}
	}

	return s.academicRepo.CreateTerm(ctx, term)
}

// GetTermByID retrieves a term scoped to a school
func (s *academicServiceImpl) GetTermByID(ctx context.Context, schoolID, id int64) (*models.Term, error) {
	return s.academicRepo.GetTermByID(ctx, schoolID, id)
}

// GetTermsByAcademicYear retrieves the terms of a year in start order
func (s *academicServiceImpl) GetTermsByAcademicYear(ctx context.Context, schoolID, academicYearID int64) ([]*models.Term, error) {
	if _, err := s.academicRepo.GetAcademicYearByID(ctx, schoolID, academicYearID); err != nil {
		return nil, err
	}

	return s.academicRepo.GetTermsByAcademicYear(ctx, academicYearID)
}

// CreateClass creates a class after validating its academic year
func (s *academicServiceImpl) CreateClass(ctx context.Context, schoolID int64, class *models.Class) error {
	if strings.TrimSpace(class.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	if _, err := s.academicRepo.GetAcademicYearByID(ctx, schoolID, class.AcademicYearID); err != nil {
		return err
	}

	return s.academicRepo.CreateClass(ctx, class)
}

// GetClassesByAcademicYear lists the classes of a school for a year
func (s *academicServiceImpl) GetClassesByAcademicYear(ctx context.Context, schoolID, academicYearID int64) ([]*models.Class, error) {
	return s.academicRepo.GetClassesByAcademicYear(ctx, schoolID, academicYearID)
}

// rangesOverlap reports whether two closed date ranges intersect
func rangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
