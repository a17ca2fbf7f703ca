package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/repositories"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

// CatalogService manages the billable catalog entities: transport routes,
// club activities and campuses
type CatalogService interface {
	CreateTransportRoute(ctx context.Context, route *models.TransportRoute) error
	GetTransportRoutes(ctx context.Context, schoolID int64) ([]*models.TransportRoute, error)
	CreateClubActivity(ctx context.Context, activity *models.ClubActivity) error
	GetClubActivitiesByTerm(ctx context.Context, schoolID, termID int64) ([]*models.ClubActivity, error)
	CreateCampus(ctx context.Context, campus *models.Campus) error
	GetCampuses(ctx context.Context, schoolID int64) ([]*models.Campus, error)
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	transportRepo *repositories.TransportRouteRepository
	clubRepo      *repositories.ClubActivityRepository
	schoolRepo    *repositories.SchoolRepository
	academicRepo  *repositories.AcademicRepository
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(
	transportRepo *repositories.TransportRouteRepository,
	clubRepo *repositories.ClubActivityRepository,
	schoolRepo *repositories.SchoolRepository,
	academicRepo *repositories.AcademicRepository,
) CatalogService {
	return &catalogServiceImpl{
		transportRepo: transportRepo,
		clubRepo:      clubRepo,
		schoolRepo:    schoolRepo,
		academicRepo:  academicRepo,
	}
}

// CreateTransportRoute stores a route with directional term costs
func (s *catalogServiceImpl) CreateTransportRoute(ctx context.Context, route *models.TransportRoute) error {
	if strings.TrimSpace(route.RouteName) == "" {
		return fmt.Errorf("%w: route name cannot be empty", apperrors.ErrValidationFailed)
	}
	if route.OneWayCostPerTerm.IsNegative() || route.TwoWayCostPerTerm.IsNegative() {
		return fmt.Errorf("%w: route costs cannot be negative", apperrors.ErrValidationFailed)
	}

	return s.transportRepo.Create(ctx, route)
}

// GetTransportRoutes lists the school's transport routes
func (s *catalogServiceImpl) GetTransportRoutes(ctx context.Context, schoolID int64) ([]*models.TransportRoute, error) {
	return s.transportRepo.GetBySchool(ctx, schoolID)
}

// CreateClubActivity stores a term-scoped billable activity. The term must
// belong to the activity's academic year.
func (s *catalogServiceImpl) CreateClubActivity(ctx context.Context, activity *models.ClubActivity) error {
	if strings.TrimSpace(activity.ServiceName) == "" {
		return fmt.Errorf("%w: activity name cannot be empty", apperrors.ErrValidationFailed)
	}
	if activity.CostPerTerm.IsNegative() {
		return fmt.Errorf("%w: activity cost cannot be negative", apperrors.ErrValidationFailed)
	}

	term, err := s.academicRepo.GetTermByID(ctx, activity.SchoolID, activity.TermID)
	if err != nil {
		return err
	}
	if term.AcademicYearID != activity.AcademicYearID {
		return fmt.Errorf("%w: term does not belong to the academic year", apperrors.ErrValidationFailed)
	}

	return s.clubRepo.Create(ctx, activity)
}

// GetClubActivitiesByTerm lists the activities offered in a term
func (s *catalogServiceImpl) GetClubActivitiesByTerm(ctx context.Context, schoolID, termID int64) ([]*models.ClubActivity, error) {
	return s.clubRepo.GetByTerm(ctx, schoolID, termID)
}

// CreateCampus adds a campus to the school
func (s *catalogServiceImpl) CreateCampus(ctx context.Context, campus *models.Campus) error {
	if strings.TrimSpace(campus.Name) == "" {
		return fmt.Errorf("%w: campus name cannot be empty", apperrors.ErrValidationFailed)
	}

	return s.schoolRepo.CreateCampus(ctx, campus)
}

// GetCampuses lists the school's campuses
func (s *catalogServiceImpl) GetCampuses(ctx context.Context, schoolID int64) ([]*models.Campus, error) {
	return s.schoolRepo.GetCampusesBySchool(ctx, schoolID)
}
