package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/repositories"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

// FeeStructureService handles fee structure authoring. Structures are
// immutable once created: an edit produces a new version row chained to the
// prior one, and the prior one is deactivated.
type FeeStructureService interface {
	CreateStructure(ctx context.Context, fs *models.FeeStructure, classIDs []int64) error
	CreateVersion(ctx context.Context, schoolID, parentID int64, fs *models.FeeStructure, classIDs []int64) error
	GetStructureByID(ctx context.Context, schoolID, id int64) (*models.FeeStructure, error)
	GetStructuresByAcademicYear(ctx context.Context, schoolID, academicYearID int64) ([]*models.FeeStructure, error)
	DeactivateStructure(ctx context.Context, schoolID, id int64) error
}

// feeStructureServiceImpl implements FeeStructureService
type feeStructureServiceImpl struct {
	structureRepo *repositories.FeeStructureRepository
	academicRepo  *repositories.AcademicRepository
}

// NewFeeStructureService creates a new fee structure service instance
func NewFeeStructureService(structureRepo *repositories.FeeStructureRepository, academicRepo *repositories.AcademicRepository) FeeStructureService {
	return &feeStructureServiceImpl{
		structureRepo: structureRepo,
		academicRepo:  academicRepo,
	}
}

// validateStructure validates authoring input before any write
func (s *feeStructureServiceImpl) validateStructure(fs *models.FeeStructure, classIDs []int64) error {
	if fs == nil {
		return fmt.Errorf("%w: structure is nil", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(fs.StructureName) == "" {
		return fmt.Errorf("%w: structure name cannot be empty", apperrors.ErrValidationFailed)
	}

	if fs.StructureScope != models.ScopeTerm && fs.StructureScope != models.ScopeYear {
		return fmt.Errorf("%w: structure scope must be TERM or YEAR", apperrors.ErrValidationFailed)
	}

	if fs.BaseFee.IsNegative() {
		return fmt.Errorf("%w: base fee cannot be negative", apperrors.ErrValidationFailed)
	}

	if len(classIDs) == 0 {
		return fmt.Errorf("%w: structure must apply to at least one class", apperrors.ErrValidationFailed)
	}

	for _, item := range fs.LineItems {
		if strings.TrimSpace(item.ItemName) == "" {
			return fmt.Errorf("%w: line item name cannot be empty", apperrors.ErrValidationFailed)
		}
		if item.Amount.IsNegative() {
			return fmt.Errorf("%w: line item amount cannot be negative", apperrors.ErrValidationFailed)
		}
		if item.IsAnnual && item.IsOneOff {
			return fmt.Errorf("%w: line item %q cannot be both annual and one-off", apperrors.ErrValidationFailed, item.ItemName)
		}
	}

	return nil
}

// CreateStructure creates the first version of a new structure chain
func (s *feeStructureServiceImpl) CreateStructure(ctx context.Context, fs *models.FeeStructure, classIDs []int64) error {
	if err := s.validateStructure(fs, classIDs); err != nil {
		return err
	}

	if _, err := s.academicRepo.GetAcademicYearByID(ctx, fs.SchoolID, fs.AcademicYearID); err != nil {
		return err
	}

	for _, classID := range classIDs {
		if _, err := s.academicRepo.GetClassByID(ctx, fs.SchoolID, classID); err != nil {
			return err
		}
	}

	fs.Version = 1
	fs.ParentStructureID = nil
	fs.Status = models.StructureActive

	if err := s.structureRepo.Create(ctx, fs, classIDs); err != nil {
		return fmt.Errorf("error creating fee structure: %w", err)
	}

	return nil
}

// CreateVersion snapshots an edit as a new row with an incremented version
// and the parent pointer set, then deactivates the parent so only the new
// version is selectable
func (s *feeStructureServiceImpl) CreateVersion(ctx context.Context, schoolID, parentID int64, fs *models.FeeStructure, classIDs []int64) error {
	if err := s.validateStructure(fs, classIDs); err != nil {
		return err
	}

	parent, err := s.structureRepo.GetByID(ctx, schoolID, parentID)
	if err != nil {
		return err
	}

	fs.SchoolID = parent.SchoolID
	fs.CampusID = parent.CampusID
	fs.AcademicYearID = parent.AcademicYearID
	fs.Version = parent.Version + 1
	fs.ParentStructureID = &parent.ID
	fs.Status = models.StructureActive

	if err := s.structureRepo.Create(ctx, fs, classIDs); err != nil {
		return fmt.Errorf("error creating fee structure version: %w", err)
	}

	if err := s.structureRepo.Deactivate(ctx, schoolID, parent.ID); err != nil {
		return fmt.Errorf("error deactivating prior version: %w", err)
	}

	return nil
}

// GetStructureByID retrieves a structure with its line items
func (s *feeStructureServiceImpl) GetStructureByID(ctx context.Context, schoolID, id int64) (*models.FeeStructure, error) {
	return s.structureRepo.GetByID(ctx, schoolID, id)
}

// GetStructuresByAcademicYear lists structures of a school for a year
func (s *feeStructureServiceImpl) GetStructuresByAcademicYear(ctx context.Context, schoolID, academicYearID int64) ([]*models.FeeStructure, error) {
	if _, err := s.academicRepo.GetAcademicYearByID(ctx, schoolID, academicYearID); err != nil {
		return nil, err
	}

	return s.structureRepo.GetByAcademicYear(ctx, schoolID, academicYearID)
}

// DeactivateStructure retires a structure without replacing it
func (s *feeStructureServiceImpl) DeactivateStructure(ctx context.Context, schoolID, id int64) error {
	return s.structureRepo.Deactivate(ctx, schoolID, id)
}
