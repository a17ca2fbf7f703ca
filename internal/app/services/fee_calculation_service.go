package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
	"github.com/tmusoke/shulepoint/internal/pkg/logger"
)

// ComputeFeeInput carries a validated fee computation request. The caller is
// trusted to be authenticated and tenant-scoped; SchoolID is taken from the
// verified claims, never inferred from the term.
type ComputeFeeInput struct {
	SchoolID           int64
	StudentID          int64
	ClassID            int64
	TermID             int64
	ClubActivityIDs    []int64
	TransportRouteID   *int64
	IncludeDiscounts   bool
	IncludeAdjustments bool
}

// FeeCalculationService derives the amount a student owes in a term and
// reconciles the persisted fee record to it
type FeeCalculationService interface {
	ComputeFee(ctx context.Context, input ComputeFeeInput) (decimal.Decimal, error)
	ComputeFeeForStudent(ctx context.Context, schoolID, studentID, termID int64) (decimal.Decimal, error)
}

// Narrow store views of the repositories the engine reads. Tests substitute
// in-memory fakes.
type academicReader interface {
	GetTermByID(ctx context.Context, schoolID, id int64) (*models.Term, error)
	GetFirstTermOfYear(ctx context.Context, academicYearID int64) (*models.Term, error)
	GetClassByID(ctx context.Context, schoolID, id int64) (*models.Class, error)
}

type studentReader interface {
	GetByID(ctx context.Context, schoolID, id int64) (*models.Student, error)
	GetOpenEnrollment(ctx context.Context, studentID, academicYearID int64) (*models.StudentAcademicEnrollment, error)
	GetCurrentClassAssignment(ctx context.Context, studentID int64) (*models.StudentClassHistory, error)
	GetClubActivityIDs(ctx context.Context, studentID, termID int64) ([]int64, error)
}

type structureFinder interface {
	FindTermScoped(ctx context.Context, schoolID, classID, termID int64) (*models.FeeStructure, error)
	FindYearScoped(ctx context.Context, schoolID, classID, academicYearID, termID int64) (*models.FeeStructure, error)
	FindLegacyByClassColumn(ctx context.Context, schoolID, classID, termID int64) (*models.FeeStructure, error)
	InsertClassLink(ctx context.Context, feeStructureID, classID int64) error
	GetLineItems(ctx context.Context, feeStructureID int64) ([]*models.FeeLineItem, error)
}

type clubReader interface {
	GetByIDs(ctx context.Context, schoolID int64, ids []int64) ([]*models.ClubActivity, error)
}

type transportReader interface {
	GetByID(ctx context.Context, schoolID, id int64) (*models.TransportRoute, error)
}

type reductionReader interface {
	GetActiveByTerm(ctx context.Context, schoolID, termID int64) ([]*models.GlobalDiscount, error)
	GetAdjustmentsByStudentAndTerm(ctx context.Context, schoolID, studentID, termID int64) ([]*models.FeeAdjustment, error)
}

type feeWriter interface {
	UpsertExpected(ctx context.Context, studentID, termID int64, expectedAmount decimal.Decimal) error
	IsOneOffSatisfied(ctx context.Context, studentID, feeLineItemID, academicYearID int64) (bool, error)
}

// feeCalculationServiceImpl implements FeeCalculationService
type feeCalculationServiceImpl struct {
	academicRepo  academicReader
	studentRepo   studentReader
	structureRepo structureFinder
	clubRepo      clubReader
	transportRepo transportReader
	reductionRepo reductionReader
	feeRepo       feeWriter
}

// NewFeeCalculationService creates a new fee calculation service instance
func NewFeeCalculationService(
	academicRepo academicReader,
	studentRepo studentReader,
	structureRepo structureFinder,
	clubRepo clubReader,
	transportRepo transportReader,
	reductionRepo reductionReader,
	feeRepo feeWriter,
) FeeCalculationService {
	return &feeCalculationServiceImpl{
		academicRepo:  academicRepo,
		studentRepo:   studentRepo,
		structureRepo: structureRepo,
		clubRepo:      clubRepo,
		transportRepo: transportRepo,
		reductionRepo: reductionRepo,
		feeRepo:       feeRepo,
	}
}

// feeContext is the resolved academic state a computation runs against
type feeContext struct {
	term           *models.Term
	class          *models.Class
	student        *models.Student
	enrollmentTerm *models.Term // nil when the student never enrolled for the year
	isNewStudent   bool         // enrollment began in exactly this term
}

// ComputeFee runs the full pipeline: context resolution, structure
// selection, line-item evaluation, supplemental charges, reductions and the
// reconciling upsert. Stages run strictly in order; each consumes the
// previous stage's running total.
func (s *feeCalculationServiceImpl) ComputeFee(ctx context.Context, input ComputeFeeInput) (decimal.Decimal, error) {
	fc, err := s.resolveContext(ctx, input)
	if err != nil {
		return decimal.Zero, err
	}

	structure, err := s.selectStructure(ctx, input.SchoolID, input.ClassID, fc.term)
	if err != nil {
		return decimal.Zero, err
	}

	total, err := s.calculateBaseCharges(ctx, structure, fc)
	if err != nil {
		return decimal.Zero, err
	}

	total, err = s.addSupplementalCharges(ctx, input, fc, total)
	if err != nil {
		return decimal.Zero, err
	}

	total, err = s.applyReductions(ctx, input, fc, total)
	if err != nil {
		return decimal.Zero, err
	}

	total = total.Round(2)

	if err := s.feeRepo.UpsertExpected(ctx, input.StudentID, input.TermID, total); err != nil {
		return decimal.Zero, fmt.Errorf("error reconciling fee record: %w", err)
	}

	return total, nil
}

// ComputeFeeForStudent derives the computation inputs from the student's own
// state: current class assignment, term club links and transport assignment.
// A student with no current class has nothing to be billed against and
// yields zero.
func (s *feeCalculationServiceImpl) ComputeFeeForStudent(ctx context.Context, schoolID, studentID, termID int64) (decimal.Decimal, error) {
	student, err := s.studentRepo.GetByID(ctx, schoolID, studentID)
	if err != nil {
		return decimal.Zero, err
	}

	assignment, err := s.studentRepo.GetCurrentClassAssignment(ctx, studentID)
	if err != nil {
		return decimal.Zero, err
	}
	if assignment == nil {
		return decimal.Zero, nil
	}

	clubIDs, err := s.studentRepo.GetClubActivityIDs(ctx, studentID, termID)
	if err != nil {
		return decimal.Zero, err
	}

	return s.ComputeFee(ctx, ComputeFeeInput{
		SchoolID:           schoolID,
		StudentID:          studentID,
		ClassID:            assignment.ClassID,
		TermID:             termID,
		ClubActivityIDs:    clubIDs,
		TransportRouteID:   student.TransportRouteID,
		IncludeDiscounts:   true,
		IncludeAdjustments: true,
	})
}

// resolveContext loads and tenant-checks the term, class and student, then
// determines the student's enrollment state for the term's academic year
func (s *feeCalculationServiceImpl) resolveContext(ctx context.Context, input ComputeFeeInput) (*feeContext, error) {
	term, err := s.academicRepo.GetTermByID(ctx, input.SchoolID, input.TermID)
	if err != nil {
		return nil, err
	}

	class, err := s.academicRepo.GetClassByID(ctx, input.SchoolID, input.ClassID)
	if err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByID(ctx, input.SchoolID, input.StudentID)
	if err != nil {
		return nil, err
	}

	fc := &feeContext{
		term:    term,
		class:   class,
		student: student,
	}

	enrollment, err := s.studentRepo.GetOpenEnrollment(ctx, input.StudentID, term.AcademicYearID)
	if err != nil {
		return nil, err
	}

	if enrollment != nil {
		// Strict equality: a student who enrolled two terms ago is never
		// "new" again.
		fc.isNewStudent = enrollment.TermID == term.ID

		enrollmentTerm, err := s.academicRepo.GetTermByID(ctx, input.SchoolID, enrollment.TermID)
		if err != nil {
			return nil, fmt.Errorf("error resolving enrollment term: %w", err)
		}
		fc.enrollmentTerm = enrollmentTerm
	}

	return fc, nil
}

// addSupplementalCharges adds club activity and transport costs to the
// running total, independent of the base structure
func (s *feeCalculationServiceImpl) addSupplementalCharges(ctx context.Context, input ComputeFeeInput, fc *feeContext, total decimal.Decimal) (decimal.Decimal, error) {
	if len(input.ClubActivityIDs) > 0 {
		requested := dedupeIDs(input.ClubActivityIDs)

		activities, err := s.clubRepo.GetByIDs(ctx, input.SchoolID, requested)
		if err != nil {
			return decimal.Zero, err
		}
		if len(activities) < len(requested) {
			return decimal.Zero, fmt.Errorf("%w: requested activity missing or belongs to another school", apperrors.ErrClubActivityNotFound)
		}

		for _, activity := range activities {
			if activity.TermID == fc.term.ID {
				total = total.Add(activity.CostPerTerm)
			}
		}
	}

	if input.TransportRouteID != nil {
		route, err := s.transportRepo.GetByID(ctx, input.SchoolID, *input.TransportRouteID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(route.CostFor(fc.student.TransportType))
	}

	return total, nil
}

// applyReductions applies global discounts then per-student adjustments,
// each computed off the running total at that point and floored at zero
func (s *feeCalculationServiceImpl) applyReductions(ctx context.Context, input ComputeFeeInput, fc *feeContext, total decimal.Decimal) (decimal.Decimal, error) {
	if input.IncludeDiscounts {
		discounts, err := s.reductionRepo.GetActiveByTerm(ctx, input.SchoolID, fc.term.ID)
		if err != nil {
			return decimal.Zero, err
		}

		for _, d := range discounts {
			if !d.AppliesToStudent(fc.class.CampusID, fc.class.ID) {
				continue
			}
			total = Reduction{Type: d.DiscountType, Value: d.DiscountValue}.Apply(total)
		}
	}

	if input.IncludeAdjustments {
		adjustments, err := s.reductionRepo.GetAdjustmentsByStudentAndTerm(ctx, input.SchoolID, input.StudentID, fc.term.ID)
		if err != nil {
			return decimal.Zero, err
		}

		for _, a := range adjustments {
			total = Reduction{Type: a.AdjustmentType, Value: a.AdjustmentValue}.Apply(total)
		}
	}

	return total, nil
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func logRepair(event string, fields map[string]interface{}) {
	e := logger.Warn().Str("event", event)
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Msg("Recoverable data inconsistency")
}
