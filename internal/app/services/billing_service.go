package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/repositories"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

// BillingService handles the money-facing side of fees: discounts and
// adjustments, payment recording and fee queries. Expected amounts are
// owned by FeeCalculationService; this service never writes them.
type BillingService interface {
	CreateGlobalDiscount(ctx context.Context, discount *models.GlobalDiscount) error
	SetDiscountActive(ctx context.Context, schoolID, discountID int64, active bool) error
	GetDiscountByID(ctx context.Context, schoolID, discountID int64) (*models.GlobalDiscount, error)
	GetActiveDiscountsByTerm(ctx context.Context, schoolID, termID int64) ([]*models.GlobalDiscount, error)

	CreateAdjustment(ctx context.Context, adjustment *models.FeeAdjustment) error
	DeleteAdjustment(ctx context.Context, schoolID, adjustmentID int64) error
	GetAdjustments(ctx context.Context, schoolID, studentID, termID int64) ([]*models.FeeAdjustment, error)

	RecordPayment(ctx context.Context, schoolID int64, input RecordPaymentInput) (*models.Fee, error)
	MarkOneOffPaid(ctx context.Context, schoolID, studentID, feeLineItemID, academicYearID int64) error
	GetFee(ctx context.Context, schoolID, studentID, termID int64) (*models.Fee, error)
	GetFeesByTerm(ctx context.Context, schoolID, termID int64, offset uint64, limit int) ([]*models.Fee, int64, error)
	GetPayments(ctx context.Context, schoolID, studentID, termID int64) ([]*models.PaymentHistory, error)
}

// RecordPaymentInput carries a single payment against a student's term fee
type RecordPaymentInput struct {
	StudentID int64
	TermID    int64
	Amount    decimal.Decimal
	Method    string
	PaidAt    time.Time
	CreatedBy int64
}

// billingServiceImpl implements BillingService
type billingServiceImpl struct {
	feeRepo       *repositories.FeeRepository
	discountRepo  *repositories.DiscountRepository
	studentRepo   *repositories.StudentRepository
	academicRepo  *repositories.AcademicRepository
	structureRepo *repositories.FeeStructureRepository
}

// NewBillingService creates a new billing service instance
func NewBillingService(
	feeRepo *repositories.FeeRepository,
	discountRepo *repositories.DiscountRepository,
	studentRepo *repositories.StudentRepository,
	academicRepo *repositories.AcademicRepository,
	structureRepo *repositories.FeeStructureRepository,
) BillingService {
	return &billingServiceImpl{
		feeRepo:       feeRepo,
		discountRepo:  discountRepo,
		studentRepo:   studentRepo,
		academicRepo:  academicRepo,
		structureRepo: structureRepo,
	}
}

// CreateGlobalDiscount validates and stores a tenant-wide discount rule
func (s *billingServiceImpl) CreateGlobalDiscount(ctx context.Context, discount *models.GlobalDiscount) error {
	if strings.TrimSpace(discount.Name) == "" {
		return fmt.Errorf("%w: discount name cannot be empty", apperrors.ErrValidationFailed)
	}

	if err := validateReduction(discount.DiscountType, discount.DiscountValue); err != nil {
		return err
	}

	switch discount.AppliesTo {
	case models.DiscountAllStudents:
	case models.DiscountSelectedCampuses:
		if len(discount.CampusIDs) == 0 {
			return fmt.Errorf("%w: campus-scoped discount requires at least one campus", apperrors.ErrValidationFailed)
		}
	case models.DiscountSelectedClasses:
		if len(discount.ClassIDs) == 0 {
			return fmt.Errorf("%w: class-scoped discount requires at least one class", apperrors.ErrValidationFailed)
		}
	default:
		return fmt.Errorf("%w: unknown discount scope %q", apperrors.ErrValidationFailed, discount.AppliesTo)
	}

	if _, err := s.academicRepo.GetTermByID(ctx, discount.SchoolID, discount.TermID); err != nil {
		return err
	}

	return s.discountRepo.Create(ctx, discount)
}

// SetDiscountActive toggles a discount without deleting its audit trail
func (s *billingServiceImpl) SetDiscountActive(ctx context.Context, schoolID, discountID int64, active bool) error {
	return s.discountRepo.SetActive(ctx, schoolID, discountID, active)
}

// GetDiscountByID retrieves a discount with its scope sets loaded
func (s *billingServiceImpl) GetDiscountByID(ctx context.Context, schoolID, discountID int64) (*models.GlobalDiscount, error) {
	return s.discountRepo.GetDiscountByID(ctx, schoolID, discountID)
}

// GetActiveDiscountsByTerm lists the active discounts for a term
func (s *billingServiceImpl) GetActiveDiscountsByTerm(ctx context.Context, schoolID, termID int64) ([]*models.GlobalDiscount, error) {
	return s.discountRepo.GetActiveByTerm(ctx, schoolID, termID)
}

// CreateAdjustment stores a per-student reduction. A reason is required.
func (s *billingServiceImpl) CreateAdjustment(ctx context.Context, adjustment *models.FeeAdjustment) error {
	if strings.TrimSpace(adjustment.Reason) == "" {
		return fmt.Errorf("%w: adjustment reason cannot be empty", apperrors.ErrValidationFailed)
	}

	if err := validateReduction(adjustment.AdjustmentType, adjustment.AdjustmentValue); err != nil {
		return err
	}

	if _, err := s.studentRepo.GetByID(ctx, adjustment.SchoolID, adjustment.StudentID); err != nil {
		return err
	}

	if _, err := s.academicRepo.GetTermByID(ctx, adjustment.SchoolID, adjustment.TermID); err != nil {
		return err
	}

	return s.discountRepo.CreateAdjustment(ctx, adjustment)
}

// DeleteAdjustment removes an adjustment
func (s *billingServiceImpl) DeleteAdjustment(ctx context.Context, schoolID, adjustmentID int64) error {
	return s.discountRepo.DeleteAdjustment(ctx, schoolID, adjustmentID)
}

// GetAdjustments lists a student's adjustments for a term
func (s *billingServiceImpl) GetAdjustments(ctx context.Context, schoolID, studentID, termID int64) ([]*models.FeeAdjustment, error) {
	return s.discountRepo.GetAdjustmentsByStudentAndTerm(ctx, schoolID, studentID, termID)
}

// RecordPayment appends a payment to the fee's ledger and bumps paid_amount.
// The fee row must already exist: payments are only accepted against a
// reconciled expected amount.
func (s *billingServiceImpl) RecordPayment(ctx context.Context, schoolID int64, input RecordPaymentInput) (*models.Fee, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidationFailed)
	}

	fee, err := s.feeRepo.GetByStudentAndTerm(ctx, schoolID, input.StudentID, input.TermID)
	if err != nil {
		return nil, err
	}

	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	payment := &models.PaymentHistory{
		FeeID:     fee.ID,
		Amount:    input.Amount,
		Method:    input.Method,
		PaidAt:    paidAt,
		CreatedBy: input.CreatedBy,
	}

	if err := s.feeRepo.RecordPayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return s.feeRepo.GetByStudentAndTerm(ctx, schoolID, input.StudentID, input.TermID)
}

// MarkOneOffPaid records that a one-off or annual line item has been settled
// for the student in the given academic year. Subsequent fee calculations in
// that year will skip the charge.
func (s *billingServiceImpl) MarkOneOffPaid(ctx context.Context, schoolID, studentID, feeLineItemID, academicYearID int64) error {
	if _, err := s.studentRepo.GetByID(ctx, schoolID, studentID); err != nil {
		return err
	}

	if _, err := s.academicRepo.GetAcademicYearByID(ctx, schoolID, academicYearID); err != nil {
		return err
	}

	return s.feeRepo.MarkOneOffPaid(ctx, studentID, feeLineItemID, academicYearID, time.Now())
}

// GetFee retrieves a student's fee for a term
func (s *billingServiceImpl) GetFee(ctx context.Context, schoolID, studentID, termID int64) (*models.Fee, error) {
	return s.feeRepo.GetByStudentAndTerm(ctx, schoolID, studentID, termID)
}

// GetFeesByTerm lists the fees of a term across the school
func (s *billingServiceImpl) GetFeesByTerm(ctx context.Context, schoolID, termID int64, offset uint64, limit int) ([]*models.Fee, int64, error) {
	return s.feeRepo.GetByTerm(ctx, schoolID, termID, offset, limit)
}

// GetPayments lists the payment ledger for a student's term fee
func (s *billingServiceImpl) GetPayments(ctx context.Context, schoolID, studentID, termID int64) ([]*models.PaymentHistory, error) {
	fee, err := s.feeRepo.GetByStudentAndTerm(ctx, schoolID, studentID, termID)
	if err != nil {
		return nil, err
	}
	return s.feeRepo.GetPayments(ctx, fee.ID)
}

// validateReduction checks a discount or adjustment value against its type
func validateReduction(amountType models.AmountType, value decimal.Decimal) error {
	if value.IsNegative() {
		return fmt.Errorf("%w: reduction value cannot be negative", apperrors.ErrValidationFailed)
	}
	switch amountType {
	case models.AmountFixed:
	case models.AmountPercentage:
		if value.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percentage reduction cannot exceed 100", apperrors.ErrValidationFailed)
		}
	default:
		return fmt.Errorf("%w: unknown reduction type %q", apperrors.ErrValidationFailed, amountType)
	}
	return nil
}
