package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
)

// ComputeFeeRequest asks the engine for a student's expected fee in a term
// with caller-controlled inputs. Club activity IDs outside the term are
// accepted but contribute nothing. The include flags default to true when
// omitted; callers must opt out explicitly.
type ComputeFeeRequest struct {
	StudentID          int64   `json:"studentId" binding:"required,min=1"`
	TermID             int64   `json:"termId" binding:"required,min=1"`
	ClassID            int64   `json:"classId" binding:"required,min=1"`
	ClubActivityIDs    []int64 `json:"clubActivityIds,omitempty"`
	TransportRouteID   *int64  `json:"transportRouteId,omitempty" binding:"omitempty,min=1"`
	IncludeDiscounts   *bool   `json:"includeDiscounts,omitempty"`
	IncludeAdjustments *bool   `json:"includeAdjustments,omitempty"`
}

// DiscountsIncluded reports whether global discounts should apply,
// treating an omitted flag as true.
func (r *ComputeFeeRequest) DiscountsIncluded() bool {
	return r.IncludeDiscounts == nil || *r.IncludeDiscounts
}

// AdjustmentsIncluded reports whether per-student adjustments should apply,
// treating an omitted flag as true.
func (r *ComputeFeeRequest) AdjustmentsIncluded() bool {
	return r.IncludeAdjustments == nil || *r.IncludeAdjustments
}

// ComputeFeeForStudentRequest asks the engine to resolve class and club
// inputs from the student's current records
type ComputeFeeForStudentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1"`
	TermID    int64 `json:"termId" binding:"required,min=1"`
}

// ComputedFeeResponse carries the engine result together with the persisted
// fee row it reconciled
type ComputedFeeResponse struct {
	StudentID      int64           `json:"studentId"`
	TermID         int64           `json:"termId"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	Fee            *FeeResponse    `json:"fee,omitempty"`
}

// FeeResponse represents a persisted fee row
type FeeResponse struct {
	ID             int64           `json:"id"`
	ReferenceNo    string          `json:"referenceNo"`
	StudentID      int64           `json:"studentId"`
	TermID         int64           `json:"termId"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	PaidAmount     decimal.Decimal `json:"paidAmount"`
	PendingAmount  decimal.Decimal `json:"pendingAmount"`
}

// FromFee converts a models.Fee to a FeeResponse
func FromFee(fee *models.Fee) *FeeResponse {
	if fee == nil {
		return nil
	}
	return &FeeResponse{
		ID:             fee.ID,
		ReferenceNo:    fee.ReferenceNo,
		StudentID:      fee.StudentID,
		TermID:         fee.TermID,
		ExpectedAmount: fee.ExpectedAmount,
		PaidAmount:     fee.PaidAmount,
		PendingAmount:  fee.PendingAmount(),
	}
}

// FromFees converts a slice of fee models
func FromFees(fees []*models.Fee) []*FeeResponse {
	out := make([]*FeeResponse, 0, len(fees))
	for _, fee := range fees {
		out = append(out, FromFee(fee))
	}
	return out
}

// RecordPaymentRequest appends a payment against a student's term fee
type RecordPaymentRequest struct {
	StudentID int64           `json:"studentId" binding:"required,min=1"`
	TermID    int64           `json:"termId" binding:"required,min=1"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method,omitempty"`
	PaidAt    string          `json:"paidAt,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// MarkOneOffPaidRequest settles a one-off or annual line item for a student
// within an academic year
type MarkOneOffPaidRequest struct {
	StudentID      int64 `json:"studentId" binding:"required,min=1"`
	FeeLineItemID  int64 `json:"feeLineItemId" binding:"required,min=1"`
	AcademicYearID int64 `json:"academicYearId" binding:"required,min=1"`
}
