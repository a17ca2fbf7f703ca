package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee is the persisted billing outcome for a student and term, unique per
// (student, term). ExpectedAmount is written only by the fee calculation
// reconciler; PaidAmount is written only by the payment-recording path.
type Fee struct {
	ID             int64           `json:"id"`
	ReferenceNo    string          `json:"reference_no"`
	StudentID      int64           `json:"student_id"`
	TermID         int64           `json:"term_id"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PendingAmount derives the outstanding balance, never negative
func (f *Fee) PendingAmount() decimal.Decimal {
	pending := f.ExpectedAmount.Sub(f.PaidAmount)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// PaymentHistory is an append-only ledger entry against a fee. Rows are
// never deleted; they are the audit trail for PaidAmount.
type PaymentHistory struct {
	ID        int64           `json:"id"`
	FeeID     int64           `json:"fee_id"`
	ReceiptNo string          `json:"receipt_no"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method,omitempty"`
	PaidAt    time.Time       `json:"paid_at"`
	CreatedBy int64           `json:"created_by"`
}

// StudentOneOffFee tracks whether a one-off or annual line item has been
// satisfied for a student within an academic year. A nil PaidAt means the
// charge was recorded but not yet paid and does not count as satisfied.
type StudentOneOffFee struct {
	ID             int64      `json:"id"`
	StudentID      int64      `json:"student_id"`
	FeeLineItemID  int64      `json:"fee_line_item_id"`
	AcademicYearID int64      `json:"academic_year_id"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
}
