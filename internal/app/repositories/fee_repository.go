package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

// FeeRepository handles database operations for fee records, payments and
// one-off fee satisfaction tracking
type FeeRepository struct {
	db *pgxpool.Pool
}

// NewFeeRepository creates a new fee repository
func NewFeeRepository(db *pgxpool.Pool) *FeeRepository {
	return &FeeRepository{db: db}
}

// UpsertExpected idempotently ensures a fee row exists with the computed
// expected amount. The conditional update leaves updated_at untouched when
// the amount did not change, and paid_amount is never written here.
func (r *FeeRepository) UpsertExpected(ctx context.Context, studentID, termID int64, expectedAmount decimal.Decimal) error {
	query := `
		INSERT INTO fees (reference_no, student_id, term_id, expected_amount, paid_amount)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (student_id, term_id) DO UPDATE
		SET expected_amount = EXCLUDED.expected_amount,
		    updated_at = CURRENT_TIMESTAMP
		WHERE fees.expected_amount IS DISTINCT FROM EXCLUDED.expected_amount
	`

	if _, err := r.db.Exec(ctx, query, uuid.New().String(), studentID, termID, expectedAmount); err != nil {
		return fmt.Errorf("error upserting fee record: %w", err)
	}

	return nil
}

// GetByStudentAndTerm retrieves the fee record for a student and term
func (r *FeeRepository) GetByStudentAndTerm(ctx context.Context, schoolID, studentID, termID int64) (*models.Fee, error) {
	query := `
		SELECT f.id, f.reference_no, f.student_id, f.term_id, f.expected_amount, f.paid_amount, f.created_at, f.updated_at
		FROM fees f
		JOIN students s ON s.id = f.student_id
		WHERE f.student_id = $1 AND f.term_id = $2 AND s.school_id = $3
	`

	var fee models.Fee
	err := r.db.QueryRow(ctx, query, studentID, termID, schoolID).Scan(
		&fee.ID,
		&fee.ReferenceNo,
		&fee.StudentID,
		&fee.TermID,
		&fee.ExpectedAmount,
		&fee.PaidAmount,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeNotFound
		}
		return nil, fmt.Errorf("error retrieving fee record: %w", err)
	}

	return &fee, nil
}

// GetByTerm lists fee records of a school for a term
func (r *FeeRepository) GetByTerm(ctx context.Context, schoolID, termID int64, offset uint64, limit int) ([]*models.Fee, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM fees f
		JOIN students s ON s.id = f.student_id
		WHERE f.term_id = $1 AND s.school_id = $2`,
		termID, schoolID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting fee records: %w", err)
	}

	query := `
		SELECT f.id, f.reference_no, f.student_id, f.term_id, f.expected_amount, f.paid_amount, f.created_at, f.updated_at
		FROM fees f
		JOIN students s ON s.id = f.student_id
		WHERE f.term_id = $1 AND s.school_id = $2
		ORDER BY f.id ASC
		OFFSET $3 LIMIT $4
	`

	rows, err := r.db.Query(ctx, query, termID, schoolID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var fees []*models.Fee
	for rows.Next() {
		var fee models.Fee
		if err := rows.Scan(
			&fee.ID,
			&fee.ReferenceNo,
			&fee.StudentID,
			&fee.TermID,
			&fee.ExpectedAmount,
			&fee.PaidAmount,
			&fee.CreatedAt,
			&fee.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		fees = append(fees, &fee)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return fees, total, nil
}

// RecordPayment appends a payment ledger entry and increases the fee's paid
// amount in one transaction. This is the only writer of paid_amount.
func (r *FeeRepository) RecordPayment(ctx context.Context, payment *models.PaymentHistory) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO payment_history (fee_id, receipt_no, amount, method, paid_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		payment.FeeID,
		payment.ReceiptNo,
		payment.Amount,
		payment.Method,
		payment.PaidAt,
		payment.CreatedBy,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("error recording payment: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE fees
		SET paid_amount = paid_amount + $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`,
		payment.Amount, payment.FeeID)
	if err != nil {
		return fmt.Errorf("error updating paid amount: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeeNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IsOneOffSatisfied reports whether a one-off or annual line item has a paid
// satisfaction row for the student in the academic year. Rows with a null
// paid_at are recorded-but-unpaid and do not satisfy the charge.
func (r *FeeRepository) IsOneOffSatisfied(ctx context.Context, studentID, feeLineItemID, academicYearID int64) (bool, error) {
	var satisfied bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM student_one_off_fees
			WHERE student_id = $1 AND fee_line_item_id = $2 AND academic_year_id = $3
			  AND paid_at IS NOT NULL
		)
	`

	if err := r.db.QueryRow(ctx, query, studentID, feeLineItemID, academicYearID).Scan(&satisfied); err != nil {
		return false, fmt.Errorf("error checking one-off fee satisfaction: %w", err)
	}

	return satisfied, nil
}

// MarkOneOffPaid upserts the satisfaction row for a one-off or annual line
// item, stamping paid_at
func (r *FeeRepository) MarkOneOffPaid(ctx context.Context, studentID, feeLineItemID, academicYearID int64, paidAt time.Time) error {
	query := `
		INSERT INTO student_one_off_fees (student_id, fee_line_item_id, academic_year_id, paid_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, fee_line_item_id, academic_year_id) DO UPDATE
		SET paid_at = EXCLUDED.paid_at
	`

	if _, err := r.db.Exec(ctx, query, studentID, feeLineItemID, academicYearID, paidAt); err != nil {
		return fmt.Errorf("error marking one-off fee paid: %w", err)
	}

	return nil
}

// GetPayments lists the payment ledger of a fee, oldest first
func (r *FeeRepository) GetPayments(ctx context.Context, feeID int64) ([]*models.PaymentHistory, error) {
	query := `
		SELECT id, fee_id, receipt_no, amount, method, paid_at, created_by
		FROM payment_history
		WHERE fee_id = $1
		ORDER BY paid_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, feeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentHistory
	for rows.Next() {
		var payment models.PaymentHistory
		if err := rows.Scan(
			&payment.ID,
			&payment.FeeID,
			&payment.ReceiptNo,
			&payment.Amount,
			&payment.Method,
			&payment.PaidAt,
			&payment.CreatedBy,
		); err != nil {
			return nil, err
		}
		payments = append(payments, &payment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return payments, nil
}
