package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

// DiscountRepository handles database operations for global discounts and
// per-student fee adjustments
type DiscountRepository struct {
	db *pgxpool.Pool
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// GetActiveByTerm returns every active global discount of a school for a
// term with its campus/class scope sets loaded, in creation order. All
// matching discounts get applied; there is no single-active rule.
func (r *DiscountRepository) GetActiveByTerm(ctx context.Context, schoolID, termID int64) ([]*models.GlobalDiscount, error) {
	query := `
		SELECT id, school_id, term_id, name, discount_type, discount_value,
		       applies_to, is_active, condition_type, condition_value, created_at
		FROM global_discounts
		WHERE school_id = $1 AND term_id = $2 AND is_active = TRUE
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, schoolID, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discounts []*models.GlobalDiscount
	for rows.Next() {
		var d models.GlobalDiscount
		if err := rows.Scan(
			&d.ID,
			&d.SchoolID,
			&d.TermID,
			&d.Name,
			&d.DiscountType,
			&d.DiscountValue,
			&d.AppliesTo,
			&d.IsActive,
			&d.ConditionType,
			&d.ConditionValue,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		discounts = append(discounts, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, d := range discounts {
		if err := r.loadScopeSets(ctx, d); err != nil {
			return nil, err
		}
	}

	return discounts, nil
}

// loadScopeSets fills the campus and class id sets of a scoped discount
func (r *DiscountRepository) loadScopeSets(ctx context.Context, d *models.GlobalDiscount) error {
	switch d.AppliesTo {
	case models.DiscountSelectedCampuses:
		ids, err := r.collectIDs(ctx,
			`SELECT campus_id FROM global_discount_campuses WHERE global_discount_id = $1 ORDER BY campus_id ASC`, d.ID)
		if err != nil {
			return fmt.Errorf("error loading discount campuses: %w", err)
		}
		d.CampusIDs = ids
	case models.DiscountSelectedClasses:
		ids, err := r.collectIDs(ctx,
			`SELECT class_id FROM global_discount_classes WHERE global_discount_id = $1 ORDER BY class_id ASC`, d.ID)
		if err != nil {
			return fmt.Errorf("error loading discount classes: %w", err)
		}
		d.ClassIDs = ids
	}
	return nil
}

func (r *DiscountRepository) collectIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Create inserts a discount with its scope junction rows in one transaction
func (r *DiscountRepository) Create(ctx context.Context, d *models.GlobalDiscount) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO global_discounts
			(school_id, term_id, name, discount_type, discount_value, applies_to,
			 is_active, condition_type, condition_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		d.SchoolID,
		d.TermID,
		d.Name,
		d.DiscountType,
		d.DiscountValue,
		d.AppliesTo,
		d.IsActive,
		d.ConditionType,
		d.ConditionValue,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating global discount: %w", err)
	}

	for _, campusID := range d.CampusIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO global_discount_campuses (global_discount_id, campus_id)
			VALUES ($1, $2)`, d.ID, campusID); err != nil {
			return fmt.Errorf("error linking discount campus: %w", err)
		}
	}

	for _, classID := range d.ClassIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO global_discount_classes (global_discount_id, class_id)
			VALUES ($1, $2)`, d.ID, classID); err != nil {
			return fmt.Errorf("error linking discount class: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetActive toggles a discount
func (r *DiscountRepository) SetActive(ctx context.Context, schoolID, id int64, active bool) error {
	query := `UPDATE global_discounts SET is_active = $1 WHERE id = $2 AND school_id = $3`

	cmdTag, err := r.db.Exec(ctx, query, active, id, schoolID)
	if err != nil {
		return fmt.Errorf("error updating discount: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDiscountNotFound
	}

	return nil
}

// CreateAdjustment inserts a per-student fee adjustment
func (r *DiscountRepository) CreateAdjustment(ctx context.Context, a *models.FeeAdjustment) error {
	query := `
		INSERT INTO fee_adjustments
			(school_id, student_id, term_id, adjustment_type, adjustment_value, reason, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		a.SchoolID,
		a.StudentID,
		a.TermID,
		a.AdjustmentType,
		a.AdjustmentValue,
		a.Reason,
		a.CreatedByUserID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating fee adjustment: %w", err)
	}

	return nil
}

// GetAdjustmentsByStudentAndTerm returns all adjustments for a student in a
// term, in creation order. Every one of them gets applied.
func (r *DiscountRepository) GetAdjustmentsByStudentAndTerm(ctx context.Context, schoolID, studentID, termID int64) ([]*models.FeeAdjustment, error) {
	query := `
		SELECT id, school_id, student_id, term_id, adjustment_type, adjustment_value, reason, created_by_user_id, created_at
		FROM fee_adjustments
		WHERE school_id = $1 AND student_id = $2 AND term_id = $3
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, schoolID, studentID, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []*models.FeeAdjustment
	for rows.Next() {
		var a models.FeeAdjustment
		if err := rows.Scan(
			&a.ID,
			&a.SchoolID,
			&a.StudentID,
			&a.TermID,
			&a.AdjustmentType,
			&a.AdjustmentValue,
			&a.Reason,
			&a.CreatedByUserID,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		adjustments = append(adjustments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return adjustments, nil
}

// DeleteAdjustment removes an adjustment
func (r *DiscountRepository) DeleteAdjustment(ctx context.Context, schoolID, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM fee_adjustments WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return fmt.Errorf("error deleting fee adjustment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAdjustmentNotFound
	}

	return nil
}

// GetDiscountByID retrieves a discount with scope sets, scoped to a school
func (r *DiscountRepository) GetDiscountByID(ctx context.Context, schoolID, id int64) (*models.GlobalDiscount, error) {
	query := `
		SELECT id, school_id, term_id, name, discount_type, discount_value,
		       applies_to, is_active, condition_type, condition_value, created_at
		FROM global_discounts
		WHERE id = $1 AND school_id = $2
	`

	var d models.GlobalDiscount
	err := r.db.QueryRow(ctx, query, id, schoolID).Scan(
		&d.ID,
		&d.SchoolID,
		&d.TermID,
		&d.Name,
		&d.DiscountType,
		&d.DiscountValue,
		&d.AppliesTo,
		&d.IsActive,
		&d.ConditionType,
		&d.ConditionValue,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("error retrieving discount: %w", err)
	}

	if err := r.loadScopeSets(ctx, &d); err != nil {
		return nil, err
	}

	return &d, nil
}
