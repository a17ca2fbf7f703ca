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

// FeeStructureRepository handles database operations for fee structures,
// their line items and their class links
type FeeStructureRepository struct {
	db *pgxpool.Pool
}

// NewFeeStructureRepository creates a new fee structure repository
func NewFeeStructureRepository(db *pgxpool.Pool) *FeeStructureRepository {
	return &FeeStructureRepository{db: db}
}

const feeStructureColumns = `
	fs.id, fs.school_id, fs.campus_id, fs.academic_year_id, fs.term_id,
	fs.structure_name, fs.structure_scope, fs.version, fs.parent_structure_id,
	fs.status, fs.base_fee, fs.effective_from, fs.effective_to, fs.created_at`

func scanFeeStructure(row pgx.Row) (*models.FeeStructure, error) {
	var fs models.FeeStructure
	err := row.Scan(
		&fs.ID,
		&fs.SchoolID,
		&fs.CampusID,
		&fs.AcademicYearID,
		&fs.TermID,
		&fs.StructureName,
		&fs.StructureScope,
		&fs.Version,
		&fs.ParentStructureID,
		&fs.Status,
		&fs.BaseFee,
		&fs.EffectiveFrom,
		&fs.EffectiveTo,
		&fs.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

// FindTermScoped finds the active TERM-scoped structure linked to a class
// through the junction table for an exact term. YEAR-scoped rows covering
// the same term are left to FindYearScoped so they never shadow a TERM
// match. More than one active row should not exist but is tolerated; the
// most recently created wins.
func (r *FeeStructureRepository) FindTermScoped(ctx context.Context, schoolID, classID, termID int64) (*models.FeeStructure, error) {
	query := `
		SELECT ` + feeStructureColumns + `
		FROM fee_structures fs
		JOIN fee_structure_classes fsc ON fsc.fee_structure_id = fs.id
		WHERE fs.school_id = $1 AND fsc.class_id = $2 AND fs.term_id = $3
		  AND fs.structure_scope = $4 AND fs.status = $5
		ORDER BY fs.created_at DESC, fs.id DESC
		LIMIT 1
	`

	fs, err := scanFeeStructure(r.db.QueryRow(ctx, query, schoolID, classID, termID, models.ScopeTerm, models.StructureActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding term-scoped fee structure: %w", err)
	}

	return fs, nil
}

// FindYearScoped finds the active YEAR-scoped structure for the class and
// academic year. YEAR structures are still organized per term row, so the
// exact term id is part of the match.
func (r *FeeStructureRepository) FindYearScoped(ctx context.Context, schoolID, classID, academicYearID, termID int64) (*models.FeeStructure, error) {
	query := `
		SELECT ` + feeStructureColumns + `
		FROM fee_structures fs
		JOIN fee_structure_classes fsc ON fsc.fee_structure_id = fs.id
		WHERE fs.school_id = $1 AND fsc.class_id = $2 AND fs.academic_year_id = $3
		  AND fs.term_id = $4 AND fs.structure_scope = $5 AND fs.status = $6
		ORDER BY fs.created_at DESC, fs.id DESC
		LIMIT 1
	`

	fs, err := scanFeeStructure(r.db.QueryRow(ctx, query, schoolID, classID, academicYearID, termID, models.ScopeYear, models.StructureActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding year-scoped fee structure: %w", err)
	}

	return fs, nil
}

// FindLegacyByClassColumn finds structures that predate the junction table
// and still reference the class through the deprecated class_id column
func (r *FeeStructureRepository) FindLegacyByClassColumn(ctx context.Context, schoolID, classID, termID int64) (*models.FeeStructure, error) {
	query := `
		SELECT ` + feeStructureColumns + `
		FROM fee_structures fs
		WHERE fs.school_id = $1 AND fs.class_id = $2 AND fs.term_id = $3 AND fs.status = $4
		ORDER BY fs.created_at DESC, fs.id DESC
		LIMIT 1
	`

	fs, err := scanFeeStructure(r.db.QueryRow(ctx, query, schoolID, classID, termID, models.StructureActive))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding legacy fee structure: %w", err)
	}

	return fs, nil
}

// InsertClassLink backfills or creates a junction row. The insert is
// idempotent so repeated self-healing calls are harmless.
func (r *FeeStructureRepository) InsertClassLink(ctx context.Context, feeStructureID, classID int64) error {
	query := `
		INSERT INTO fee_structure_classes (fee_structure_id, class_id)
		VALUES ($1, $2)
		ON CONFLICT (fee_structure_id, class_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, feeStructureID, classID); err != nil {
		return fmt.Errorf("error inserting fee structure class link: %w", err)
	}

	return nil
}

// GetLineItems loads the line items of a structure in display order
func (r *FeeStructureRepository) GetLineItems(ctx context.Context, feeStructureID int64) ([]*models.FeeLineItem, error) {
	query := `
		SELECT id, fee_structure_id, item_name, amount, is_annual, is_one_off, display_order
		FROM fee_line_items
		WHERE fee_structure_id = $1
		ORDER BY display_order ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, feeStructureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.FeeLineItem
	for rows.Next() {
		var item models.FeeLineItem
		if err := rows.Scan(
			&item.ID,
			&item.FeeStructureID,
			&item.ItemName,
			&item.Amount,
			&item.IsAnnual,
			&item.IsOneOff,
			&item.DisplayOrder,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetByID retrieves a structure with its line items, scoped to a school
func (r *FeeStructureRepository) GetByID(ctx context.Context, schoolID, id int64) (*models.FeeStructure, error) {
	query := `
		SELECT ` + feeStructureColumns + `
		FROM fee_structures fs
		WHERE fs.id = $1 AND fs.school_id = $2
	`

	fs, err := scanFeeStructure(r.db.QueryRow(ctx, query, id, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeeStructureNotFound
		}
		return nil, fmt.Errorf("error retrieving fee structure: %w", err)
	}

	fs.LineItems, err = r.GetLineItems(ctx, fs.ID)
	if err != nil {
		return nil, err
	}

	return fs, nil
}

// Create inserts a structure with its line items and class links in one
// transaction
func (r *FeeStructureRepository) Create(ctx context.Context, fs *models.FeeStructure, classIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO fee_structures
			(school_id, campus_id, academic_year_id, term_id, structure_name,
			 structure_scope, version, parent_structure_id, status, base_fee,
			 effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`,
		fs.SchoolID,
		fs.CampusID,
		fs.AcademicYearID,
		fs.TermID,
		fs.StructureName,
		fs.StructureScope,
		fs.Version,
		fs.ParentStructureID,
		fs.Status,
		fs.BaseFee,
		fs.EffectiveFrom,
		fs.EffectiveTo,
	).Scan(&fs.ID, &fs.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating fee structure: %w", err)
	}

	for _, item := range fs.LineItems {
		item.FeeStructureID = fs.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO fee_line_items (fee_structure_id, item_name, amount, is_annual, is_one_off, display_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			item.FeeStructureID,
			item.ItemName,
			item.Amount,
			item.IsAnnual,
			item.IsOneOff,
			item.DisplayOrder,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("error creating fee line item: %w", err)
		}
	}

	for _, classID := range classIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO fee_structure_classes (fee_structure_id, class_id)
			VALUES ($1, $2)
			ON CONFLICT (fee_structure_id, class_id) DO NOTHING`,
			fs.ID, classID)
		if err != nil {
			return fmt.Errorf("error linking fee structure to class: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Deactivate marks a structure version INACTIVE. Used when a new version of
// the chain becomes the active one.
func (r *FeeStructureRepository) Deactivate(ctx context.Context, schoolID, id int64) error {
	query := `UPDATE fee_structures SET status = $1 WHERE id = $2 AND school_id = $3`

	cmdTag, err := r.db.Exec(ctx, query, models.StructureInactive, id, schoolID)
	if err != nil {
		return fmt.Errorf("error deactivating fee structure: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeeStructureNotFound
	}

	return nil
}

// GetClassIDs returns the class ids linked to a structure
func (r *FeeStructureRepository) GetClassIDs(ctx context.Context, feeStructureID int64) ([]int64, error) {
	query := `SELECT class_id FROM fee_structure_classes WHERE fee_structure_id = $1 ORDER BY class_id ASC`

	rows, err := r.db.Query(ctx, query, feeStructureID)
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

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

// GetByAcademicYear lists structures of a school for a year, newest first
func (r *FeeStructureRepository) GetByAcademicYear(ctx context.Context, schoolID, academicYearID int64) ([]*models.FeeStructure, error) {
	query := `
		SELECT ` + feeStructureColumns + `
		FROM fee_structures fs
		WHERE fs.school_id = $1 AND fs.academic_year_id = $2
		ORDER BY fs.created_at DESC, fs.id DESC
	`

	rows, err := r.db.Query(ctx, query, schoolID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var structures []*models.FeeStructure
	for rows.Next() {
		fs, err := scanFeeStructure(rows)
		if err != nil {
			return nil, err
		}
		structures = append(structures, fs)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return structures, nil
}
