package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
	"github.com/tmusoke/shulepoint/internal/pkg/dberrors"
)

// AcademicRepository handles database operations for academic years, terms
// and classes. Every query is scoped to a school; terms and classes resolve
// their school through their parent rows.
type AcademicRepository struct {
	db *pgxpool.Pool
}

// NewAcademicRepository creates a new academic repository
func NewAcademicRepository(db *pgxpool.Pool) *AcademicRepository {
	return &AcademicRepository{db: db}
}

// CreateAcademicYear creates a new academic year
func (r *AcademicRepository) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	query := `
		INSERT INTO academic_years (school_id, name, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, year.SchoolID, year.Name, year.StartDate, year.EndDate).Scan(&year.ID)
	if err != nil {
		return fmt.Errorf("error creating academic year: %w", err)
	}

	return nil
}

// GetAcademicYearByID retrieves an academic year scoped to a school
func (r *AcademicRepository) GetAcademicYearByID(ctx context.Context, schoolID, id int64) (*models.AcademicYear, error) {
	query := `
		SELECT id, school_id, name, start_date, end_date
		FROM academic_years
		WHERE id = $1 AND school_id = $2
	`

	var year models.AcademicYear
	err := r.db.QueryRow(ctx, query, id, schoolID).Scan(
		&year.ID,
		&year.SchoolID,
		&year.Name,
		&year.StartDate,
		&year.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAcademicYearNotFound
		}
		return nil, fmt.Errorf("error retrieving academic year: %w", err)
	}

	return &year, nil
}

// GetAllAcademicYears retrieves all academic years of a school
func (r *AcademicRepository) GetAllAcademicYears(ctx context.Context, schoolID int64) ([]*models.AcademicYear, error) {
	query := `
		SELECT id, school_id, name, start_date, end_date
		FROM academic_years
		WHERE school_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.db.Query(ctx, query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []*models.AcademicYear
	for rows.Next() {
		var year models.AcademicYear
		if err := rows.Scan(
			&year.ID,
			&year.SchoolID,
			&year.Name,
			&year.StartDate,
			&year.EndDate,
		); err != nil {
			return nil, err
		}
		years = append(years, &year)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return years, nil
}

// CreateTerm creates a new term within an academic year
func (r *AcademicRepository) CreateTerm(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (academic_year_id, name, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, term.AcademicYearID, term.Name, term.StartDate, term.EndDate).Scan(&term.ID)
	if err != nil {
		return fmt.Errorf("error creating term: %w", err)
	}

	return nil
}

// GetTermByID retrieves a term, verifying through its academic year that it
// belongs to the given school
func (r *AcademicRepository) GetTermByID(ctx context.Context, schoolID, id int64) (*models.Term, error) {
	query := `
		SELECT t.id, t.academic_year_id, t.name, t.start_date, t.end_date
		FROM terms t
		JOIN academic_years y ON y.id = t.academic_year_id
		WHERE t.id = $1 AND y.school_id = $2
	`

	var term models.Term
	err := r.db.QueryRow(ctx, query, id, schoolID).Scan(
		&term.ID,
		&term.AcademicYearID,
		&term.Name,
		&term.StartDate,
		&term.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTermNotFound
		}
		return nil, fmt.Errorf("error retrieving term: %w", err)
	}

	return &term, nil
}

// GetTermsByAcademicYear retrieves all terms of an academic year ordered by
// start date
func (r *AcademicRepository) GetTermsByAcademicYear(ctx context.Context, academicYearID int64) ([]*models.Term, error) {
	query := `
		SELECT id, academic_year_id, name, start_date, end_date
		FROM terms
		WHERE academic_year_id = $1
		ORDER BY start_date ASC
	`

	rows, err := r.db.Query(ctx, query, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []*models.Term
	for rows.Next() {
		var term models.Term
		if err := rows.Scan(
			&term.ID,
			&term.AcademicYearID,
			&term.Name,
			&term.StartDate,
			&term.EndDate,
		); err != nil {
			return nil, err
		}
		terms = append(terms, &term)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return terms, nil
}

// GetFirstTermOfYear returns the chronologically first term of an academic
// year, the default charge term for annual line items
func (r *AcademicRepository) GetFirstTermOfYear(ctx context.Context, academicYearID int64) (*models.Term, error) {
	query := `
		SELECT id, academic_year_id, name, start_date, end_date
		FROM terms
		WHERE academic_year_id = $1
		ORDER BY start_date ASC
		LIMIT 1
	`

	var term models.Term
	err := r.db.QueryRow(ctx, query, academicYearID).Scan(
		&term.ID,
		&term.AcademicYearID,
		&term.Name,
		&term.StartDate,
		&term.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTermNotFound
		}
		return nil, fmt.Errorf("error retrieving first term of year: %w", err)
	}

	return &term, nil
}

// CreateClass creates a new class
func (r *AcademicRepository) CreateClass(ctx context.Context, class *models.Class) error {
	query := `
		INSERT INTO classes (campus_id, academic_year_id, name, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, class.CampusID, class.AcademicYearID, class.Name, class.Capacity).Scan(&class.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "classes_campus_year_name_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating class: %w", err)
	}

	return nil
}

// GetClassByID retrieves a class, verifying through its campus that it
// belongs to the given school
func (r *AcademicRepository) GetClassByID(ctx context.Context, schoolID, id int64) (*models.Class, error) {
	query := `
		SELECT c.id, c.campus_id, c.academic_year_id, c.name, c.capacity
		FROM classes c
		JOIN campuses cp ON cp.id = c.campus_id
		WHERE c.id = $1 AND cp.school_id = $2
	`

	var class models.Class
	err := r.db.QueryRow(ctx, query, id, schoolID).Scan(
		&class.ID,
		&class.CampusID,
		&class.AcademicYearID,
		&class.Name,
		&class.Capacity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}

	return &class, nil
}

// GetClassesByAcademicYear retrieves all classes of a school for a year
func (r *AcademicRepository) GetClassesByAcademicYear(ctx context.Context, schoolID, academicYearID int64) ([]*models.Class, error) {
	query := `
		SELECT c.id, c.campus_id, c.academic_year_id, c.name, c.capacity
		FROM classes c
		JOIN campuses cp ON cp.id = c.campus_id
		WHERE cp.school_id = $1 AND c.academic_year_id = $2
		ORDER BY c.name ASC
	`

	rows, err := r.db.Query(ctx, query, schoolID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		var class models.Class
		if err := rows.Scan(
			&class.ID,
			&class.CampusID,
			&class.AcademicYearID,
			&class.Name,
			&class.Capacity,
		); err != nil {
			return nil, err
		}
		classes = append(classes, &class)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return classes, nil
}
