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

// SchoolRepository handles database operations for schools and campuses
type SchoolRepository struct {
	db *pgxpool.Pool
}

// NewSchoolRepository creates a new school repository
func NewSchoolRepository(db *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// Create creates a new school
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	query := `
		INSERT INTO schools (name, motto)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, school.Name, school.Motto).Scan(&school.ID, &school.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating school: %w", err)
	}

	return nil
}

// GetByID retrieves a school
func (r *SchoolRepository) GetByID(ctx context.Context, id int64) (*models.School, error) {
	query := `SELECT id, name, motto, created_at FROM schools WHERE id = $1`

	var school models.School
	err := r.db.QueryRow(ctx, query, id).Scan(
		&school.ID,
		&school.Name,
		&school.Motto,
		&school.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving school: %w", err)
	}

	return &school, nil
}

// CreateCampus creates a new campus within a school
func (r *SchoolRepository) CreateCampus(ctx context.Context, campus *models.Campus) error {
	query := `
		INSERT INTO campuses (school_id, name, address)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, campus.SchoolID, campus.Name, campus.Address).Scan(&campus.ID)
	if err != nil {
		return fmt.Errorf("error creating campus: %w", err)
	}

	return nil
}

// GetCampusesBySchool lists the campuses of a school
func (r *SchoolRepository) GetCampusesBySchool(ctx context.Context, schoolID int64) ([]*models.Campus, error) {
	query := `
		SELECT id, school_id, name, address
		FROM campuses
		WHERE school_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campuses []*models.Campus
	for rows.Next() {
		var campus models.Campus
		if err := rows.Scan(
			&campus.ID,
			&campus.SchoolID,
			&campus.Name,
			&campus.Address,
		); err != nil {
			return nil, err
		}
		campuses = append(campuses, &campus)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return campuses, nil
}
