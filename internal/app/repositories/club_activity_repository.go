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

// ClubActivityRepository handles database operations for clubs and
// extra-curricular activities
type ClubActivityRepository struct {
	db *pgxpool.Pool
}

// NewClubActivityRepository creates a new club activity repository
func NewClubActivityRepository(db *pgxpool.Pool) *ClubActivityRepository {
	return &ClubActivityRepository{db: db}
}

// Create creates a new club activity
func (r *ClubActivityRepository) Create(ctx context.Context, activity *models.ClubActivity) error {
	query := `
		INSERT INTO club_activities (school_id, service_name, activity_type, cost_per_term, academic_year_id, term_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		activity.SchoolID,
		activity.ServiceName,
		activity.ActivityType,
		activity.CostPerTerm,
		activity.AcademicYearID,
		activity.TermID,
	).Scan(&activity.ID)
	if err != nil {
		return fmt.Errorf("error creating club activity: %w", err)
	}

	return nil
}

// GetByID retrieves a club activity scoped to a school
func (r *ClubActivityRepository) GetByID(ctx context.Context, schoolID, id int64) (*models.ClubActivity, error) {
	query := `
		SELECT id, school_id, service_name, activity_type, cost_per_term, academic_year_id, term_id
		FROM club_activities
		WHERE id = $1 AND school_id = $2
	`

	var activity models.ClubActivity
	err := r.db.QueryRow(ctx, query, id, schoolID).Scan(
		&activity.ID,
		&activity.SchoolID,
		&activity.ServiceName,
		&activity.ActivityType,
		&activity.CostPerTerm,
		&activity.AcademicYearID,
		&activity.TermID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClubActivityNotFound
		}
		return nil, fmt.Errorf("error retrieving club activity: %w", err)
	}

	return &activity, nil
}

// GetByIDs retrieves several club activities at once, scoped to a school.
// Ids that do not exist or belong to another school are simply absent from
// the result.
func (r *ClubActivityRepository) GetByIDs(ctx context.Context, schoolID int64, ids []int64) ([]*models.ClubActivity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, school_id, service_name, activity_type, cost_per_term, academic_year_id, term_id
		FROM club_activities
		WHERE school_id = $1 AND id = ANY($2)
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, schoolID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.ClubActivity
	for rows.Next() {
		var activity models.ClubActivity
		if err := rows.Scan(
			&activity.ID,
			&activity.SchoolID,
			&activity.ServiceName,
			&activity.ActivityType,
			&activity.CostPerTerm,
			&activity.AcademicYearID,
			&activity.TermID,
		); err != nil {
			return nil, err
		}
		activities = append(activities, &activity)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}

// GetByTerm lists club activities of a school for a term
func (r *ClubActivityRepository) GetByTerm(ctx context.Context, schoolID, termID int64) ([]*models.ClubActivity, error) {
	query := `
		SELECT id, school_id, service_name, activity_type, cost_per_term, academic_year_id, term_id
		FROM club_activities
		WHERE school_id = $1 AND term_id = $2
		ORDER BY service_name ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, schoolID, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.ClubActivity
	for rows.Next() {
		var activity models.ClubActivity
		if err := rows.Scan(
			&activity.ID,
			&activity.SchoolID,
			&activity.ServiceName,
			&activity.ActivityType,
			&activity.CostPerTerm,
			&activity.AcademicYearID,
			&activity.TermID,
		); err != nil {
			return nil, err
		}
		activities = append(activities, &activity)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return activities, nil
}
