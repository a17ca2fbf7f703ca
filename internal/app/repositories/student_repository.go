package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
	"github.com/tmusoke/shulepoint/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students, their class
// assignments and academic enrollments
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create creates a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (school_id, campus_id, first_name, last_name, status, transport_route_id, transport_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		student.SchoolID,
		student.CampusID,
		student.FirstName,
		student.LastName,
		student.Status,
		student.TransportRouteID,
		student.TransportType,
	).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student scoped to a school
func (r *StudentRepository) GetByID(ctx context.Context, schoolID, id int64) (*models.Student, error) {
	query := `
		SELECT id, school_id, campus_id, first_name, last_name, status, transport_route_id, transport_type, created_at
		FROM students
		WHERE id = $1 AND school_id = $2
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, id, schoolID).Scan(
		&student.ID,
		&student.SchoolID,
		&student.CampusID,
		&student.FirstName,
		&student.LastName,
		&student.Status,
		&student.TransportRouteID,
		&student.TransportType,
		&student.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// UpdateTransport sets or clears a student's transport assignment
func (r *StudentRepository) UpdateTransport(ctx context.Context, schoolID, studentID int64, routeID *int64, transportType *models.TransportType) error {
	query := `
		UPDATE students
		SET transport_route_id = $1, transport_type = $2
		WHERE id = $3 AND school_id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, routeID, transportType, studentID, schoolID)
	if err != nil {
		return fmt.Errorf("error updating student transport: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateStatus moves a student through its lifecycle states
func (r *StudentRepository) UpdateStatus(ctx context.Context, schoolID, studentID int64, status models.StudentStatus) error {
	query := `UPDATE students SET status = $1 WHERE id = $2 AND school_id = $3`

	cmdTag, err := r.db.Exec(ctx, query, status, studentID, schoolID)
	if err != nil {
		return fmt.Errorf("error updating student status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// GetCurrentClassAssignment returns the open class-history row for a
// student, or nil when the student has no current class
func (r *StudentRepository) GetCurrentClassAssignment(ctx context.Context, studentID int64) (*models.StudentClassHistory, error) {
	query := `
		SELECT id, student_id, class_id, start_date, end_date
		FROM student_class_history
		WHERE student_id = $1 AND end_date IS NULL
	`

	var assignment models.StudentClassHistory
	err := r.db.QueryRow(ctx, query, studentID).Scan(
		&assignment.ID,
		&assignment.StudentID,
		&assignment.ClassID,
		&assignment.StartDate,
		&assignment.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving current class assignment: %w", err)
	}

	return &assignment, nil
}

// AssignClass closes any open class-history row and opens a new one. The two
// writes share a transaction so there is never more than one open row.
func (r *StudentRepository) AssignClass(ctx context.Context, studentID, classID int64, startDate time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE student_class_history
		SET end_date = $1
		WHERE student_id = $2 AND end_date IS NULL`,
		startDate, studentID)
	if err != nil {
		return fmt.Errorf("error closing previous class assignment: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO student_class_history (student_id, class_id, start_date)
		VALUES ($1, $2, $3)`,
		studentID, classID, startDate)
	if err != nil {
		return fmt.Errorf("error opening class assignment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetOpenEnrollment returns the open academic enrollment row for a student
// and academic year, or nil when the student never enrolled for that year
func (r *StudentRepository) GetOpenEnrollment(ctx context.Context, studentID, academicYearID int64) (*models.StudentAcademicEnrollment, error) {
	query := `
		SELECT id, student_id, academic_year_id, term_id, start_date, end_date
		FROM student_academic_enrollments
		WHERE student_id = $1 AND academic_year_id = $2 AND end_date IS NULL
	`

	var enrollment models.StudentAcademicEnrollment
	err := r.db.QueryRow(ctx, query, studentID, academicYearID).Scan(
		&enrollment.ID,
		&enrollment.StudentID,
		&enrollment.AcademicYearID,
		&enrollment.TermID,
		&enrollment.StartDate,
		&enrollment.EndDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// Enroll closes any open enrollment row and opens a new one pointing at the
// term the student joined in
func (r *StudentRepository) Enroll(ctx context.Context, enrollment *models.StudentAcademicEnrollment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE student_academic_enrollments
		SET end_date = $1
		WHERE student_id = $2 AND end_date IS NULL`,
		enrollment.StartDate, enrollment.StudentID)
	if err != nil {
		return fmt.Errorf("error closing previous enrollment: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO student_academic_enrollments (student_id, academic_year_id, term_id, start_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		enrollment.StudentID,
		enrollment.AcademicYearID,
		enrollment.TermID,
		enrollment.StartDate,
	).Scan(&enrollment.ID)
	if err != nil {
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetClubActivityIDs returns the ids of the club activities a student is
// linked to, restricted to a term
func (r *StudentRepository) GetClubActivityIDs(ctx context.Context, studentID, termID int64) ([]int64, error) {
	query := `
		SELECT ca.id
		FROM student_club_activities sca
		JOIN club_activities ca ON ca.id = sca.club_activity_id
		WHERE sca.student_id = $1 AND ca.term_id = $2
	`

	rows, err := r.db.Query(ctx, query, studentID, termID)
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

// LinkClubActivity joins a student to a club activity. Repeated links are
// ignored.
func (r *StudentRepository) LinkClubActivity(ctx context.Context, studentID, clubActivityID int64) error {
	query := `
		INSERT INTO student_club_activities (student_id, club_activity_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id, club_activity_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, studentID, clubActivityID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrClubActivityNotFound
		}
		return fmt.Errorf("error linking club activity: %w", err)
	}

	return nil
}

// UnlinkClubActivity removes a student's club activity link
func (r *StudentRepository) UnlinkClubActivity(ctx context.Context, studentID, clubActivityID int64) error {
	query := `DELETE FROM student_club_activities WHERE student_id = $1 AND club_activity_id = $2`

	if _, err := r.db.Exec(ctx, query, studentID, clubActivityID); err != nil {
		return fmt.Errorf("error unlinking club activity: %w", err)
	}

	return nil
}

// GetBySchool lists students of a school with a stable order
func (r *StudentRepository) GetBySchool(ctx context.Context, schoolID int64, offset uint64, limit int) ([]*models.Student, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE school_id = $1`, schoolID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	query := `
		SELECT id, school_id, campus_id, first_name, last_name, status, transport_route_id, transport_type, created_at
		FROM students
		WHERE school_id = $1
		ORDER BY last_name ASC, first_name ASC, id ASC
		OFFSET $2 LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, schoolID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.SchoolID,
			&student.CampusID,
			&student.FirstName,
			&student.LastName,
			&student.Status,
			&student.TransportRouteID,
			&student.TransportType,
			&student.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}
