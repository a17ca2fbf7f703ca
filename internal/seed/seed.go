package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appModels "github.com/tmusoke/shulepoint/internal/app/models"
	appRepos "github.com/tmusoke/shulepoint/internal/app/repositories"
	"github.com/tmusoke/shulepoint/internal/db"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
	"github.com/tmusoke/shulepoint/internal/pkg/auth"
)

// CreateDefaultData seeds a demo school with a main campus and an admin
// account when the database is empty. Safe to run on every startup; the
// school, campus and admin user are created in one transaction.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(database.Pool)

	lgr.Info().Msg("Checking/Creating default data (School/Campus/Admin)...")

	const adminEmail = "admin@demo.shulepoint.app"

	if _, err := userRepo.GetByEmail(ctx, adminEmail); err == nil {
		lgr.Info().Msg("Default data already present, skipping seed")
		return nil
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hashed, err := auth.HashPassword("ChangeMe123!")
	if err != nil {
		return err
	}

	var schoolID int64
	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO schools (name, motto)
			VALUES ($1, $2)
			RETURNING id`,
			"Demo School", "Knowledge is light").Scan(&schoolID); err != nil {
			return err
		}

		var campusID int64
		if err := tx.QueryRow(ctx, `
			INSERT INTO campuses (school_id, name, address)
			VALUES ($1, $2, $3)
			RETURNING id`,
			schoolID, "Main Campus", "").Scan(&campusID); err != nil {
			return err
		}

		var adminID int64
		return tx.QueryRow(ctx, `
			INSERT INTO users (school_id, email, password, first_name, last_name, role_type, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			schoolID, adminEmail, hashed, "Default", "Admin",
			string(appModels.RoleAdmin), true).Scan(&adminID)
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default data")
		return err
	}

	lgr.Info().Int64("schoolId", schoolID).Msg("Default data created")
	return nil
}
