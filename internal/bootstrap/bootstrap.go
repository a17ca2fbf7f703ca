package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/tmusoke/shulepoint/internal/app/controllers"
	appMigrations "github.com/tmusoke/shulepoint/internal/app/migrations"
	appRepos "github.com/tmusoke/shulepoint/internal/app/repositories"
	appRoutes "github.com/tmusoke/shulepoint/internal/app/routes"
	appServices "github.com/tmusoke/shulepoint/internal/app/services"
	"github.com/tmusoke/shulepoint/internal/config"
	"github.com/tmusoke/shulepoint/internal/db"
	appMiddleware "github.com/tmusoke/shulepoint/internal/middleware"
	pkgAuth "github.com/tmusoke/shulepoint/internal/pkg/auth"
	"github.com/tmusoke/shulepoint/internal/pkg/helpers"
	"github.com/tmusoke/shulepoint/internal/pkg/logger"
	"github.com/tmusoke/shulepoint/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            appServices.AuthService
	AcademicService        appServices.AcademicService
	StudentService         appServices.StudentService
	FeeStructureService    appServices.FeeStructureService
	FeeCalculationService  appServices.FeeCalculationService
	BillingService         appServices.BillingService
	CatalogService         appServices.CatalogService
	AuthController         *appControllers.AuthController
	AcademicController     *appControllers.AcademicController
	StudentController      *appControllers.StudentController
	FeeStructureController *appControllers.FeeStructureController
	FeeController          *appControllers.FeeController
	BillingController      *appControllers.BillingController
	CatalogController      *appControllers.CatalogController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), database, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService)
	deps.AcademicService = appServices.NewAcademicService(deps.Repos.AcademicRepository)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.AcademicRepository,
		deps.Repos.ClubActivityRepository,
		deps.Repos.TransportRouteRepository,
	)
	deps.FeeStructureService = appServices.NewFeeStructureService(
		deps.Repos.FeeStructureRepository,
		deps.Repos.AcademicRepository,
	)
	deps.FeeCalculationService = appServices.NewFeeCalculationService(
		deps.Repos.AcademicRepository,
		deps.Repos.StudentRepository,
		deps.Repos.FeeStructureRepository,
		deps.Repos.ClubActivityRepository,
		deps.Repos.TransportRouteRepository,
		deps.Repos.DiscountRepository,
		deps.Repos.FeeRepository,
	)
	deps.BillingService = appServices.NewBillingService(
		deps.Repos.FeeRepository,
		deps.Repos.DiscountRepository,
		deps.Repos.StudentRepository,
		deps.Repos.AcademicRepository,
		deps.Repos.FeeStructureRepository,
	)
	deps.CatalogService = appServices.NewCatalogService(
		deps.Repos.TransportRouteRepository,
		deps.Repos.ClubActivityRepository,
		deps.Repos.SchoolRepository,
		deps.Repos.AcademicRepository,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.AcademicController = appControllers.NewAcademicController(deps.AcademicService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.FeeStructureController = appControllers.NewFeeStructureController(deps.FeeStructureService)
	deps.FeeController = appControllers.NewFeeController(deps.FeeCalculationService, deps.BillingService)
	deps.BillingController = appControllers.NewBillingController(deps.BillingService)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.AcademicController,
		deps.StudentController,
		deps.FeeStructureController,
		deps.FeeController,
		deps.BillingController,
		deps.CatalogController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
