package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/app/repositories"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
	"github.com/tmusoke/shulepoint/internal/pkg/auth"
)

// AuthService handles staff authentication
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, user *models.User, plainPassword string) error
	GetUserByID(ctx context.Context, schoolID, userID int64) (*models.User, error)
}

// LoginResult carries the issued tokens together with the authenticated user
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service instance
func NewAuthService(userRepo *repositories.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and issues a token pair. Failed lookups and
// wrong passwords both map to ErrInvalidCredentials so callers cannot probe
// which emails exist.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// Register creates a staff account with a hashed password
func (s *authServiceImpl) Register(ctx context.Context, user *models.User, plainPassword string) error {
	hashed, err := auth.HashPassword(plainPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = hashed
	user.IsActive = true

	return s.userRepo.Create(ctx, user)
}

// GetUserByID retrieves a user scoped to a school
func (s *authServiceImpl) GetUserByID(ctx context.Context, schoolID, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, schoolID, userID)
}
