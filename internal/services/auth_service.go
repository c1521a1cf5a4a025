package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"canchas_backend/internal/models"
	"canchas_backend/internal/repositories"
	"canchas_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Data Transfer Objects (DTOs) ---

// RegisterAdministratorRequest DTO
type RegisterAdministratorRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	Administrator *models.Administrator `json:"administrator"`
	AccessToken   string                `json:"access_token"`
	TokenType     string                `json:"token_type"`
	ExpiresIn     int64                 `json:"expires_in"` // seconds
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterAdministrator(ctx context.Context, req RegisterAdministratorRequest) (*models.Administrator, error)
	Login(ctx context.Context, creds models.Credentials) (*AuthResponse, error)
	GetProfile(ctx context.Context, adminID int64) (*models.Administrator, error)
	// EnsureAdministrator registers req unless its email already exists.
	EnsureAdministrator(ctx context.Context, req RegisterAdministratorRequest) error
}

// --- authService Implementation ---
type authService struct {
	authRepo repositories.AuthRepository
	tokens   *utils.TokenManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(authRepo repositories.AuthRepository, tokens *utils.TokenManager) AuthService {
	return &authService{authRepo: authRepo, tokens: tokens}
}

func (s *authService) RegisterAdministrator(ctx context.Context, req RegisterAdministratorRequest) (*models.Administrator, error) {
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: email format is invalid", ErrValidation)
	}
	if !utils.IsAcceptablePassword(req.Password, 8) {
		return nil, fmt.Errorf("%w: password must have at least 8 characters and at most 72 bytes", ErrValidation)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Administrator{
		Email:        req.Email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: string(hashed),
	}
	created, err := s.authRepo.CreateAdministrator(ctx, admin)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register administrator: %w", err)
	}
	created.PasswordHash = ""
	return created, nil
}

func (s *authService) EnsureAdministrator(ctx context.Context, req RegisterAdministratorRequest) error {
	_, err := s.authRepo.FindAdministratorByEmail(ctx, req.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to look up administrator: %w", err)
	}
	_, err = s.RegisterAdministrator(ctx, req)
	if errors.Is(err, ErrEmailTaken) {
		return nil
	}
	return err
}

// Login checks the credentials and issues an access token.
// Unknown emails and wrong passwords fail the same way.
func (s *authService) Login(ctx context.Context, creds models.Credentials) (*AuthResponse, error) {
	admin, err := s.authRepo.FindAdministratorByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(admin.ID, admin.Email, utils.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	admin.PasswordHash = ""
	return &AuthResponse{
		Administrator: admin,
		AccessToken:   accessToken,
		TokenType:     "Bearer",
		ExpiresIn:     int64(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *authService) GetProfile(ctx context.Context, adminID int64) (*models.Administrator, error) {
	admin, err := s.authRepo.FindAdministratorByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: administrator ID %d", ErrEntityNotFound, adminID)
		}
		return nil, fmt.Errorf("failed to retrieve administrator profile: %w", err)
	}
	admin.PasswordHash = ""
	return admin, nil
}
