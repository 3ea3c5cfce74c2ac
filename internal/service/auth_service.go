package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/helwan-dev/smart-campus-api/internal/dto"
	"github.com/helwan-dev/smart-campus-api/internal/models"
	"github.com/helwan-dev/smart-campus-api/internal/repository"
	"github.com/helwan-dev/smart-campus-api/internal/security"
)

var (
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound indicates no account matches the email.
	ErrUserNotFound = errors.New("user not found")
	// ErrBadCredentials indicates the password did not match.
	ErrBadCredentials = errors.New("bad credentials")
)

// AuthService exposes registration, login and profile lookup.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserSummary, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	Me(ctx context.Context, userID uint) (dto.ProfileResponse, error)
}

type authService struct {
	users     repository.UserRepository
	hasher    security.PasswordHasher
	tokens    security.TokenManager
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService builds the auth service.
func NewAuthService(users repository.UserRepository, hasher security.PasswordHasher, tokens security.TokenManager, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.UserSummary, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserSummary{}, err
	}

	role := payload.Role
	if role == "" {
		role = models.RoleStudent
	}

	if _, err := s.users.GetByEmail(ctx, payload.Email); err == nil {
		return dto.UserSummary{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.UserSummary{}, err
	}

	hash, err := s.hasher.Hash(payload.Password)
	if err != nil {
		return dto.UserSummary{}, err
	}

	user := models.User{
		Name:         payload.Name,
		Email:        payload.Email,
		Role:         role,
		Faculty:      payload.Faculty,
		Department:   payload.Department,
		StudentID:    payload.StudentID,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserSummary{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return dto.NewUserSummary(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrUserNotFound
		}
		return dto.LoginResponse{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, payload.Password); err != nil {
		return dto.LoginResponse{}, ErrBadCredentials
	}

	token, err := s.tokens.Issue(security.Identity{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
	})
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")

	return dto.LoginResponse{Token: token, User: dto.NewUserSummary(user)}, nil
}

func (s *authService) Me(ctx context.Context, userID uint) (dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProfileResponse{}, ErrUserNotFound
		}
		return dto.ProfileResponse{}, err
	}

	return dto.NewProfileResponse(user), nil
}
