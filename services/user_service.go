package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/repositories"
	"rentals-api/utils"
)

// UserService handles sign-up, login and the host upgrade.
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
	BecomeHost(ctx context.Context, userID string) (*dto.AuthResponse, error)
}

type userService struct {
	repo   repositories.UserRepository
	tokens *utils.TokenManager
	logger *zap.Logger
}

func NewUserService(repo repositories.UserRepository, tokens *utils.TokenManager, logger *zap.Logger) UserService {
	return &userService{repo: repo, tokens: tokens, logger: logger}
}

// Register creates the account and logs it in.
func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if len(req.Password) < 8 {
		return nil, domain.NewValidationError("password", "must be at least 8 characters")
	}

	// 1. Email must be free
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	// 2. Never store the plain password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	// 3. Save
	user := &domain.User{
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     req.Phone,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.String("user_id", user.ID))

	return s.authResponse(user)
}

// Login checks the credentials. Unknown email and wrong password produce
// the same error.
func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}

	return s.authResponse(user)
}

func (s *userService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// BecomeHost marks the user as a host and returns a token carrying the new
// role.
func (s *userService) BecomeHost(ctx context.Context, userID string) (*dto.AuthResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsHost {
		user.IsHost = true
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("User became host", zap.String("user_id", user.ID))
	}

	return s.authResponse(user)
}

func (s *userService) authResponse(user *domain.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.IsHost)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}
