package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user"
	"blog-backend/pkg/jwt"
)

// bcryptCost matches the work factor the accounts were originally hashed with.
const bcryptCost = 10

type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

// NewUserService builds the user.Service with its dependencies injected.
func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newUser := &user.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	}

	created, err := s.repo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}

	return s.generateToken(created)
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.generateToken(u)
}

func (s *userService) generateToken(u *user.User) (*user.TokenResponse, error) {
	token, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email, u.FirstName)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &user.TokenResponse{AccessToken: token}, nil
}
