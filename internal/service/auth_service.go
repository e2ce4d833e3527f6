// Package service holds the application's business logic on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"instawinx/internal/models"
	"instawinx/internal/observability"
	"instawinx/internal/repository"
	"instawinx/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// AuthService registers and authenticates users.
type AuthService struct {
	userRepo repository.UserRepository
	hashCost int
}

type RegisterInput struct {
	Username  string
	Password  string
	FairyType string
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo, hashCost: bcrypt.DefaultCost}
}

// Register validates the input, hashes the password and stores the user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.Register")
	defer func() { observability.EndSpan(span, err) }()

	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		observability.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		observability.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if err := validation.ValidateFairyType(in.FairyType); err != nil {
		observability.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Username:  username,
		Password:  string(hash),
		FairyType: in.FairyType,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrUsernameTaken) {
			observability.Registrations.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	observability.Registrations.WithLabelValues("success").Inc()
	return user, nil
}

// Login returns the user when the credentials match. Unknown users and wrong
// passwords both yield models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (user *models.User, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.Login")
	defer func() { observability.EndSpan(span, err) }()

	user, err = s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			observability.LoginAttempts.WithLabelValues("failure").Inc()
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, models.ErrInvalidCredentials
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	observability.LoginAttempts.WithLabelValues("success").Inc()
	return user, nil
}

// CurrentUser resolves the id stored in the session.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
