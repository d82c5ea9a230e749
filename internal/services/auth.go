package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/metrics"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/store"
	"github.com/AFARIMINTAH/Safehaven/internal/validate"
)

// AuthService registers users, checks credentials and resolves bearer tokens.
type AuthService struct {
	store  store.Store
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
}

func NewAuthService(s store.Store, hasher *auth.PasswordHasher, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{store: s, hasher: hasher, tokens: tokens}
}

// Register creates a user and returns a signed token for it.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	email = validate.NormalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return "", err
	}
	if err := validate.Password(password); err != nil {
		return "", err
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return "", model.NewConflictError("email", "User already exists")
	} else if !model.IsNotFoundError(err) {
		return "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}
	// The store's unique constraint still guards concurrent registrations of one email.
	u, err := s.store.Users().Create(ctx, &model.User{
		UserID:       uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		if model.IsConflictError(err) {
			return "", err
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return s.tokens.Issue(u.UserID)
}

// Login verifies credentials and returns a fresh token. Unknown emails and wrong
// passwords both yield InvalidCredentialsError.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = validate.NormalizeEmail(email)
	if err := validate.Email(email); err != nil {
		return "", err
	}
	if err := validate.NonEmpty("password", password); err != nil {
		return "", model.NewValidationError("password", "Password is required")
	}
	if err := validate.PasswordMaxLen(password); err != nil {
		return "", err
	}

	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if model.IsNotFoundError(err) {
			metrics.IncAuthFailure("unknown_email")
			return "", model.InvalidCredentialsError{}
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}
	ok, err := s.hasher.Compare(u.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.IncAuthFailure("wrong_password")
		return "", model.InvalidCredentialsError{}
	}
	return s.tokens.Issue(u.UserID)
}

// Authenticate resolves a raw token to the user id it was issued for.
func (s *AuthService) Authenticate(token string) (string, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		metrics.IncAuthFailure("invalid_token")
		return "", err
	}
	return id, nil
}
