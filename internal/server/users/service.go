package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verkhov/picvault/internal/common"
	"github.com/verkhov/picvault/internal/server/auth"
	"github.com/verkhov/picvault/internal/server/config"
)

// Service provides authentication-related operations:
//   - Register: create identities
//   - Login: verify credentials and mint a bearer token
type Service struct {
	repo                  Repository
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:                  repo,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// NormalizeEmail lowercases and trims an email address. Uniqueness and
// lookups are defined over the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailTaken reports whether an identity with the given email already
// exists. Used by the registration validation pass; the database unique
// index remains the authoritative guard against concurrent registrations.
func (s *Service) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return true, nil
}

// Register hashes the password and creates a new identity. A duplicate
// email surfaces as common.ErrorAlreadyExists.
func (s *Service) Register(ctx context.Context, firstName, lastName, email, password string) (*User, error) {

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &User{
		Email:        NormalizeEmail(email),
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	return user, nil
}

// Login verifies the credentials and, on success, returns the user together
// with a freshly minted bearer token. An unknown email and a wrong password
// are both reported as common.ErrorUnauthorized so callers cannot tell
// which precondition failed.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {

	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUnauthorized
		}
		return nil, "", fmt.Errorf("error fetching user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(auth.Identity{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, "", fmt.Errorf("error generating token: %w", err)
	}

	return user, token, nil
}
