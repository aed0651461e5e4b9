package services

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/pressroom/internal/common"
	"github.com/dmitrijs2005/pressroom/internal/logging"
)

// TokenIssuer mints access tokens for an authenticated identity.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// AuthService implements registration and login on top of UserService.
type AuthService struct {
	users  *UserService
	hasher PasswordHasher
	issuer TokenIssuer
	log    logging.Logger
}

func NewAuthService(users *UserService, hasher PasswordHasher, issuer TokenIssuer, log logging.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		log:    log.With("module", "auth"),
	}
}

// Register creates a user and returns an access token for it.
// A taken email is common.ErrorConflict.
func (s *AuthService) Register(ctx context.Context, email, password string) (string, error) {
	if utf8.RuneCountInString(password) < minRegisterPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minRegisterPasswordLength)
	}

	u, err := s.users.Create(ctx, email, password)
	if err != nil {
		return "", err
	}

	return s.issue(ctx, u.ID, u.Email)
}

// Login checks the credentials and returns an access token. An unknown
// email and a wrong password both yield common.ErrorUnauthorized after one
// bcrypt comparison each.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.hasher.DummyDigest())
			return "", common.ErrorUnauthorized
		}
		return "", err
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "verify password failed", "id", u.ID, "error", err)
		return "", err
	}
	if !ok {
		return "", common.ErrorUnauthorized
	}

	return s.issue(ctx, u.ID, u.Email)
}

func (s *AuthService) issue(ctx context.Context, id int64, email string) (string, error) {
	token, err := s.issuer.Issue(id, email)
	if err != nil {
		s.log.Error(ctx, "issue token failed", "id", id, "error", err)
		return "", err
	}
	return token, nil
}
