package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pressroom/internal/common"
	"github.com/dmitrijs2005/pressroom/internal/dbx"
	"github.com/dmitrijs2005/pressroom/internal/logging"
	"github.com/dmitrijs2005/pressroom/internal/server/models"
	"github.com/dmitrijs2005/pressroom/internal/server/repositories/repomanager"
)

// PasswordHasher hashes and verifies user secrets.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) (bool, error)
	DummyDigest() string
}

// UserService manages user accounts. Users are never cached.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		log:         log.With("module", "users"),
	}
}

// Create hashes password and stores a new user. A taken email is
// common.ErrorConflict.
func (s *UserService) Create(ctx context.Context, email, password string) (*models.User, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.log.Error(ctx, "hash password failed", "error", err)
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, email, digest)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		s.log.Error(ctx, "create user failed", "error", err)
		return nil, fmt.Errorf("create user: %w", common.ErrorWrite)
	}

	s.log.Info(ctx, "user created", "id", u.ID)
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.lookup(ctx, "id", id, func(ctx context.Context) (*models.User, error) {
		return s.repomanager.Users(s.db).GetByID(ctx, id)
	})
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.lookup(ctx, "email", email, func(ctx context.Context) (*models.User, error) {
		return s.repomanager.Users(s.db).GetByEmail(ctx, email)
	})
}

func (s *UserService) lookup(ctx context.Context, field string, value any, find func(context.Context) (*models.User, error)) (*models.User, error) {
	u, err := find(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.log.Error(ctx, "get user failed", field, value, "error", err)
		return nil, fmt.Errorf("get user: %w", common.ErrorRetrieval)
	}
	return u, nil
}

// List returns all users ordered by id.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		s.log.Error(ctx, "list users failed", "error", err)
		return nil, fmt.Errorf("list users: %w", common.ErrorRetrieval)
	}
	return users, nil
}

// Update changes the email and/or password of an existing user. The
// password is re-hashed only when a new one is given.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if err := validateUserPatch(patch); err != nil {
		return nil, err
	}

	var digest *string
	if patch.Password != nil {
		h, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			s.log.Error(ctx, "hash password failed", "id", id, "error", err)
			return nil, err
		}
		digest = &h
	}

	updated, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if patch.Email != nil || digest != nil {
			if _, err := repo.Update(ctx, id, patch.Email, digest); err != nil {
				return nil, err
			}
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			return nil, common.ErrorNotFound
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorConflict
		}
		s.log.Error(ctx, "update user failed", "id", id, "error", err)
		return nil, fmt.Errorf("update user: %w", common.ErrorWrite)
	}

	return updated, nil
}

// Delete removes the user; a missing id is common.ErrorNotFound.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	n, err := s.repomanager.Users(s.db).Delete(ctx, id)
	if err != nil {
		s.log.Error(ctx, "delete user failed", "id", id, "error", err)
		return fmt.Errorf("delete user: %w", common.ErrorWrite)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	s.log.Info(ctx, "user deleted", "id", id)
	return nil
}
