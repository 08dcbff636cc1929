// Package account registers ledger owners and verifies their credentials.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gitlab.com/yelinaung/expense-ledger/internal/database"
	"gitlab.com/yelinaung/expense-ledger/internal/logger"
	"gitlab.com/yelinaung/expense-ledger/internal/models"
	"gitlab.com/yelinaung/expense-ledger/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// NewUser is a signup request.
type NewUser struct {
	Username    string
	Password    string
	DisplayName string
	Email       string
}

// Service manages user accounts.
type Service struct {
	db   database.DB
	cost int
}

// NewService creates a Service hashing passwords at the given bcrypt cost.
func NewService(db database.DB, cost int) *Service {
	return &Service{db: db, cost: cost}
}

// Register creates the user and seeds the default categories in one
// transaction. Retrying after a partial failure is safe.
func (s *Service) Register(ctx context.Context, in NewUser) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, models.NewValidationError("username", models.ErrMissingUsername)
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, models.NewValidationError("password", models.ErrMissingPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Email:        strings.TrimSpace(in.Email),
	}
	if user.DisplayName == "" {
		user.DisplayName = username
	}

	err = database.WithTx(ctx, s.db, func(tx database.PGXDB) error {
		if err := repository.NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		return repository.NewCategoryRepository(tx).SeedDefaults(ctx, username)
	})
	if err != nil {
		logger.Log.Warn().Err(err).Str("user", logger.HashUsername(username)).Msg("Failed to register user")
		return nil, err
	}

	logger.Log.Info().Str("user", logger.HashUsername(username)).Msg("User registered")
	return user, nil
}

// Authenticate checks a username and password. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db).GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Debug().Str("user", logger.HashUsername(user.Username)).Msg("Password mismatch")
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}
