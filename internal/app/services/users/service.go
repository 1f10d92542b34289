// Package users manages admin panel accounts.
package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/kahit-saan/menu-service/internal/app/domain/user"
	"github.com/kahit-saan/menu-service/internal/app/storage"
	"github.com/kahit-saan/menu-service/internal/errors"
	"github.com/kahit-saan/menu-service/internal/logging"
)

// Service implements admin account operations over a UserStore.
type Service struct {
	store storage.UserStore
	log   *logging.Logger
}

// New creates a users service.
func New(store storage.UserStore, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewDefault("users")
	}
	return &Service{store: store, log: log}
}

// Create validates a full draft, hashes the password and persists the
// account.
func (s *Service) Create(ctx context.Context, draft user.Draft) (user.Account, error) {
	if fields := draft.Validate(false); len(fields) > 0 {
		return user.Account{}, errors.Validation(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*draft.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.Account{}, errors.Internal("hash password", err)
	}

	acct := user.Account{
		Username:     *draft.Username,
		PasswordHash: string(hash),
		Role:         user.Role(*draft.Role),
	}
	created, err := s.store.CreateUser(ctx, acct)
	if err != nil {
		return user.Account{}, err
	}
	s.log.WithField("id", created.ID).Infof("admin user created: %s", created.Username)
	return created, nil
}

// Update merges present draft fields into the stored account. A nil or blank
// password keeps the existing hash.
func (s *Service) Update(ctx context.Context, id string, draft user.Draft) (user.Account, error) {
	if fields := draft.Validate(true); len(fields) > 0 {
		return user.Account{}, errors.Validation(fields)
	}

	acct, err := s.store.GetUser(ctx, id)
	if err != nil {
		return user.Account{}, err
	}

	if draft.Username != nil {
		acct.Username = *draft.Username
	}
	if draft.Role != nil {
		acct.Role = user.Role(*draft.Role)
	}
	if draft.Password != nil && *draft.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*draft.Password), bcrypt.DefaultCost)
		if err != nil {
			return user.Account{}, errors.Internal("hash password", err)
		}
		acct.PasswordHash = string(hash)
	}

	updated, err := s.store.UpdateUser(ctx, acct)
	if err != nil {
		return user.Account{}, err
	}
	s.log.WithField("id", id).Info("admin user updated")
	return updated, nil
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, id string) (user.Account, error) {
	return s.store.GetUser(ctx, id)
}

// List returns all accounts ordered by username.
func (s *Service) List(ctx context.Context) ([]user.Account, error) {
	return s.store.ListUsers(ctx)
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.WithField("id", id).Info("admin user deleted")
	return nil
}

// Authenticate verifies a username/password pair. Exposed for the external
// auth collaborator integration; the service itself does not issue tokens.
func (s *Service) Authenticate(ctx context.Context, username, password string) (user.Account, error) {
	acct, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return user.Account{}, errors.Unauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return user.Account{}, errors.Unauthorized("invalid credentials")
	}
	return acct, nil
}
