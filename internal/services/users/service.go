// Package users implements the user directory operations on top of a
// backing store.
package users

import (
	"context"
	"log/slog"

	"github.com/jfellows/userdir/internal/model"
	"github.com/jfellows/userdir/internal/storage"
)

// Service coordinates user directory operations against a backing store.
// All mutations go through the store, which serializes them.
type Service struct {
	store  storage.Store
	logger *slog.Logger
}

// New creates a new users service
func New(store storage.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// List returns all users in insertion order.
func (s *Service) List(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}

// Filter returns users whose field value contains substring.
func (s *Service) Filter(ctx context.Context, field, substring string) ([]model.User, error) {
	return s.store.FilterUsers(ctx, field, substring)
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int) (*model.User, error) {
	return s.store.GetUser(ctx, id)
}

// Create inserts a new user with the next sequential id.
func (s *Service) Create(ctx context.Context, fields model.UserFields) (*model.User, error) {
	u, err := s.store.InsertUser(ctx, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.Int("id", u.ID),
		slog.String("username", u.Username),
	)
	return u, nil
}

// Replace overwrites every field of the user, keeping only its id.
func (s *Service) Replace(ctx context.Context, id int, fields model.UserFields) error {
	if err := s.store.ReplaceUser(ctx, id, fields); err != nil {
		return err
	}

	s.logger.Info("user replaced", slog.Int("id", id))
	return nil
}

// Patch shallow-merges the provided fields onto the user.
func (s *Service) Patch(ctx context.Context, id int, patch model.UserPatch) error {
	if err := s.store.MergeUser(ctx, id, patch); err != nil {
		return err
	}

	s.logger.Info("user patched", slog.Int("id", id))
	return nil
}

// Delete removes the user. Remaining ids never shift.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted", slog.Int("id", id))
	return nil
}

// UsernameTaken reports whether a record other than excludeID holds the
// username. Pass 0 to check against every record.
func (s *Service) UsernameTaken(ctx context.Context, username string, excludeID int) (bool, error) {
	return s.store.UsernameTaken(ctx, username, excludeID)
}

// EnsureSeed loads the fixed seed records when the store is empty, so a
// fresh deployment always starts with data to derive ids from.
func (s *Service) EnsureSeed(ctx context.Context) error {
	existing, err := s.store.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	seed := model.SeedUsers()
	if err := s.store.SeedUsers(ctx, seed); err != nil {
		return err
	}

	s.logger.Info("seeded user store", slog.Int("count", len(seed)))
	return nil
}
