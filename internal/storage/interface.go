package storage

import (
	"context"

	"github.com/jfellows/userdir/internal/model"
)

// Store defines the interface for user record persistence.
//
// Implementations must serialize mutations: two concurrent inserts never
// assign the same id, and lookups never observe a half-written record.
type Store interface {
	// GetUser returns the record with the given id, or model.ErrUserNotFound.
	GetUser(ctx context.Context, id int) (*model.User, error)

	// ListUsers returns all records in insertion order.
	ListUsers(ctx context.Context) ([]model.User, error)

	// FilterUsers returns records whose named field contains substring.
	// Matching is case-sensitive; an unknown field matches nothing.
	FilterUsers(ctx context.Context, field, substring string) ([]model.User, error)

	// InsertUser appends a record with id = last record's id + 1. An empty
	// store yields model.ErrEmptyStore.
	InsertUser(ctx context.Context, fields model.UserFields) (*model.User, error)

	// ReplaceUser overwrites every field of the record, keeping only its id.
	ReplaceUser(ctx context.Context, id int, fields model.UserFields) error

	// MergeUser shallow-merges the provided fields onto the record.
	MergeUser(ctx context.Context, id int, patch model.UserPatch) error

	// DeleteUser removes the record. Remaining ids never shift.
	DeleteUser(ctx context.Context, id int) error

	// UsernameTaken reports whether any record other than excludeID holds
	// the username.
	UsernameTaken(ctx context.Context, username string, excludeID int) (bool, error)

	// SeedUsers replaces the store's contents with the given records.
	SeedUsers(ctx context.Context, users []model.User) error
}
