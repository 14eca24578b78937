package model

import "errors"

// Common errors used across the application
var (
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyStore is returned when a record is inserted into an empty
	// store: there is no last record to derive the next id from.
	ErrEmptyStore = errors.New("user store is empty")
)
