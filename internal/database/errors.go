package database

import "errors"

var (
	// ErrNotFound signals that the queried row does not exist. Services
	// translate it into the caller-facing not-found error.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrentModification signals a lost optimistic-lock race: the row
	// version moved between read and write.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)
