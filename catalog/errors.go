package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
var (
	// ErrNotFound indicates the course is not in the catalog.
	ErrNotFound = errors.New("catalog: course not found")
	// ErrAlreadyExists indicates the course URL is already registered.
	ErrAlreadyExists = errors.New("catalog: course already exists")
	// ErrStorageCorrupt indicates the catalog file could not be decoded.
	ErrStorageCorrupt = errors.New("catalog: storage corrupt")
	// ErrLockTimeout indicates a timeout acquiring the catalog file lock.
	ErrLockTimeout = errors.New("catalog: lock timeout")
)

// StorageError wraps errors during catalog storage operations.
type StorageError struct {
	Op     string // "read", "write", "lock", ...
	Entity string // "catalog", "course"
	ID     string // course URL or file path, if applicable
	Err    error
}

func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("catalog: %s %s %q: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("catalog: %s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
