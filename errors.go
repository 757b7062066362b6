package lectsync

import (
	"lectsync/catalog"
	"lectsync/portal"
	"lectsync/retry"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, lectsync.ErrInvalidURL) {
//		fmt.Println("not a course registration URL")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var authErr *lectsync.AuthError
//	if errors.As(err, &authErr) {
//		fmt.Printf("login to %s failed: %v\n", authErr.Course, authErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// AuthError wraps a login failure for a specific course endpoint.
	AuthError = portal.AuthError
	// HTTPError wraps a non-2xx response from the portal.
	HTTPError = portal.HTTPError
	// StorageError wraps errors during catalog storage operations.
	StorageError = catalog.StorageError
	// RetryableError wraps an error that persisted after retries were exhausted.
	RetryableError = retry.RetryableError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrInvalidURL indicates the URL is not a course registration URL.
	ErrInvalidURL = portal.ErrInvalidURL
	// ErrUnknownAuthMethod indicates an unsupported protection kind.
	ErrUnknownAuthMethod = portal.ErrUnknownAuthMethod
	// ErrInvalidAuth indicates the portal rejected the credentials.
	ErrInvalidAuth = portal.ErrInvalidAuth

	// Catalog errors
	// ErrNotFound indicates the course is not in the catalog.
	ErrNotFound = catalog.ErrNotFound
	// ErrAlreadyExists indicates the course URL is already registered.
	ErrAlreadyExists = catalog.ErrAlreadyExists
	// ErrStorageCorrupt indicates the catalog file could not be decoded.
	ErrStorageCorrupt = catalog.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring the catalog file lock.
	ErrLockTimeout = catalog.ErrLockTimeout
)
