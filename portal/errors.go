package portal

import (
	"errors"
	"fmt"
)

// Sentinel errors for portal operations.
var (
	// ErrInvalidURL indicates the URL is not a course registration URL.
	ErrInvalidURL = errors.New("portal: invalid course URL")
	// ErrUnknownAuthMethod indicates an unsupported protection kind.
	ErrUnknownAuthMethod = errors.New("portal: unknown authentication method")
	// ErrInvalidAuth indicates the portal rejected the credentials.
	ErrInvalidAuth = errors.New("portal: invalid credentials")
)

// AuthError wraps a login failure for a specific course endpoint.
type AuthError struct {
	Course string
	Err    error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("portal: login to %s failed: %v", e.Course, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// HTTPError indicates a non-2xx response from the portal.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("portal: http error: status %d", e.StatusCode)
}
