package portal

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"strings"

	"lectsync/catalog"
)

// ethFailureMarker is the only failure signal the institutional security
// check provides: its presence in the response body means bad credentials.
const ethFailureMarker = "invalid_login"

// CredentialSource supplies credentials on demand, decoupling the
// authenticator from how they are obtained (interactive prompt, stored
// values, test fixtures).
type CredentialSource interface {
	// Username returns the login name.
	Username() (string, error)
	// Password returns the password for the given username.
	Password(username string) (string, error)
}

// StaticCredentials is a CredentialSource over fixed values.
type StaticCredentials struct {
	User string
	Pass string
}

func (s StaticCredentials) Username() (string, error) { return s.User, nil }

func (s StaticCredentials) Password(string) (string, error) { return s.Pass, nil }

// Authenticator performs the portal's credential-submission protocols.
// One strategy exists per protection kind, selected once per Login call.
// A successful login leaves the session cookies in the client's jar.
type Authenticator struct {
	client *Client

	// LastUsername and LastPassword record the most recent attempt, so
	// callers can persist what actually worked.
	LastUsername string
	LastPassword string
}

// NewAuthenticator creates an authenticator over the given client.
func NewAuthenticator(client *Client) *Authenticator {
	return &Authenticator{client: client}
}

// Login authenticates against the course at base using the protocol for
// its protection kind. Invalid credentials are retried with freshly
// obtained ones up to maxAttempts times; an unsupported protection kind
// fails immediately with ErrUnknownAuthMethod and never asks for
// credentials.
func (a *Authenticator) Login(ctx context.Context, base string, protection catalog.Protection, creds CredentialSource, maxAttempts int) error {
	var attempt func(ctx context.Context, base, username, password string) error
	switch protection {
	case catalog.ProtectionNone:
		return nil
	case catalog.ProtectionPassword:
		attempt = a.loginPassword
	case catalog.ProtectionETH:
		attempt = a.loginSecurityCheck
	default:
		return &AuthError{Course: base, Err: ErrUnknownAuthMethod}
	}

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		username, err := creds.Username()
		if err != nil {
			return &AuthError{Course: base, Err: err}
		}
		password, err := creds.Password(username)
		if err != nil {
			return &AuthError{Course: base, Err: err}
		}
		a.LastUsername = username
		a.LastPassword = password

		err = attempt(ctx, base, username, password)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrInvalidAuth) {
			// Transport failure, not a credential problem.
			return &AuthError{Course: base, Err: err}
		}
		lastErr = err
		if i+1 < maxAttempts {
			log.Printf("lectsync: login to %s rejected (attempt %d/%d)", base, i+1, maxAttempts)
		}
	}

	return &AuthError{Course: base, Err: lastErr}
}

// loginPassword submits the form login. Success is the "success" flag in
// the JSON response; a body that is not parseable JSON counts as an
// authentication failure, not a transport error.
func (a *Authenticator) loginPassword(ctx context.Context, base, username, password string) error {
	form := url.Values{
		"_charset_": {"utf-8"},
		"username":  {username},
		"password":  {password},
	}

	body, err := a.client.PostForm(ctx, seriesLoginURL(base), form)
	if err != nil {
		return err
	}

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return ErrInvalidAuth
	}
	if !result.Success {
		return ErrInvalidAuth
	}
	return nil
}

// loginSecurityCheck submits the institutional login. The protocol has no
// structured success signal; success is the absence of the failure marker
// in the response body.
func (a *Authenticator) loginSecurityCheck(ctx context.Context, base, username, password string) error {
	form := url.Values{
		"_charset_":  {"utf-8"},
		"j_username": {username},
		"j_password": {password},
		"j_validate": {"true"},
	}

	body, err := a.client.PostForm(ctx, securityCheckURL(base), form)
	if err != nil {
		return err
	}

	if strings.Contains(string(body), ethFailureMarker) {
		return ErrInvalidAuth
	}
	return nil
}
