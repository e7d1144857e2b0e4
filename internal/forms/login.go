package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCredentials is the only error a failed login reports to the user
var ErrInvalidCredentials = errors.New("Invalid credentials")

// Authenticator exchanges credentials for a token
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenSaver persists the session token
type TokenSaver interface {
	SaveToken(token string) error
}

// Credentials are the values typed into the login form
type Credentials struct {
	Email    string
	Password string
}

// Validate checks both fields are filled in
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

// Login authenticates and stores the token. Any failure after validation,
// including a token that cannot be stored, is reported as ErrInvalidCredentials
// wrapping the cause, so callers can log the detail.
func Login(ctx context.Context, auth Authenticator, store TokenSaver, creds Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	token, err := auth.Login(ctx, strings.TrimSpace(creds.Email), creds.Password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if err := store.SaveToken(token); err != nil {
		return fmt.Errorf("%w: save token: %w", ErrInvalidCredentials, err)
	}
	return nil
}
