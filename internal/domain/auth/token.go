package auth

import (
	"context"
	"fmt"
	"time"
)

// Token is a short-lived bearer credential issued by the provider's
// client-credentials endpoint.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token can still be used at the given instant,
// keeping a safety margin so a token is never sent while racing its expiry.
func (t Token) Valid(now time.Time, margin time.Duration) bool {
	return t.Value != "" && now.Before(t.ExpiresAt.Add(-margin))
}

// Source hands out a usable bearer token, refreshing behind the scenes
// when the cached one has expired.
type Source interface {
	Token(ctx context.Context) (Token, error)
}

// AuthenticationError means token acquisition failed. No retry is
// attempted automatically.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("token acquisition failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }
