// Package guard checks the shared secret presented by callers of trigger endpoints.
package guard

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
)

var (
	// ErrMisconfigured returned when no secret is configured, every caller is rejected
	ErrMisconfigured = errors.New("server misconfigured")
	// ErrUnauthorized returned when provided secret is empty or doesn't match
	ErrUnauthorized = errors.New("unauthorized")
)

// Guard validates a provided secret against the configured one
type Guard struct {
	Secret string
}

// Check returns nil only if provided matches the configured secret.
// Both values are hashed first so comparison time depends on neither length nor content.
func (g Guard) Check(provided string) error {
	if g.Secret == "" {
		return ErrMisconfigured
	}
	if provided == "" {
		return ErrUnauthorized
	}

	want := sha256.Sum256([]byte(g.Secret))
	got := sha256.Sum256([]byte(provided))
	if subtle.ConstantTimeCompare(want[:], got[:]) != 1 {
		return ErrUnauthorized
	}
	return nil
}
