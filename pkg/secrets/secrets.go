// Package secrets generates and verifies the shared admin token.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "patentdesk/pkg/domain-errors"
)

// Generate returns a random URL-safe token of 32 bytes of entropy.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash bcrypt-hashes a token for storage in configuration.
func Hash(token string) (string, error) {
	if token == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "token cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "token is too long")
		}
		return "", fmt.Errorf("could not hash token: %w", err)
	}
	return string(hashed), nil
}

// Verify checks token against a bcrypt hash. A mismatch is CodeUnauthorized.
func Verify(token, hash string) error {
	if token == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "admin token required")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid admin token")
		}
		return fmt.Errorf("could not verify token: %w", err)
	}
	return nil
}
