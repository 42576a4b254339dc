package docload

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Verifier checks a password for one document.
type Verifier interface {
	// Verify returns nil for the right password and an error wrapping
	// ErrIncorrectPassword for a wrong one. Other errors mean the check
	// itself failed.
	Verify(password string) error
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(password string) error

func (f VerifierFunc) Verify(password string) error {
	return f(password)
}

// BcryptVerifier compares passwords against a bcrypt hash.
type BcryptVerifier struct {
	Hash []byte
}

func (v BcryptVerifier) Verify(password string) error {
	err := bcrypt.CompareHashAndPassword(v.Hash, []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrIncorrectPassword
	default:
		return fmt.Errorf("verify password: %w", err)
	}
}

// HashPassword returns a bcrypt hash suitable for Manifest.PasswordHash.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// VerifierFor returns the verifier for a manifest, or nil when the document
// is not protected.
func VerifierFor(m *Manifest) Verifier {
	if !m.Protected() {
		return nil
	}
	return BcryptVerifier{Hash: []byte(m.PasswordHash)}
}
