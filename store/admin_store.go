package store

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when a password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminStore holds the single dashboard credential. There are no user
// accounts: one shared password gates the reports.
type AdminStore struct {
	hashedPassword []byte
}

// NewAdminStore builds the credential from a bcrypt hash, or hashes the
// plaintext password when no hash is given. Both empty yields a disabled store.
func NewAdminStore(password, passwordHash string) (*AdminStore, error) {
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		return &AdminStore{hashedPassword: []byte(passwordHash)}, nil
	}
	if password == "" {
		return &AdminStore{}, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &AdminStore{hashedPassword: hashed}, nil
}

// Enabled reports whether a credential is configured.
func (s *AdminStore) Enabled() bool {
	return len(s.hashedPassword) > 0
}

// VerifyPassword returns ErrInvalidCredentials on mismatch or when disabled.
func (s *AdminStore) VerifyPassword(password string) error {
	if !s.Enabled() {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.hashedPassword, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to compare admin password: %w", err)
	}
	return nil
}
