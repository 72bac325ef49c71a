package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt
type Hasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewHasher creates a hasher; costs outside bcrypt's range fall back to the default
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash creates a bcrypt hash of password
func (h *Hasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks password against hash and returns ErrInvalidCredentials on mismatch
func (h *Hasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}

// Reject spends the same bcrypt work as Verify and always returns ErrInvalidCredentials.
// Used when no account matches, so response time does not reveal which emails exist.
func (h *Hasher) Reject(password string) error {
	h.dummyOnce.Do(func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte("career-engine-dummy-password"), h.cost)
		if err != nil {
			return
		}
		h.dummy = hashed
	})
	if h.dummy != nil {
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
	}
	return ErrInvalidCredentials
}
