// Package security wraps the one-way password verifier.
package security

import (
	"errors"
	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch means the password does not match the stored verifier. Any
// other error from Compare is an internal failure.
var ErrMismatch = errors.New("password mismatch")

// ErrPasswordTooLong is returned by Hash for passwords over bcrypt's 72 byte
// input limit.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

type BcryptHasher struct {
	cost  int
	dummy []byte
}

// NewBcryptHasher builds a hasher; cost outside bcrypt's range falls back to
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("slotly-dummy-verifier"), cost)
	if err != nil {
		return nil, err
	}
	return &BcryptHasher{cost: cost, dummy: dummy}, nil
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(b), err
}

func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrMismatch
	}
	return err
}

// CompareDummy burns the same work as Compare for callers that have no
// stored verifier to check against.
func (h *BcryptHasher) CompareDummy(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
