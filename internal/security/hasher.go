// Package security hashes and verifies user passwords.
package security

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMismatchedPassword is returned by Compare when the plaintext does not match the hash.
var ErrMismatchedPassword = errors.New("password does not match")

// PasswordHasher turns plaintext passwords into storable hashes and checks them later.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) error
}

const (
	AlgorithmBcrypt = "bcrypt"
	AlgorithmArgon2 = "argon2id"
)

// NewHasher returns the hasher registered under algorithm.
func NewHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	case AlgorithmArgon2, "argon2":
		return NewArgon2Hasher(DefaultArgon2Params()), nil
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", algorithm)
	}
}
