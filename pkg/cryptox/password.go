package cryptox

import (
	"errors"
	"fmt"
	"strings"
)

// PasswordHasher derives and checks one-way salted password hashes.
//
// Hash must produce a different encoding on every call for the same input.
// Verify reports false for any mismatch, including an encoding it cannot
// parse; it never panics on corrupted input.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

// Supported hashing algorithms.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

var (
	// ErrMismatch is returned when a password does not match its hash.
	ErrMismatch = errors.New("cryptox: password does not match")
	// ErrMalformedHash is returned when an encoded hash cannot be parsed.
	ErrMalformedHash = errors.New("cryptox: malformed hash")
	// ErrUnknownAlgorithm is returned for an unsupported algorithm name.
	ErrUnknownAlgorithm = errors.New("cryptox: unknown hashing algorithm")
)

// NewPasswordHasher returns a hasher that creates new hashes with the named
// algorithm and verifies hashes produced by any supported algorithm. This
// lets a deployment switch algorithms without invalidating stored passwords.
func NewPasswordHasher(algorithm, pepper string) (PasswordHasher, error) {
	argon := &Argon2idHasher{Pepper: pepper}
	bc := &BcryptHasher{}

	var primary PasswordHasher
	switch strings.ToLower(algorithm) {
	case "", AlgorithmArgon2id:
		primary = argon
	case AlgorithmBcrypt:
		primary = bc
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}

	return &multiHasher{primary: primary, argon: argon, bcrypt: bc}, nil
}

type multiHasher struct {
	primary PasswordHasher
	argon   *Argon2idHasher
	bcrypt  *BcryptHasher
}

func (h *multiHasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *multiHasher) Verify(password, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, argon2idPrefix):
		return h.argon.Verify(password, encoded)
	case isBcryptHash(encoded):
		return h.bcrypt.Verify(password, encoded)
	default:
		return false
	}
}
