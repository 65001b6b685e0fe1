package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters used for new hashes.
const (
	memory      = 19 * 1024 // KiB
	iterations  = 2
	parallelism = 1
	keyLength   = 32
	saltLength  = 16
)

// Bounds accepted when reading parameters back out of a stored hash. A
// tampered row must not be able to make verification allocate gigabytes.
const (
	maxMemory      = 1024 * 1024 // 1 GiB
	maxIterations  = 64
	maxParallelism = 64
	maxKeyLength   = 128
)

const argon2idPrefix = "$argon2id$"

// Argon2idHasher hashes passwords with Argon2id and encodes them in PHC
// format: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash. The pepper, if set, is
// appended to the password before hashing and is never stored.
type Argon2idHasher struct {
	Pepper string
}

// Hash generates a PHC-format Argon2id hash with a fresh random salt.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password+h.Pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches the encoded hash.
func (h *Argon2idHasher) Verify(password, encoded string) bool {
	return h.Compare(password, encoded) == nil
}

// Compare is Verify with a reason: ErrMalformedHash for an unparseable
// encoding and ErrMismatch for a wrong password.
func (h *Argon2idHasher) Compare(password, encoded string) error {
	p, err := decodeArgon2id(encoded)
	if err != nil {
		return err
	}

	computed := argon2.IDKey([]byte(password+h.Pepper), p.salt, p.iterations, p.memory, p.parallelism, uint32(len(p.key))) // #nosec G115 -- bounded by maxKeyLength
	if subtle.ConstantTimeCompare(computed, p.key) == 1 {
		return nil
	}
	return ErrMismatch
}

type argon2idParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func decodeArgon2id(encoded string) (argon2idParams, error) {
	var p argon2idParams

	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, fmt.Errorf("%w: expected 6 parts", ErrMalformedHash)
	}
	if parts[1] != "argon2id" {
		return p, fmt.Errorf("%w: not argon2id", ErrMalformedHash)
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return p, fmt.Errorf("%w: wrong version", ErrMalformedHash)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, fmt.Errorf("%w: parameters: %v", ErrMalformedHash, err)
	}
	if p.iterations < 1 || p.iterations > maxIterations ||
		p.parallelism < 1 || p.parallelism > maxParallelism ||
		p.memory < 8*uint32(p.parallelism) || p.memory > maxMemory {
		return p, fmt.Errorf("%w: parameters out of range", ErrMalformedHash)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return p, fmt.Errorf("%w: salt", ErrMalformedHash)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.key) == 0 || len(p.key) > maxKeyLength {
		return p, fmt.Errorf("%w: hash", ErrMalformedHash)
	}

	return p, nil
}
