package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Token sizes in random bytes. Encoded lengths are 22 and 43 characters.
const (
	TokenSize128 = 16
	TokenSize256 = 32
)

// TokenGenerator mints opaque session and reset tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// RandomTokens reads Size bytes from crypto/rand and encodes them as
// unpadded base64url. Sizes below TokenSize128 are raised to it.
type RandomTokens struct {
	Size int
}

func (g RandomTokens) Generate() (string, error) {
	buf := make([]byte, max(g.Size, TokenSize128))
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// FingerprintToken is the SHA-256 of token in unpadded base64url. Session
// and reset tokens are persisted only as fingerprints, so a leaked users
// row cannot be replayed as a cookie or reset link.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
