package cryptox

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomTokens_Generate(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"zero raised to 128 bits", 0, 22},
		{"small raised to 128 bits", 4, 22},
		{"128 bits", TokenSize128, 22},
		{"256 bits", TokenSize256, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := RandomTokens{Size: tt.size}.Generate()
			require.NoError(t, err)
			require.Len(t, token, tt.wantLen)

			_, err = base64.RawURLEncoding.DecodeString(token)
			require.NoError(t, err, "token is url-safe base64")
		})
	}
}

func TestRandomTokens_unique(t *testing.T) {
	var gen TokenGenerator = RandomTokens{Size: TokenSize256}

	seen := make(map[string]struct{}, 500)
	for range 500 {
		token, err := gen.Generate()
		require.NoError(t, err)
		require.NotContains(t, seen, token)
		seen[token] = struct{}{}
	}
}

func TestFingerprintToken(t *testing.T) {
	fp := FingerprintToken("session-a")

	require.Equal(t, fp, FingerprintToken("session-a"))
	require.NotEqual(t, fp, FingerprintToken("session-b"))
	require.NotEqual(t, "session-a", fp)
	require.Len(t, fp, 43)

	// sha256("") is a well known constant.
	require.Equal(t, "47DEQpj8HBSa-_TImW-5JCeuQeRkm5NMpJWZG3hSuFU", FingerprintToken(""))
}
