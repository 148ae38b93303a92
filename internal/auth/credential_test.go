package auth

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerateAPICredentials(t *testing.T) {
	first, err := GenerateAPICredentials()
	require.NoError(t, err)
	second, err := GenerateAPICredentials()
	require.NoError(t, err)

	assert.Len(t, first.Key, APIKeyBytes*2)
	assert.Len(t, first.Secret, APISecretBytes*2)
	_, err = hex.DecodeString(first.Key)
	assert.NoError(t, err)
	_, err = hex.DecodeString(first.Secret)
	assert.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
	assert.NotEqual(t, first.Secret, second.Secret)
	assert.NotEqual(t, first.Key, first.Secret[:len(first.Key)])
}

func TestHashSecret(t *testing.T) {
	creds, err := GenerateAPICredentials()
	require.NoError(t, err)

	tests := []struct {
		name  string
		plain string
	}{
		{"password", "correct horse battery staple"},
		{"api secret longer than 72 bytes", creds.Secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashSecret(tt.plain, bcrypt.MinCost)
			require.NoError(t, err)

			assert.NotContains(t, hash, tt.plain)
			assert.True(t, CompareSecret(hash, tt.plain))
			assert.False(t, CompareSecret(hash, tt.plain+"x"))
			assert.False(t, CompareSecret("", tt.plain))
		})
	}
}

// secrets differing only after byte 72 must not compare equal
func TestHashSecretUsesWholeInput(t *testing.T) {
	prefix := strings.Repeat("a", 100)

	hash, err := HashSecret(prefix+"1", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, CompareSecret(hash, prefix+"2"))
}
