package certgen

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token := MakeToken("CERT-LX3K2A-9QZ1TT", "abcdef0123")

	raw, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Equal(t, "CERT-LX3K2A-9QZ1TT:abcdef0123", string(raw))

	number, signature, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "CERT-LX3K2A-9QZ1TT", number)
	assert.Equal(t, "abcdef0123", signature)
}

func TestParseTokenMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "%%%"},
		{"no separator", base64.URLEncoding.EncodeToString([]byte("CERT-1"))},
		{"empty signature", base64.URLEncoding.EncodeToString([]byte("CERT-1:"))},
		{"empty number", base64.URLEncoding.EncodeToString([]byte(":abc"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseToken(tt.token)
			assert.ErrorIs(t, err, ErrMalformedToken)
		})
	}
}
