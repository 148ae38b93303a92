package certgen

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrMalformedToken = errors.New("malformed verification token")

// tokens end up in URL paths and QR codes, so the URL safe alphabet is used
var tokenEncoding = base64.URLEncoding

// MakeToken encodes "number:signature". The token is an opaque pointer, not a secret.
func MakeToken(certificateNumber, signature string) string {
	return tokenEncoding.EncodeToString([]byte(certificateNumber + ":" + signature))
}

func ParseToken(token string) (string, string, error) {
	raw, err := tokenEncoding.DecodeString(token)
	if err != nil {
		return "", "", ErrMalformedToken
	}

	number, signature, ok := strings.Cut(string(raw), ":")
	if !ok || number == "" || signature == "" {
		return "", "", ErrMalformedToken
	}

	return number, signature, nil
}
