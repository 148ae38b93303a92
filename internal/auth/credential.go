package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	APIKeyBytes    = 32
	APISecretBytes = 64
)

type APICredentials struct {
	Key    string
	Secret string
}

// GenerateAPICredentials returns a random key (an identifier) and a random secret (the shared secret), both hex encoded.
func GenerateAPICredentials() (APICredentials, error) {
	key, err := randomHex(APIKeyBytes)
	if err != nil {
		return APICredentials{}, fmt.Errorf("failed to generate api key: %w", err)
	}

	secret, err := randomHex(APISecretBytes)
	if err != nil {
		return APICredentials{}, fmt.Errorf("failed to generate api secret: %w", err)
	}

	return APICredentials{Key: key, Secret: secret}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// bcrypt only looks at the first 72 bytes, api secrets are 128 characters long,
// so every input is reduced to its sha256 hex digest first.
func prehash(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	return []byte(hex.EncodeToString(sum[:]))
}

// HashSecret hashes a password or an api secret for storage.
func HashSecret(plain string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword(prehash(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CompareSecret reports whether plain matches the stored hash.
func CompareSecret(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(plain)) == nil
}
