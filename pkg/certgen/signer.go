package certgen

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	jsoniter "github.com/json-iterator/go"
)

// Standard library compatible config sorts map keys, so nested data always serialises the same way.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrEmptySigningSecret = errors.New("certificate signing secret is empty")

// Payload is the signed part of a certificate.
// The field order below is the serialisation order and must never change,
// every stored signature depends on it.
type Payload struct {
	TemplateID        string         `json:"templateId"`
	Data              map[string]any `json:"data"`
	CertificateNumber string         `json:"certificateNumber"`
	CustomerID        string         `json:"customerId"`
}

// Canonical returns the exact bytes that get signed.
func (p Payload) Canonical() ([]byte, error) {
	if p.Data == nil {
		p.Data = map[string]any{}
	}
	return jsonAPI.Marshal(p)
}

type Signer struct {
	secret []byte
}

func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, ErrEmptySigningSecret
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign returns the lowercase hex HMAC-SHA256 of the canonical payload.
func (s *Signer) Sign(p Payload) (string, error) {
	b, err := p.Canonical()
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write(b)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the signature and compares it in constant time. It never panics,
// a payload that cannot be serialised is reported as invalid.
func (s *Signer) Verify(p Payload, signature string) bool {
	expected, err := s.Sign(p)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}
