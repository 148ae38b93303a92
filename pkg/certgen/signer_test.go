package certgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() Payload {
	return Payload{
		TemplateID:        "tpl-1",
		Data:              map[string]any{"name": "Ada Lovelace", "course": "Analytical Engines", "score": 98.5},
		CertificateNumber: "CERT-LX3K2A-9QZ1TT",
		CustomerID:        "cus-1",
	}
}

func TestCanonicalFieldOrder(t *testing.T) {
	p := Payload{
		TemplateID:        "t",
		Data:              map[string]any{"b": 1, "a": "x"},
		CertificateNumber: "n",
		CustomerID:        "c",
	}

	b, err := p.Canonical()
	require.NoError(t, err)
	assert.Equal(t, `{"templateId":"t","data":{"a":"x","b":1},"certificateNumber":"n","customerId":"c"}`, string(b))
}

func TestCanonicalNilData(t *testing.T) {
	b, err := Payload{TemplateID: "t", CertificateNumber: "n", CustomerID: "c"}.Canonical()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"data":{}`)
}

func TestSignDeterministic(t *testing.T) {
	s, err := NewSigner("secret")
	require.NoError(t, err)

	first, err := s.Sign(samplePayload())
	require.NoError(t, err)
	second, err := s.Sign(samplePayload())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.True(t, s.Verify(samplePayload(), first))
}

func TestSignChangesWithAnyField(t *testing.T) {
	s, err := NewSigner("secret")
	require.NoError(t, err)

	base, err := s.Sign(samplePayload())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(p *Payload)
	}{
		{"template id", func(p *Payload) { p.TemplateID = "tpl-2" }},
		{"certificate number", func(p *Payload) { p.CertificateNumber = "CERT-LX3K2A-9QZ1TU" }},
		{"customer id", func(p *Payload) { p.CustomerID = "cus-2" }},
		{"data value", func(p *Payload) { p.Data["name"] = "Ada King" }},
		{"data key added", func(p *Payload) { p.Data["extra"] = true }},
		{"data key removed", func(p *Payload) { delete(p.Data, "course") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := samplePayload()
			tt.mutate(&p)

			got, err := s.Sign(p)
			require.NoError(t, err)
			assert.NotEqual(t, base, got)
			assert.False(t, s.Verify(p, base))
		})
	}
}

func TestSignDependsOnSecret(t *testing.T) {
	a, _ := NewSigner("secret-a")
	b, _ := NewSigner("secret-b")

	sigA, err := a.Sign(samplePayload())
	require.NoError(t, err)

	assert.False(t, b.Verify(samplePayload(), sigA))
}

func TestVerifyFailsClosed(t *testing.T) {
	s, _ := NewSigner("secret")

	p := samplePayload()
	p.Data["bad"] = make(chan int)

	assert.False(t, s.Verify(p, "anything"))
	assert.False(t, s.Verify(samplePayload(), ""))
}

func TestNewSignerRequiresSecret(t *testing.T) {
	_, err := NewSigner("")
	assert.ErrorIs(t, err, ErrEmptySigningSecret)
}
