package webhook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickerart/art-ledger/internal/models"
)

const testSecret = "test_secret_key_12345678901234567890123456789012"

func TestVerifier_ValidSignature(t *testing.T) {
	v := NewVerifier(testSecret)
	body := []byte(`{
		"event": "telegram_stars_payment_succeeded",
		"user_id": 141614461,
		"amount_stars": 100
	}`)

	sig, err := v.Sign(body)
	require.NoError(t, err)

	assert.NoError(t, v.Verify(sig, body))
}

func TestVerifier_KeyOrderDoesNotMatter(t *testing.T) {
	v := NewVerifier(testSecret)

	sig1, err := v.Sign([]byte(`{"a":1,"b":2,"c":3}`))
	require.NoError(t, err)
	sig2, err := v.Sign([]byte(`{"c":3,"a":1,"b":2}`))
	require.NoError(t, err)

	assert.Equal(t, sig1, sig2)
	assert.NoError(t, v.Verify(sig1, []byte(`{"c":3,"a":1,"b":2}`)))
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier(testSecret)
	sig, err := v.Sign([]byte(`{"amount_stars":100}`))
	require.NoError(t, err)

	tests := []struct {
		name      string
		signature string
		body      string
	}{
		{"değiştirilmiş veri", sig, `{"amount_stars":999}`},
		{"boş imza", "", `{"amount_stars":100}`},
		{"sadece boşluk", "   ", `{"amount_stars":100}`},
		{"hex olmayan imza", "invalid_signature_12345", `{"amount_stars":100}`},
		{"bozuk body", sig, `{"amount_stars":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(tt.signature, []byte(tt.body))
			assert.ErrorIs(t, err, models.ErrInvalidSignature)
		})
	}
}

func TestVerifier_CaseInsensitiveHex(t *testing.T) {
	v := NewVerifier(testSecret)
	body := []byte(`{"event":"test"}`)
	sig, err := v.Sign(body)
	require.NoError(t, err)

	assert.NoError(t, v.Verify(strings.ToUpper(sig), body))
	assert.NoError(t, v.Verify(strings.ToLower(sig), body))
}

func TestVerifier_DisabledWithoutSecret(t *testing.T) {
	v := NewVerifier("  ")

	assert.False(t, v.Enabled())
	assert.NoError(t, v.Verify("any_signature", []byte(`{"event":"test"}`)))
}

func TestCanonicalize(t *testing.T) {
	out, err := Canonicalize([]byte(`{ "message": "Привет мир! 🎉 <b>", "n": 1.50, "z": {"y": 2, "x": [3, 1]} }`))

	require.NoError(t, err)
	assert.Equal(t, `{"message":"Привет мир! 🎉 <b>","n":1.50,"z":{"x":[3,1],"y":2}}`, string(out))
}

func TestCanonicalize_TrailingData(t *testing.T) {
	_, err := Canonicalize([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}
