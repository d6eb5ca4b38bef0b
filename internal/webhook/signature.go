// Package webhook bot servisinden gelen webhook isteklerinin HMAC imzası.
package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/models"
)

// SignatureHeader imzanın taşındığı header
const SignatureHeader = "X-Webhook-Signature"

// Verifier HMAC-SHA256 imzasını kanonik JSON üzerinden doğrular.
// Secret boşsa kontrol yapılmaz.
type Verifier struct {
	secret []byte
}

// NewVerifier yeni doğrulayıcı oluşturur
func NewVerifier(secret string) *Verifier {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		log.Warn().Msg("⚠️ WEBHOOK_SECRET ayarlanmamış, webhook imzası kontrol edilmeyecek")
	}
	return &Verifier{secret: []byte(secret)}
}

// Enabled imza kontrolü açık mı
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

// Sign body'nin kanonik halini imzalar, hex döner
func (v *Verifier) Sign(body []byte) (string, error) {
	canonical, err := Canonicalize(body)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify header'daki imzayı body ile karşılaştırır. Hex büyük/küçük harf farkı önemsizdir.
func (v *Verifier) Verify(signature string, body []byte) error {
	if !v.Enabled() {
		return nil
	}

	signature = strings.TrimSpace(signature)
	if signature == "" {
		return fmt.Errorf("%w: %s header'ı yok", models.ErrInvalidSignature, SignatureHeader)
	}

	received, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: hex değil", models.ErrInvalidSignature)
	}

	canonical, err := Canonicalize(body)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidSignature, err)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(canonical)
	if !hmac.Equal(received, mac.Sum(nil)) {
		return models.ErrInvalidSignature
	}
	return nil
}

// Canonicalize JSON'u anahtarları sıralı ve boşluksuz hale getirir.
// Sayılar olduğu gibi korunur.
func Canonicalize(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("JSON parse edilemedi: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("JSON sonrasında beklenmeyen veri")
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
