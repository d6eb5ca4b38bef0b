package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Servis token scope'ları
const (
	ScopeAward = "art:award"
	ScopeRead  = "art:read"
)

const issuer = "art-ledger"

var (
	ErrInvalidToken = errors.New("geçersiz token")
	ErrStillValid   = errors.New("token hala geçerli, refresh gerekmiyor")
)

// Claims servis token'ının payload'ı
type Claims struct {
	Service string   `json:"service"`
	Scopes  []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope token'ın verilen scope'a sahip olup olmadığı
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// TokenManager iç servislerin (bot, üretim worker'ı) kullandığı HS256 token'ları
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager secret boş olamaz
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret boş olamaz")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateToken servis için token oluşturur
func (m *TokenManager) GenerateToken(service string, scopes ...string) (string, error) {
	if service == "" {
		return "", fmt.Errorf("servis adı boş olamaz")
	}

	now := m.now()
	claims := &Claims{
		Service: service,
		Scopes:  scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   service,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token oluşturulamadı: %w", err)
	}
	return tokenString, nil
}

func (m *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("beklenmeyen signing method: %v", token.Header["alg"])
	}
	return m.secret, nil
}

func (m *TokenManager) parse(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc,
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
}

// ValidateToken token'ı doğrular ve claims'i döner
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := m.parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// RefreshToken süresi dolmuş ama imzası geçerli token için aynı scope'larla yenisini üretir
func (m *TokenManager) RefreshToken(tokenString string) (string, int64, error) {
	token, err := m.parse(tokenString)

	if err == nil && token.Valid {
		log.Warn().Msg("Token refresh denendi ama token hala geçerli")
		return "", 0, ErrStillValid
	}

	if token == nil {
		log.Error().Err(err).Msg("Token parse edilemedi")
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if errors.Is(err, jwt.ErrTokenExpired) {
		claims, ok := token.Claims.(*Claims)
		if !ok {
			return "", 0, fmt.Errorf("%w: claims alınamadı", ErrInvalidToken)
		}

		newToken, genErr := m.GenerateToken(claims.Service, claims.Scopes...)
		if genErr != nil {
			return "", 0, genErr
		}

		log.Info().Str("service", claims.Service).Msg("Servis token'ı refresh edildi")
		return newToken, int64(m.ttl.Seconds()), nil
	}

	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		log.Warn().Msg("Invalid signature ile refresh denendi")
	}
	return "", 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
}
