package errors

import "net/http"

// APIError middleware'lerin panic ile fırlattığı, status kodu taşıyan hatalar
type APIError interface {
	error
	Status() int
}

// AuthError bearer token eksik veya geçersiz
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Status() int { return http.StatusUnauthorized }

// ScopeError token geçerli ama gereken scope yok
type ScopeError struct {
	Service  string
	Required string
}

func (e *ScopeError) Error() string {
	return "bu işlem için '" + e.Required + "' yetkisi gerekli"
}

func (e *ScopeError) Status() int { return http.StatusForbidden }

// ValidationError istek formatı hatalı
type ValidationError struct {
	Message    string
	StatusCode int
	Field      string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Status() int {
	if e.StatusCode == 0 {
		return http.StatusBadRequest
	}
	return e.StatusCode
}
