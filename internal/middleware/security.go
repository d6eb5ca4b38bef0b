package middleware

import (
	"fmt"
	"net/http"
)

// SecurityConfig güvenlik header'ları. Servis sadece JSON döndüğü için CSP her şeyi kapatır.
type SecurityConfig struct {
	ContentSecurityPolicy string
	HSTSMaxAge            int
	FrameOptions          string
	ReferrerPolicy        string
}

// DefaultSecurityConfig production ayarları
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000,
		FrameOptions:          "DENY",
		ReferrerPolicy:        "no-referrer",
	}
}

// DevelopmentSecurityConfig HTTP üzerinden çalışırken HSTS kapalı
func DevelopmentSecurityConfig() *SecurityConfig {
	config := DefaultSecurityConfig()
	config.HSTSMaxAge = 0
	return config
}

// SecurityHeadersMiddleware güvenlik header'larını ekler
func SecurityHeadersMiddleware(config *SecurityConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultSecurityConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if config.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", config.ContentSecurityPolicy)
			}
			if config.HSTSMaxAge > 0 {
				h.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", config.HSTSMaxAge))
			}
			if config.FrameOptions != "" {
				h.Set("X-Frame-Options", config.FrameOptions)
			}
			if config.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", config.ReferrerPolicy)
			}
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Cache-Control", "no-store")

			next.ServeHTTP(w, r)
		})
	}
}
