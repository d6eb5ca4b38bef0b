package validation

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/middleware/errors"
)

// Config validation middleware ayarları
type Config struct {
	MaxBodySize         int64    // Maximum request body size (bytes)
	ContentTypes        []string // Allowed content types
	JSONValidation      bool     // Enable JSON validation
	RequireNonEmptyJSON bool     // Require non-empty JSON body for JSON requests
}

// DefaultConfig varsayılan validation ayarları
func DefaultConfig() *Config {
	return &Config{
		MaxBodySize:    1024 * 1024, // 1MB
		ContentTypes:   []string{"application/json"},
		JSONValidation: true,
	}
}

// StrictConfig yazma endpoint'leri için
func StrictConfig() *Config {
	config := DefaultConfig()
	config.MaxBodySize = 64 * 1024
	config.RequireNonEmptyJSON = true
	return config
}

// Middleware ana validation middleware'i
func Middleware(config *Config) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && config.MaxBodySize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, config.MaxBodySize)
			}

			if err := ValidateContent(r, config); err != nil {
				log.Warn().
					Err(err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Content validation failed")
				panic(&errors.ValidationError{
					Message:    err.Error(),
					StatusCode: statusFor(err),
					Field:      "body",
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}

func statusFor(err error) int {
	switch err.(type) {
	case *tooLargeError:
		return http.StatusRequestEntityTooLarge
	case *mediaTypeError:
		return http.StatusUnsupportedMediaType
	}
	return http.StatusBadRequest
}
