package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/auth"
	"github.com/stickerart/art-ledger/internal/middleware/errors"
)

// ContextKey middleware'de context için key tipi
type ContextKey string

const ClaimsContextKey ContextKey = "service_claims"

// AuthMiddleware bearer servis token'ını doğrular ve claims'i context'e koyar
func AuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				panic(&errors.AuthError{Message: "Authorization header gerekli"})
			}

			scheme, tokenString, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
				panic(&errors.AuthError{Message: "Authorization format: 'Bearer <token>'"})
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Token doğrulama başarısız")
				panic(&errors.AuthError{Message: "Geçersiz token"})
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)

			log.Debug().
				Str("service", claims.Service).
				Strs("scopes", claims.Scopes).
				Str("path", r.URL.Path).
				Msg("🔐 Servis doğrulandı")

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext AuthMiddleware'in koyduğu claims
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}

// RequireScope token'ın verilen scope'a sahip olmasını şart koşar.
// AuthMiddleware'den sonra çalışmalıdır.
func RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				panic(&errors.AuthError{Message: "Kimlik doğrulama gerekli"})
			}
			if !claims.HasScope(scope) {
				panic(&errors.ScopeError{Service: claims.Service, Required: scope})
			}
			next.ServeHTTP(w, r)
		})
	}
}
