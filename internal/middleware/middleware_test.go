package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickerart/art-ledger/internal/auth"
	"github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/middleware/validation"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errors.ErrorResponse {
	t.Helper()
	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := auth.NewTokenManager("secret", time.Hour)
	require.NoError(t, err)
	valid, err := tokens.GenerateToken("bot", auth.ScopeAward)
	require.NoError(t, err)

	var seen *auth.Claims
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
	})
	handler := chain(capture, ErrorHandlingMiddleware(nil), AuthMiddleware(tokens))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/internal/v1/awards", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "bot", seen.Service)
			} else {
				assert.Nil(t, seen)
				assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
			}
		})
	}
}

func TestRequireScope(t *testing.T) {
	withClaims := func(scopes ...string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := context.WithValue(r.Context(), ClaimsContextKey, &auth.Claims{Service: "bot", Scopes: scopes})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	t.Run("granted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(okHandler, ErrorHandlingMiddleware(nil), withClaims(auth.ScopeAward), RequireScope(auth.ScopeAward)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing scope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(okHandler, ErrorHandlingMiddleware(nil), withClaims(auth.ScopeRead), RequireScope(auth.ScopeAward)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "forbidden", resp.Code)
		assert.Contains(t, resp.Error, auth.ScopeAward)
	})

	t.Run("no claims", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(okHandler, ErrorHandlingMiddleware(nil), RequireScope(auth.ScopeAward)).
			ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestErrorHandlingMiddleware_Panic(t *testing.T) {
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("beklenmeyen durum")
	})

	t.Run("production hides details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(boom, ErrorHandlingMiddleware(errors.DefaultErrorConfig())).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, "internal", resp.Code)
		assert.Empty(t, resp.Stack)
		assert.NotContains(t, resp.Error, "beklenmeyen durum")
	})

	t.Run("development shows stack", func(t *testing.T) {
		rec := httptest.NewRecorder()
		chain(boom, ErrorHandlingMiddleware(errors.DevelopmentErrorConfig())).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeError(t, rec)
		assert.Contains(t, resp.Error, "beklenmeyen durum")
		assert.NotEmpty(t, resp.Stack)
	})

	t.Run("abort handler propagates", func(t *testing.T) {
		abort := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			chain(abort, ErrorHandlingMiddleware(nil)).
				ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}

func TestRequestLoggingMiddleware_RequestID(t *testing.T) {
	var fromCtx string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = RequestIDFromContext(r.Context())
	})
	handler := chain(capture, RequestLoggingMiddleware(nil))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/v1/awards", nil))

		id := rec.Header().Get("X-Request-ID")
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, fromCtx)
	})

	t.Run("valid incoming id is kept", func(t *testing.T) {
		incoming := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/internal/v1/awards", nil)
		req.Header.Set("X-Request-ID", incoming)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, incoming, rec.Header().Get("X-Request-ID"))
	})

	t.Run("invalid incoming id is replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/internal/v1/awards", nil)
		req.Header.Set("X-Request-ID", "<script>")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.NotEqual(t, "<script>", rec.Header().Get("X-Request-ID"))
	})
}

func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := NewRateLimiter(ctx, &RateLimitConfig{
		RequestsPerSecond: 0.001,
		Burst:             2,
		SkipPaths:         []string{"/health"},
	})
	handler := limiter.Handler()(okHandler)

	send := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, send("/internal/webhooks/stars-payment", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("/internal/webhooks/stars-payment", "10.0.0.1").Code)

	rec := send("/internal/webhooks/stars-payment", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "rate_limited", decodeError(t, rec).Code)

	// Farklı IP'nin kendi bucket'ı var
	assert.Equal(t, http.StatusOK, send("/internal/webhooks/stars-payment", "10.0.0.2").Code)
	// Skip path limitlenmez
	assert.Equal(t, http.StatusOK, send("/health", "10.0.0.1").Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(context.Background(), &RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
		IdleTimeout:       time.Minute,
	})
	limiter.limiterFor("10.0.0.1")

	limiter.cleanup(time.Now().Add(2 * time.Minute))

	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	assert.Empty(t, limiter.limiters)
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	chain(okHandler, SecurityHeadersMiddleware(nil)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Header().Get("Strict-Transport-Security"), "max-age=31536000")

	rec = httptest.NewRecorder()
	chain(okHandler, SecurityHeadersMiddleware(DevelopmentSecurityConfig())).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestValidationMiddleware(t *testing.T) {
	var body string
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
	})
	handler := chain(echo, ErrorHandlingMiddleware(nil), validation.Middleware(validation.StrictConfig()))

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{"valid json", "application/json", `{"userId":1}`, http.StatusOK},
		{"charset suffix", "application/json; charset=utf-8", `{"userId":1}`, http.StatusOK},
		{"broken json", "application/json", `{"userId":`, http.StatusBadRequest},
		{"empty body", "application/json", ``, http.StatusBadRequest},
		{"wrong content type", "text/plain", `hello`, http.StatusUnsupportedMediaType},
		{"too large", "application/json", `{"x":"` + strings.Repeat("a", 70*1024) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body = ""
			req := httptest.NewRequest(http.MethodPost, "/internal/v1/awards", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.body, body, "body handler'a aynen ulaşmalı")
			}
		})
	}
}

func TestNotFoundJSONHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFoundJSONHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}
