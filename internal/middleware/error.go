package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/utils"
)

// ErrorHandlingMiddleware panic'leri toparlar ve JSON hata zarfına çevirir.
// Middleware'ler yetki ve doğrulama hatalarını errors.APIError panic'i ile bildirir.
func ErrorHandlingMiddleware(config *errors.ErrorConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = errors.DefaultErrorConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				// Bağlantı koptu, yazılacak bir şey yok
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				if apiErr, ok := recovered.(errors.APIError); ok {
					logAPIError(apiErr, r)
					errors.WriteJSON(w, apiErr.Status(), apiErrorCode(apiErr), truncateString(apiErr.Error(), config.MaxErrorLength))
					return
				}

				info := &errors.PanicInfo{
					Value:     recovered,
					Stack:     string(debug.Stack()),
					RequestID: w.Header().Get("X-Request-ID"),
					Method:    r.Method,
					Path:      r.URL.Path,
					ClientIP:  utils.GetClientIP(r),
				}
				logPanic(info, config)

				if config.ShowStackTrace {
					errors.WriteWithStack(w, http.StatusInternalServerError,
						truncateString(fmt.Sprintf("panic: %v", recovered), config.MaxErrorLength), info.Stack)
					return
				}
				errors.WriteJSON(w, http.StatusInternalServerError, "internal", config.PanicMessage)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func apiErrorCode(err errors.APIError) string {
	switch err.(type) {
	case *errors.AuthError:
		return "unauthorized"
	case *errors.ScopeError:
		return "forbidden"
	case *errors.ValidationError:
		return "invalid_request"
	}
	return ""
}

// truncateString string'i belirtilen uzunlukta keser
func truncateString(s string, maxLength int) string {
	if maxLength <= 3 || len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
