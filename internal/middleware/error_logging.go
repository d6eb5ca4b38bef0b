package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/utils"
)

// logAPIError yetki ve doğrulama hatalarını loglar
func logAPIError(err errors.APIError, r *http.Request) {
	event := log.Warn().
		Str("error_message", err.Error()).
		Int("status_code", err.Status()).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Str("client_ip", utils.GetClientIP(r))

	switch e := err.(type) {
	case *errors.AuthError:
		event.Str("category", "authentication").Msg("🔒 Kimlik doğrulama başarısız")
	case *errors.ScopeError:
		event.Str("category", "authorization").
			Str("service", e.Service).
			Str("required_scope", e.Required).
			Msg("🚫 Yetki yetersiz")
	case *errors.ValidationError:
		event.Str("category", "validation").
			Str("field", e.Field).
			Msg("Geçersiz istek")
	default:
		event.Str("category", "api_error").Msg("API hatası")
	}
}

// logPanic panic durumunu detaylı şekilde loglar
func logPanic(info *errors.PanicInfo, config *errors.ErrorConfig) {
	event := log.Error().
		Str("type", "panic").
		Str("request_id", info.RequestID).
		Str("method", info.Method).
		Str("path", info.Path).
		Str("client_ip", info.ClientIP).
		Interface("panic_value", info.Value)

	if config.EnablePanicLogs {
		event.Str("stack_trace", info.Stack)
	}

	event.Msg("🚨 CRITICAL: Server panic toparlandı")
}
