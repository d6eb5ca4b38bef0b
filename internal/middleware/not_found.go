package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/utils"
)

// NotFoundJSONHandler JSON formatında 404 Not Found döner
func NotFoundJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("client_ip", utils.GetClientIP(r)).
			Msg("404 Not Found")

		errors.WriteJSON(w, http.StatusNotFound, "not_found", "Endpoint bulunamadı")
	}
}

// MethodNotAllowedJSONHandler JSON formatında 405 Method Not Allowed döner
func MethodNotAllowedJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("405 Method Not Allowed")

		errors.WriteJSON(w, http.StatusMethodNotAllowed, "method_not_allowed", "HTTP metodu bu endpoint için desteklenmiyor")
	}
}
