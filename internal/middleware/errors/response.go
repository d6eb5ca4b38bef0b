package errors

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrorResponse tüm hata cevaplarının JSON zarfı
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id,omitempty"`
	Stack     string `json:"stack,omitempty"`
}

// PanicInfo toparlanan panic hakkında log bilgisi
type PanicInfo struct {
	Value     interface{}
	Stack     string
	RequestID string
	Method    string
	Path      string
	ClientIP  string
}

// WriteJSON hata zarfını yazar. code makine tarafından okunacak kısa sınıf adıdır
// (ör. insufficient_balance), boş olabilir.
func WriteJSON(w http.ResponseWriter, status int, code, message string) {
	writeResponse(w, ErrorResponse{
		Success:   false,
		Error:     message,
		Code:      code,
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

func writeResponse(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Str("request_id", resp.RequestID).Msg("Hata cevabı encode edilemedi")
	}
}

// WriteWithStack development ortamında stack trace ile birlikte yazar
func WriteWithStack(w http.ResponseWriter, status int, message, stack string) {
	writeResponse(w, ErrorResponse{
		Success:   false,
		Error:     message,
		Code:      "internal",
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: w.Header().Get("X-Request-ID"),
		Stack:     stack,
	})
}
