package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	apierrors "github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/models"
)

// writeSuccess standart başarılı cevap zarfı
func writeSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
		"message": message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Cevap encode edilemedi")
	}
}

// writeLedgerError ledger hata sınıfını HTTP status koduna çevirir
func writeLedgerError(w http.ResponseWriter, err error) {
	kind := models.KindOf(err)

	status := http.StatusInternalServerError
	message := "Beklenmeyen bir hata oluştu"
	switch kind {
	case models.KindRuleNotFound:
		status, message = http.StatusNotFound, models.ErrRuleNotFound.Error()
	case models.KindInvalidAmount:
		status, message = http.StatusUnprocessableEntity, models.ErrInvalidAmount.Error()
	case models.KindInsufficientBalance:
		status, message = http.StatusConflict, models.ErrInsufficientBalance.Error()
	case models.KindInvalidRequest:
		status, message = http.StatusBadRequest, err.Error()
	case models.KindStorage:
		// Depolama detayı dışarı verilmez, çağıran tekrar deneyebilir
		status, message = http.StatusServiceUnavailable, "Geçici depolama hatası, lütfen tekrar deneyin"
		w.Header().Set("Retry-After", "1")
	}

	code := "internal"
	if kind != 0 {
		code = kind.String()
	}
	apierrors.WriteJSON(w, status, code, message)
}

// parsePathInt64 mux path parametresini pozitif int64 olarak okur
func parsePathInt64(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, errors.New("geçersiz id")
	}
	return v, nil
}

// parsePage limit/offset query parametrelerini okur. Geçersiz değerler varsayılana düşer.
func parsePage(r *http.Request) models.PageParams {
	page := models.PageParams{Limit: models.DefaultPageLimit}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			page.Limit = parsed
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			page.Offset = parsed
		}
	}
	return page.Normalize()
}
