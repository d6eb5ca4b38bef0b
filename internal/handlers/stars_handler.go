package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/interfaces"
	apierrors "github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/models"
	"github.com/stickerart/art-ledger/internal/webhook"
)

// StarsHandler bot servisinin ödeme webhook'u ve paket listesi
type StarsHandler struct {
	stars    interfaces.StarsServiceInterface
	verifier *webhook.Verifier
}

// NewStarsHandler yeni handler oluşturur
func NewStarsHandler(stars interfaces.StarsServiceInterface, verifier *webhook.Verifier) *StarsHandler {
	return &StarsHandler{stars: stars, verifier: verifier}
}

// PaymentWebhook başarılı Stars ödemesini ART'a çevirir.
// 200 işlendi, 400 iş kuralı reddi, 401 imza hatası, 503 tekrar denenebilir.
func (h *StarsHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid_request", "request body okunamadı")
		return
	}

	if err := h.verifier.Verify(r.Header.Get(webhook.SignatureHeader), body); err != nil {
		log.Warn().Err(err).Msg("🚫 Webhook imzası reddedildi")
		apierrors.WriteJSON(w, http.StatusUnauthorized, "invalid_signature", models.ErrInvalidSignature.Error())
		return
	}

	var req models.WebhookPaymentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writePaymentResponse(w, http.StatusBadRequest, &models.ProcessPaymentResponse{
			Success:      false,
			ErrorMessage: models.ErrInvalidWebhook.Error(),
		})
		return
	}

	resp, err := h.stars.ProcessWebhookPayment(r.Context(), &req)
	switch {
	case err == nil:
		writePaymentResponse(w, http.StatusOK, resp)
	case resp != nil:
		writePaymentResponse(w, http.StatusBadRequest, resp)
	case models.KindOf(err) == models.KindStorage:
		log.Error().Err(err).Str("charge_id", req.TelegramChargeID).Msg("Stars ödemesi işlenemedi, bot tekrar deneyecek")
		w.Header().Set("Retry-After", "1")
		writePaymentResponse(w, http.StatusServiceUnavailable, &models.ProcessPaymentResponse{
			Success:      false,
			ErrorMessage: "Geçici hata, lütfen tekrar deneyin",
		})
	default:
		log.Error().Err(err).Str("charge_id", req.TelegramChargeID).Msg("Stars ödemesi beklenmeyen hata")
		writePaymentResponse(w, http.StatusInternalServerError, &models.ProcessPaymentResponse{
			Success:      false,
			ErrorMessage: "Beklenmeyen bir hata oluştu",
		})
	}
}

// ListPackages satın alınabilir paketler
func (h *StarsHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.stars.ListActivePackages(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Stars paketleri getirilemedi")
		writeLedgerError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, packages, "Paketler getirildi")
}

func writePaymentResponse(w http.ResponseWriter, status int, resp *models.ProcessPaymentResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Webhook cevabı encode edilemedi")
	}
}
