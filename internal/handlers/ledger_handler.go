package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/middleware"
	apierrors "github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/models"
)

// LedgerHandler ödül servislerinin çağırdığı iç ledger endpoint'leri
type LedgerHandler struct {
	ledger interfaces.LedgerServiceInterface
}

// NewLedgerHandler yeni handler oluşturur
func NewLedgerHandler(ledger interfaces.LedgerServiceInterface) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Award bakiye hareketi uygular. Aynı externalId ile tekrar çağrı aynı kaydı döner.
func (h *LedgerHandler) Award(w http.ResponseWriter, r *http.Request) {
	var req models.AwardRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid_request", "Geçersiz JSON formatı")
		return
	}

	tx, err := h.ledger.Award(r.Context(), &req)
	if err != nil {
		event := log.Warn()
		if models.KindOf(err) == models.KindStorage {
			event = log.Error()
		}
		service := ""
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			service = claims.Service
		}
		event.Err(err).
			Str("service", service).
			Int64("user_id", req.UserID).
			Str("rule_code", req.RuleCode).
			Msg("Award başarısız")
		writeLedgerError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tx, "ART hareketi uygulandı")
}

// GetBalance kullanıcının ART bakiyesi
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathInt64(mux.Vars(r)["userId"])
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid_request", "Geçersiz kullanıcı id")
		return
	}

	balance, err := h.ledger.GetBalance(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Bakiye getirilemedi")
		writeLedgerError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, balance, "Bakiye bilgisi getirildi")
}

// ListTransactions kullanıcının hareketleri, en yeni önce
func (h *LedgerHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathInt64(mux.Vars(r)["userId"])
	if err != nil {
		apierrors.WriteJSON(w, http.StatusBadRequest, "invalid_request", "Geçersiz kullanıcı id")
		return
	}

	page, err := h.ledger.ListTransactions(r.Context(), userID, parsePage(r))
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Transaction geçmişi getirilemedi")
		writeLedgerError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, page, "İşlem geçmişi getirildi")
}
