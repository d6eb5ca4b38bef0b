package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/metrics"
	"github.com/stickerart/art-ledger/internal/models"
)

// StarsService Telegram Stars ödemelerini ART'a çevirir
type StarsService struct {
	repo    interfaces.StarsRepositoryInterface
	ledger  interfaces.Awarder
	queue   notificationSink
	metrics *metrics.Metrics
}

var _ interfaces.StarsServiceInterface = (*StarsService)(nil)

// NewStarsService queue nil olabilir
func NewStarsService(repo interfaces.StarsRepositoryInterface, ledger interfaces.Awarder, queue notificationSink, m *metrics.Metrics) *StarsService {
	return &StarsService{repo: repo, ledger: ledger, queue: queue, metrics: m}
}

// ProcessWebhookPayment başarılı bir Stars ödemesini işler.
// İş kuralı hatalarında cevap success=false ile birlikte hata döner,
// depolama hatalarında cevap nil'dir ve istek güvenle tekrarlanabilir.
func (s *StarsService) ProcessWebhookPayment(ctx context.Context, req *models.WebhookPaymentRequest) (*models.ProcessPaymentResponse, error) {
	if err := validateWebhook(req); err != nil {
		return s.failure("invalid", err)
	}

	existing, err := s.repo.FindPurchaseByChargeID(ctx, req.TelegramChargeID)
	if err != nil {
		s.metrics.StarsPayment("error")
		return nil, models.NewLedgerError(models.KindStorage, "stars.ProcessWebhookPayment", err)
	}
	if existing != nil {
		s.metrics.StarsPayment("replayed")
		log.Info().
			Str("charge_id", req.TelegramChargeID).
			Int64("purchase_id", existing.ID).
			Msg("🔁 Stars ödemesi daha önce işlenmiş")
		return &models.ProcessPaymentResponse{Success: true, PurchaseID: existing.ID, ArtCredited: existing.ArtCredited}, nil
	}

	packageID, err := parsePackageID(req.InvoicePayload)
	if err != nil {
		return s.failure("invalid", err)
	}

	pkg, err := s.repo.GetPackageByID(ctx, packageID)
	if errors.Is(err, models.ErrNotFound) || (err == nil && !pkg.Enabled) {
		return s.failure("invalid", fmt.Errorf("%w: id=%d", models.ErrPackageNotFound, packageID))
	}
	if err != nil {
		s.metrics.StarsPayment("error")
		return nil, models.NewLedgerError(models.KindStorage, "stars.ProcessWebhookPayment", err)
	}

	if pkg.StarsPrice != req.AmountStars {
		return s.failure("invalid", fmt.Errorf("%w: beklenen %d, gelen %d", models.ErrPriceMismatch, pkg.StarsPrice, req.AmountStars))
	}

	metadata, _ := json.Marshal(map[string]interface{}{
		"packageCode":      pkg.Code,
		"packageId":        pkg.ID,
		"starsPrice":       pkg.StarsPrice,
		"webhookTimestamp": req.Timestamp,
	})

	tx, err := s.ledger.Award(ctx, &models.AwardRequest{
		UserID:         req.UserID,
		RuleCode:       models.RulePurchaseStars,
		OverrideAmount: models.Int64Ptr(pkg.ArtAmount),
		Metadata:       metadata,
		ExternalID:     models.StringPtr(req.TelegramChargeID),
	})
	if err != nil {
		if models.KindOf(err) == models.KindStorage {
			s.metrics.StarsPayment("error")
			return nil, err
		}
		return s.failure("rejected", err)
	}

	purchase, err := s.repo.CreatePurchase(ctx, &models.StarsPurchase{
		UserID:           req.UserID,
		PackageID:        pkg.ID,
		PackageCode:      pkg.Code,
		StarsPaid:        req.AmountStars,
		ArtCredited:      pkg.ArtAmount,
		TelegramChargeID: req.TelegramChargeID,
		InvoicePayload:   req.InvoicePayload,
		ArtTransactionID: tx.ID,
	})
	if errors.Is(err, models.ErrDuplicateExternalID) {
		purchase, err = s.repo.FindPurchaseByChargeID(ctx, req.TelegramChargeID)
		if err == nil && purchase == nil {
			err = errors.New("çakışan satın alım kaydı bulunamadı")
		}
	}
	if err != nil {
		s.metrics.StarsPayment("error")
		return nil, models.NewLedgerError(models.KindStorage, "stars.ProcessWebhookPayment", err)
	}

	s.metrics.StarsPayment("credited")
	log.Info().
		Int64("user_id", req.UserID).
		Str("package_code", pkg.Code).
		Int64("stars_paid", req.AmountStars).
		Int64("art_credited", pkg.ArtAmount).
		Int64("purchase_id", purchase.ID).
		Int64("transaction_id", tx.ID).
		Msg("⭐ Stars ödemesi işlendi")

	if s.queue != nil {
		// Sonuç beklenmez
		s.queue.Enqueue(req.UserID, fmt.Sprintf("✨ %d ART hesabına eklendi. Teşekkürler!", pkg.ArtAmount))
	}

	return &models.ProcessPaymentResponse{Success: true, PurchaseID: purchase.ID, ArtCredited: purchase.ArtCredited}, nil
}

// ListActivePackages satın alınabilir paketler
func (s *StarsService) ListActivePackages(ctx context.Context) ([]*models.StarsPackage, error) {
	packages, err := s.repo.ListActivePackages(ctx)
	if err != nil {
		return nil, models.NewLedgerError(models.KindStorage, "stars.ListActivePackages", err)
	}
	return packages, nil
}

// PurchaseHistory kullanıcının satın alımları, en yeni önce
func (s *StarsService) PurchaseHistory(ctx context.Context, userID int64, page models.PageParams) ([]*models.StarsPurchase, error) {
	purchases, err := s.repo.ListPurchasesByUser(ctx, userID, page.Normalize())
	if err != nil {
		return nil, models.NewLedgerError(models.KindStorage, "stars.PurchaseHistory", err)
	}
	return purchases, nil
}

func (s *StarsService) failure(outcome string, err error) (*models.ProcessPaymentResponse, error) {
	s.metrics.StarsPayment(outcome)
	log.Warn().Err(err).Msg("⛔ Stars ödemesi reddedildi")
	return &models.ProcessPaymentResponse{Success: false, ErrorMessage: err.Error()}, err
}

func validateWebhook(req *models.WebhookPaymentRequest) error {
	switch {
	case req == nil:
		return fmt.Errorf("%w: boş istek", models.ErrInvalidWebhook)
	case req.Event != models.StarsPaymentEvent:
		return fmt.Errorf("%w: desteklenmeyen event %q", models.ErrInvalidWebhook, req.Event)
	case req.Currency != models.StarsCurrency:
		return fmt.Errorf("%w: desteklenmeyen para birimi %q", models.ErrInvalidWebhook, req.Currency)
	case req.UserID <= 0:
		return fmt.Errorf("%w: user_id pozitif olmalı", models.ErrInvalidWebhook)
	case req.AmountStars <= 0:
		return fmt.Errorf("%w: amount_stars pozitif olmalı", models.ErrInvalidWebhook)
	case req.TelegramChargeID == "":
		return fmt.Errorf("%w: telegram_charge_id boş", models.ErrInvalidWebhook)
	case req.InvoicePayload == "":
		return fmt.Errorf("%w: invoice_payload boş", models.ErrInvalidWebhook)
	}
	return nil
}

// parsePackageID invoice_payload JSON'undaki package_id'yi okur (sayı veya sayısal string)
func parsePackageID(payload string) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()

	var p models.InvoicePayload
	if err := dec.Decode(&p); err != nil {
		return 0, fmt.Errorf("%w: invoice_payload parse edilemedi: %v", models.ErrInvalidWebhook, err)
	}
	id, err := p.PackageID.Int64()
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invoice_payload içinde geçerli package_id yok", models.ErrInvalidWebhook)
	}
	return id, nil
}
