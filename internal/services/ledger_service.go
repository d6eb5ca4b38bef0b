package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/metrics"
	"github.com/stickerart/art-ledger/internal/models"
)

// LedgerService ART bakiyelerine işaretli delta uygular ve her hareketi
// değişmez bir transaction olarak kaydeder. Aynı externalId ile yapılan
// çağrılar ilk kaydı döner.
type LedgerService struct {
	store   interfaces.LedgerStore
	rules   interfaces.RuleProvider
	metrics *metrics.Metrics
}

var _ interfaces.LedgerServiceInterface = (*LedgerService)(nil)

// NewLedgerService yeni service oluşturur
func NewLedgerService(store interfaces.LedgerStore, rules interfaces.RuleProvider, m *metrics.Metrics) *LedgerService {
	return &LedgerService{store: store, rules: rules, metrics: m}
}

// Award kuralı uygular. Adımlar: externalId tekrarı kontrolü, etkin kural,
// delta hesabı, bakiye kilidi, negatif bakiye kontrolü, bakiye ve kayıt yazımı.
// Kilit ve yazmalar tek depolama transaction'ı içindedir.
func (s *LedgerService) Award(ctx context.Context, req *models.AwardRequest) (*models.Transaction, error) {
	const op = "ledger.Award"
	started := time.Now()

	if req == nil || req.UserID <= 0 {
		return nil, s.reject(op, req, started, models.KindInvalidRequest, errors.New("user_id pozitif olmalı"))
	}
	if len(req.Metadata) > 0 && !json.Valid(req.Metadata) {
		return nil, s.reject(op, req, started, models.KindInvalidRequest, errors.New("metadata geçerli JSON değil"))
	}

	externalID := ""
	if req.ExternalID != nil {
		externalID = *req.ExternalID
	}

	if externalID != "" {
		existing, err := s.store.FindByExternalID(ctx, externalID)
		if err != nil {
			return nil, s.storageFailure(op, req, started, err)
		}
		if existing != nil {
			return s.replay(req, existing, started), nil
		}
	}

	rule, err := s.rules.GetEnabledRule(ctx, req.RuleCode)
	if err != nil {
		if errors.Is(err, models.ErrRuleNotFound) {
			return nil, s.reject(op, req, started, models.KindRuleNotFound, err)
		}
		return nil, s.storageFailure(op, req, started, err)
	}

	amount := rule.Amount
	if req.OverrideAmount != nil {
		amount = *req.OverrideAmount
	}
	delta := rule.Direction.Apply(amount)
	if delta == 0 {
		return nil, s.reject(op, req, started, models.KindInvalidAmount,
			fmt.Errorf("%s kuralı için miktar sıfır", rule.Code))
	}

	var created *models.Transaction
	err = s.store.WithinTx(ctx, func(tx interfaces.LedgerTx) error {
		current, err := tx.GetBalanceForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}

		next := current + delta
		if delta > 0 && next < current {
			return models.NewLedgerError(models.KindInvalidAmount, op, errors.New("bakiye taşması"))
		}
		if next < 0 {
			return models.NewLedgerError(models.KindInsufficientBalance, op,
				fmt.Errorf("mevcut bakiye %d, istenen %d", current, -delta))
		}

		if err := tx.UpdateBalance(ctx, req.UserID, next); err != nil {
			return err
		}

		created, err = tx.InsertTransaction(ctx, &models.Transaction{
			UserID:       req.UserID,
			RuleCode:     rule.Code,
			Direction:    rule.Direction,
			Delta:        delta,
			BalanceAfter: next,
			Metadata:     req.Metadata,
			ExternalID:   nonEmpty(externalID),
			PerformedBy:  req.PerformedBy,
		})
		return err
	})
	if err != nil {
		// Aynı externalId'yi paralel bir çağrı commit etti
		if externalID != "" && errors.Is(err, models.ErrDuplicateExternalID) {
			existing, findErr := s.store.FindByExternalID(ctx, externalID)
			if findErr == nil && existing != nil {
				return s.replay(req, existing, started), nil
			}
		}

		var le *models.LedgerError
		if errors.As(err, &le) && le.Kind != models.KindStorage {
			return nil, s.reject(op, req, started, le.Kind, le.Err)
		}
		return nil, s.storageFailure(op, req, started, err)
	}

	s.metrics.ObserveAward(rule.Code, metrics.OutcomeApplied, started)
	log.Info().
		Int64("transaction_id", created.ID).
		Int64("user_id", created.UserID).
		Str("rule_code", created.RuleCode).
		Int64("delta", created.Delta).
		Int64("balance_after", created.BalanceAfter).
		Str("external_id", externalID).
		Msg("✅ ART hareketi uygulandı")

	return created, nil
}

// ListTransactions kullanıcının hareketlerini en yeniden eskiye döner
func (s *LedgerService) ListTransactions(ctx context.Context, userID int64, page models.PageParams) (*models.TransactionPage, error) {
	page = page.Normalize()

	items, total, err := s.store.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, models.NewLedgerError(models.KindStorage, "ledger.ListTransactions", err)
	}
	return &models.TransactionPage{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// ListAllTransactions tüm kullanıcıların hareketleri (admin)
func (s *LedgerService) ListAllTransactions(ctx context.Context, page models.PageParams) (*models.TransactionPage, error) {
	page = page.Normalize()

	items, total, err := s.store.ListAll(ctx, page)
	if err != nil {
		return nil, models.NewLedgerError(models.KindStorage, "ledger.ListAllTransactions", err)
	}
	return &models.TransactionPage{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

// GetBalance güncel bakiye, hiç hareketi olmayan kullanıcı için 0
func (s *LedgerService) GetBalance(ctx context.Context, userID int64) (*models.Balance, error) {
	balance, err := s.store.GetBalance(ctx, userID)
	if err != nil {
		return nil, models.NewLedgerError(models.KindStorage, "ledger.GetBalance", err)
	}
	return balance, nil
}

// ManualAdjust admin tarafından yapılan ekleme (amount > 0) veya düşme (amount < 0)
func (s *LedgerService) ManualAdjust(ctx context.Context, adminID, userID, amount int64, message string) (*models.Transaction, error) {
	if amount == 0 {
		return nil, models.NewLedgerError(models.KindInvalidAmount, "ledger.ManualAdjust", errors.New("miktar sıfır olamaz"))
	}

	ruleCode := models.RuleAdminManualCredit
	abs := amount
	if amount < 0 {
		ruleCode = models.RuleAdminManualDebit
		abs = -amount
	}

	var metadata json.RawMessage
	if message != "" {
		metadata, _ = json.Marshal(map[string]string{"message": message})
	}

	return s.Award(ctx, &models.AwardRequest{
		UserID:         userID,
		RuleCode:       ruleCode,
		OverrideAmount: &abs,
		Metadata:       metadata,
		ExternalID:     models.StringPtr(ManualAdjustExternalID(uuid.NewString())),
		PerformedBy:    &adminID,
	})
}

func (s *LedgerService) replay(req *models.AwardRequest, existing *models.Transaction, started time.Time) *models.Transaction {
	s.metrics.ObserveAward(existing.RuleCode, metrics.OutcomeReplayed, started)
	log.Info().
		Int64("transaction_id", existing.ID).
		Int64("user_id", existing.UserID).
		Str("rule_code", existing.RuleCode).
		Str("requested_rule_code", req.RuleCode).
		Str("external_id", *existing.ExternalID).
		Msg("🔁 Tekrarlanan externalId, mevcut transaction döndü")
	return existing
}

func (s *LedgerService) reject(op string, req *models.AwardRequest, started time.Time, kind models.ErrorKind, cause error) error {
	ruleCode := ""
	var userID int64
	if req != nil {
		ruleCode, userID = req.RuleCode, req.UserID
	}
	s.metrics.ObserveAward(ruleCode, metrics.OutcomeRejected, started)

	log.Warn().
		Err(cause).
		Int64("user_id", userID).
		Str("rule_code", ruleCode).
		Str("reason", kind.String()).
		Msg("⛔ ART hareketi reddedildi")

	return models.NewLedgerError(kind, op, cause)
}

func (s *LedgerService) storageFailure(op string, req *models.AwardRequest, started time.Time, cause error) error {
	s.metrics.ObserveAward(req.RuleCode, metrics.OutcomeFailed, started)

	log.Error().
		Err(cause).
		Int64("user_id", req.UserID).
		Str("rule_code", req.RuleCode).
		Bool("lock_timeout", errors.Is(cause, models.ErrLockTimeout)).
		Msg("❌ ART hareketi depolama hatası")

	return models.NewLedgerError(models.KindStorage, op, cause)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
