package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/metrics"
	"github.com/stickerart/art-ledger/internal/models"
)

// RuleCacheConfig kural cache ayarları
type RuleCacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultRuleCacheConfig varsayılan cache ayarları
func DefaultRuleCacheConfig() RuleCacheConfig {
	return RuleCacheConfig{Size: 256, TTL: 5 * time.Minute}
}

// RuleService art kurallarını yönetir ve etkin kuralları cache'ler.
// Cache sadece etkin kuralları tutar; yazmalardan sonra ilgili kod silinir.
type RuleService struct {
	repo    interfaces.RuleRepositoryInterface
	audit   interfaces.AuditRepositoryInterface
	cache   *expirable.LRU[string, *models.Rule]
	metrics *metrics.Metrics
}

var _ interfaces.RuleServiceInterface = (*RuleService)(nil)

// NewRuleService yeni service oluşturur
func NewRuleService(repo interfaces.RuleRepositoryInterface, audit interfaces.AuditRepositoryInterface, cfg RuleCacheConfig, m *metrics.Metrics) *RuleService {
	return &RuleService{
		repo:    repo,
		audit:   audit,
		cache:   expirable.NewLRU[string, *models.Rule](cfg.Size, nil, cfg.TTL),
		metrics: m,
	}
}

// GetEnabledRule etkin kuralı cache üzerinden döner
func (s *RuleService) GetEnabledRule(ctx context.Context, code string) (*models.Rule, error) {
	if rule, ok := s.cache.Get(code); ok {
		s.metrics.RuleCacheHit()
		cp := *rule
		return &cp, nil
	}
	s.metrics.RuleCacheMiss()

	rule, err := s.repo.GetByCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", models.ErrRuleNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("kural okunamadı: %w", err)
	}
	if !rule.Enabled {
		return nil, fmt.Errorf("%w: %s devre dışı", models.ErrRuleNotFound, code)
	}

	s.cache.Add(code, rule)
	cp := *rule
	return &cp, nil
}

// ListRules tüm kuralları döner (cache kullanmaz)
func (s *RuleService) ListRules(ctx context.Context) ([]*models.Rule, error) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("kurallar alınamadı: %w", err)
	}
	return rules, nil
}

// CreateRule yeni kural ekler
func (s *RuleService) CreateRule(ctx context.Context, rule *models.Rule, actor string) (*models.Rule, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, rule)
	if err != nil {
		return nil, err
	}
	s.cache.Remove(created.Code)

	s.writeAudit(ctx, models.AuditActionCreate, created.Code, actor, nil, created)

	log.Info().
		Str("rule_code", created.Code).
		Str("direction", string(created.Direction)).
		Int64("amount", created.Amount).
		Str("actor", actor).
		Msg("📝 Art kuralı oluşturuldu")

	return created, nil
}

// UpdateRule kuralın verilen alanlarını günceller
func (s *RuleService) UpdateRule(ctx context.Context, code string, in *models.RuleInput, actor string) (*models.Rule, error) {
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	next := *existing
	next.ApplyInput(in)
	if err := next.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &next)
	if err != nil {
		return nil, err
	}
	s.cache.Remove(code)

	s.writeAudit(ctx, models.AuditActionUpdate, code, actor, existing, updated)

	log.Info().
		Str("rule_code", code).
		Bool("enabled", updated.Enabled).
		Int64("amount", updated.Amount).
		Str("actor", actor).
		Msg("📝 Art kuralı güncellendi")

	return updated, nil
}

// Invalidate tüm cache'i temizler
func (s *RuleService) Invalidate() {
	s.cache.Purge()
	log.Info().Msg("🧹 Art kural cache'i temizlendi")
}

// writeAudit audit yazılamazsa işlem geri alınmaz, sadece loglanır
func (s *RuleService) writeAudit(ctx context.Context, action, code, actor string, before, after *models.Rule) {
	if s.audit == nil {
		return
	}

	entry := &models.AuditLog{
		EntityType: models.AuditEntityRule,
		EntityID:   code,
		Action:     action,
		Actor:      actor,
	}
	if before != nil {
		entry.OldData, _ = json.Marshal(before)
	}
	if after != nil {
		entry.NewData, _ = json.Marshal(after)
	}

	if err := s.audit.Create(ctx, entry); err != nil {
		log.Warn().Err(err).Str("rule_code", code).Str("action", action).Msg("⚠️ Audit log yazılamadı")
	}
}
