package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/models"
)

// RuleStore bellekte art kuralları
type RuleStore struct {
	mu     sync.RWMutex
	rules  map[string]*models.Rule
	nextID int64
}

var _ interfaces.RuleRepositoryInterface = (*RuleStore)(nil)

// NewRuleStore verilen kurallarla başlatır
func NewRuleStore(seed ...*models.Rule) *RuleStore {
	s := &RuleStore{rules: make(map[string]*models.Rule)}
	for _, r := range seed {
		_, _ = s.Create(context.Background(), r)
	}
	return s
}

func (s *RuleStore) GetByCode(ctx context.Context, code string) (*models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rules[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *RuleStore) List(ctx context.Context) ([]*models.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Rule, 0, len(s.rules))
	for _, r := range s.rules {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *RuleStore) Create(ctx context.Context, rule *models.Rule) (*models.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rules[rule.Code]; exists {
		return nil, models.ErrRuleExists
	}
	s.nextID++
	now := time.Now()
	cp := *rule
	cp.ID = s.nextID
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.rules[cp.Code] = &cp

	out := cp
	return &out, nil
}

func (s *RuleStore) Update(ctx context.Context, rule *models.Rule) (*models.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.rules[rule.Code]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *rule
	cp.ID = existing.ID
	cp.CreatedAt = existing.CreatedAt
	cp.UpdatedAt = time.Now()
	s.rules[cp.Code] = &cp

	out := cp
	return &out, nil
}

// AuditStore bellekte audit logları
type AuditStore struct {
	mu      sync.Mutex
	entries []*models.AuditLog
}

var _ interfaces.AuditRepositoryInterface = (*AuditStore)(nil)

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Create(ctx context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	cp.ID = int64(len(s.entries) + 1)
	cp.CreatedAt = time.Now()
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *AuditStore) ListByEntity(ctx context.Context, entityType, entityID string, page models.PageParams) ([]*models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.AuditLog, 0)
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.EntityType == entityType && e.EntityID == entityID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return paginate(out, page), nil
}

func paginate[T any](items []T, page models.PageParams) []T {
	if page.Offset >= len(items) {
		return items[:0]
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
