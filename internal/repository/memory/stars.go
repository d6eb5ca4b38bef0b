package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/models"
)

// StarsStore bellekte stars paketleri ve satın alımlar
type StarsStore struct {
	mu        sync.Mutex
	packages  map[int64]*models.StarsPackage
	purchases []*models.StarsPurchase
	byCharge  map[string]*models.StarsPurchase
}

var _ interfaces.StarsRepositoryInterface = (*StarsStore)(nil)

// NewStarsStore verilen paketlerle başlatır, ID'si 0 olanlara sıra numarası verilir
func NewStarsStore(packages ...*models.StarsPackage) *StarsStore {
	s := &StarsStore{
		packages: make(map[int64]*models.StarsPackage),
		byCharge: make(map[string]*models.StarsPurchase),
	}
	for i, p := range packages {
		cp := *p
		if cp.ID == 0 {
			cp.ID = int64(i + 1)
		}
		s.packages[cp.ID] = &cp
	}
	return s
}

func (s *StarsStore) GetPackageByID(ctx context.Context, id int64) (*models.StarsPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.packages[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *StarsStore) ListActivePackages(ctx context.Context) ([]*models.StarsPackage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.StarsPackage, 0, len(s.packages))
	for _, p := range s.packages {
		if p.Enabled {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *StarsStore) FindPurchaseByChargeID(ctx context.Context, chargeID string) (*models.StarsPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.byCharge[chargeID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *StarsStore) CreatePurchase(ctx context.Context, in *models.StarsPurchase) (*models.StarsPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byCharge[in.TelegramChargeID]; exists {
		return nil, fmt.Errorf("satın alım kaydı oluşturulamadı: %w", models.ErrDuplicateExternalID)
	}
	cp := *in
	cp.ID = int64(len(s.purchases) + 1)
	cp.CreatedAt = time.Now()
	s.purchases = append(s.purchases, &cp)
	s.byCharge[cp.TelegramChargeID] = &cp

	out := cp
	return &out, nil
}

func (s *StarsStore) ListPurchasesByUser(ctx context.Context, userID int64, page models.PageParams) ([]*models.StarsPurchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.StarsPurchase, 0)
	for i := len(s.purchases) - 1; i >= 0; i-- {
		if s.purchases[i].UserID == userID {
			cp := *s.purchases[i]
			out = append(out, &cp)
		}
	}
	return paginate(out, page), nil
}
