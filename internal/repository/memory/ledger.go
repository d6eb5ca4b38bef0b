// Package memory depolama arayüzlerinin süreç içi implementasyonları.
// Geliştirme ortamında (STORAGE=memory) ve testlerde kullanılır.
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

// LedgerStore bellekte tutulan bakiye ve transaction kayıtları.
// Kullanıcı başına kilit, kapasitesi 1 olan bir channel'dır; bekleyenler
// geliş sırasıyla kilidi alır.
type LedgerStore struct {
	mu         sync.Mutex
	balances   map[int64]*models.Balance
	txs        []*models.Transaction
	byExternal map[string]*models.Transaction
	reserved   map[string]struct{}
	locks      map[int64]chan struct{}
	nextID     int64

	lockTimeout time.Duration
	now         func() time.Time
}

var _ interfaces.LedgerStore = (*LedgerStore)(nil)

// Option LedgerStore ayarı
type Option func(*LedgerStore)

// WithLockTimeout kilit bekleme süresini sınırlar
func WithLockTimeout(d time.Duration) Option {
	return func(s *LedgerStore) { s.lockTimeout = d }
}

// WithClock created_at için saat kaynağı
func WithClock(now func() time.Time) Option {
	return func(s *LedgerStore) { s.now = now }
}

// NewLedgerStore boş bir store oluşturur
func NewLedgerStore(opts ...Option) *LedgerStore {
	s := &LedgerStore{
		balances:   make(map[int64]*models.Balance),
		byExternal: make(map[string]*models.Transaction),
		reserved:   make(map[string]struct{}),
		locks:      make(map[int64]chan struct{}),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerStore) lockFor(userID int64) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.locks[userID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[userID] = ch
	}
	return ch
}

func (s *LedgerStore) acquire(ctx context.Context, userID int64) error {
	ch := s.lockFor(userID)

	var timeout <-chan time.Time
	if s.lockTimeout > 0 {
		timer := time.NewTimer(s.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", models.ErrLockTimeout, ctx.Err())
	case <-timeout:
		return fmt.Errorf("%w: user_id=%d", models.ErrLockTimeout, userID)
	}
}

func (s *LedgerStore) release(userID int64) {
	<-s.lockFor(userID)
}

// FindByExternalID commit edilmiş kayıtlar arasında arar
func (s *LedgerStore) FindByExternalID(ctx context.Context, externalID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.byExternal[externalID]; ok {
		return copyTransaction(t), nil
	}
	return nil, nil
}

// WithinTx fn'i izole bir transaction içinde çalıştırır. Yazmalar commit'e kadar
// tamponda tutulur, alınan kilitler commit veya rollback sonrası bırakılır.
func (s *LedgerStore) WithinTx(ctx context.Context, fn func(tx interfaces.LedgerTx) error) error {
	tx := &memTx{
		store:    s,
		held:     make(map[int64]bool),
		balances: make(map[int64]int64),
	}

	committed := false
	defer func() {
		if !committed {
			tx.rollback()
		}
		tx.releaseAll()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction commit edilemedi: %w", err)
	}

	tx.commit()
	committed = true
	return nil
}

// GetBalance kilitsiz okur
func (s *LedgerStore) GetBalance(ctx context.Context, userID int64) (*models.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.balances[userID]; ok {
		cp := *b
		return &cp, nil
	}
	return &models.Balance{UserID: userID}, nil
}

// ListByUser en yeniden eskiye
func (s *LedgerStore) ListByUser(ctx context.Context, userID int64, page models.PageParams) ([]*models.Transaction, int, error) {
	return s.list(page, func(t *models.Transaction) bool { return t.UserID == userID })
}

// ListAll en yeniden eskiye
func (s *LedgerStore) ListAll(ctx context.Context, page models.PageParams) ([]*models.Transaction, int, error) {
	return s.list(page, func(*models.Transaction) bool { return true })
}

func (s *LedgerStore) list(page models.PageParams, match func(*models.Transaction) bool) ([]*models.Transaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*models.Transaction, 0)
	for i := len(s.txs) - 1; i >= 0; i-- {
		if match(s.txs[i]) {
			matched = append(matched, s.txs[i])
		}
	}
	// created_at DESC, id DESC
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := page.Offset
	if start > total {
		start = total
	}
	end := total
	if page.Limit > 0 && start+page.Limit < total {
		end = start + page.Limit
	}

	items := make([]*models.Transaction, 0, end-start)
	for _, t := range matched[start:end] {
		items = append(items, copyTransaction(t))
	}
	return items, total, nil
}

func copyTransaction(t *models.Transaction) *models.Transaction {
	cp := *t
	if t.Metadata != nil {
		cp.Metadata = append([]byte(nil), t.Metadata...)
	}
	return &cp
}

// memTx tek bir WithinTx çağrısının durumu
type memTx struct {
	store    *LedgerStore
	held     map[int64]bool
	order    []int64
	balances map[int64]int64
	inserts  []*models.Transaction
	reserved []string
}

func (t *memTx) GetBalanceForUpdate(ctx context.Context, userID int64) (int64, error) {
	if !t.held[userID] {
		if err := t.store.acquire(ctx, userID); err != nil {
			return 0, err
		}
		t.held[userID] = true
		t.order = append(t.order, userID)
	}

	if amount, ok := t.balances[userID]; ok {
		return amount, nil
	}

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	var amount int64
	if b, ok := t.store.balances[userID]; ok {
		amount = b.Amount
	}
	t.balances[userID] = amount
	return amount, nil
}

func (t *memTx) UpdateBalance(ctx context.Context, userID int64, amount int64) error {
	if !t.held[userID] {
		return fmt.Errorf("bakiye güncellenemedi: user_id=%d kilitli değil", userID)
	}
	t.balances[userID] = amount
	return nil
}

func (t *memTx) InsertTransaction(ctx context.Context, in *models.Transaction) (*models.Transaction, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ExternalID != nil {
		key := *in.ExternalID
		if _, exists := s.byExternal[key]; exists {
			return nil, fmt.Errorf("transaction kaydı oluşturulamadı: %w", models.ErrDuplicateExternalID)
		}
		if _, taken := s.reserved[key]; taken {
			return nil, fmt.Errorf("transaction kaydı oluşturulamadı: %w", models.ErrDuplicateExternalID)
		}
		s.reserved[key] = struct{}{}
		t.reserved = append(t.reserved, key)
	}

	s.nextID++
	out := copyTransaction(in)
	out.ID = s.nextID
	out.CreatedAt = s.now()
	t.inserts = append(t.inserts, out)

	return copyTransaction(out), nil
}

func (t *memTx) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for userID, amount := range t.balances {
		s.balances[userID] = &models.Balance{UserID: userID, Amount: amount, UpdatedAt: now}
	}
	for _, in := range t.inserts {
		s.txs = append(s.txs, in)
		if in.ExternalID != nil {
			s.byExternal[*in.ExternalID] = in
		}
	}
	for _, key := range t.reserved {
		delete(s.reserved, key)
	}
}

func (t *memTx) rollback() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range t.reserved {
		delete(s.reserved, key)
	}
}

func (t *memTx) releaseAll() {
	for _, userID := range t.order {
		t.store.release(userID)
	}
	t.order = nil
}
