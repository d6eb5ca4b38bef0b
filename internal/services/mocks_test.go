package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/models"
)

// MockRuleProvider, RuleProvider için sahte (mock) bir yapıdır.
type MockRuleProvider struct {
	mock.Mock
}

var _ interfaces.RuleProvider = (*MockRuleProvider)(nil)

func (m *MockRuleProvider) GetEnabledRule(ctx context.Context, code string) (*models.Rule, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rule), args.Error(1)
}

// MockLedgerStore, depolama hatalarını simüle etmek için
type MockLedgerStore struct {
	mock.Mock
}

var _ interfaces.LedgerStore = (*MockLedgerStore)(nil)

func (m *MockLedgerStore) FindByExternalID(ctx context.Context, externalID string) (*models.Transaction, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedgerStore) WithinTx(ctx context.Context, fn func(tx interfaces.LedgerTx) error) error {
	args := m.Called(ctx, mock.Anything)
	return args.Error(0)
}

func (m *MockLedgerStore) GetBalance(ctx context.Context, userID int64) (*models.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockLedgerStore) ListByUser(ctx context.Context, userID int64, page models.PageParams) ([]*models.Transaction, int, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Transaction), args.Int(1), args.Error(2)
}

func (m *MockLedgerStore) ListAll(ctx context.Context, page models.PageParams) ([]*models.Transaction, int, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Transaction), args.Int(1), args.Error(2)
}

// MockRuleRepository, RuleRepositoryInterface için sahte yapı
type MockRuleRepository struct {
	mock.Mock
}

var _ interfaces.RuleRepositoryInterface = (*MockRuleRepository)(nil)

func (m *MockRuleRepository) GetByCode(ctx context.Context, code string) (*models.Rule, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rule), args.Error(1)
}

func (m *MockRuleRepository) List(ctx context.Context) ([]*models.Rule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Rule), args.Error(1)
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *models.Rule) (*models.Rule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rule), args.Error(1)
}

func (m *MockRuleRepository) Update(ctx context.Context, rule *models.Rule) (*models.Rule, error) {
	args := m.Called(ctx, rule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rule), args.Error(1)
}

// MockAuditRepository, AuditRepositoryInterface için sahte yapı
type MockAuditRepository struct {
	mock.Mock
}

var _ interfaces.AuditRepositoryInterface = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByEntity(ctx context.Context, entityType, entityID string, page models.PageParams) ([]*models.AuditLog, error) {
	args := m.Called(ctx, entityType, entityID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

// MockStarsRepository, StarsRepositoryInterface için sahte yapı
type MockStarsRepository struct {
	mock.Mock
}

var _ interfaces.StarsRepositoryInterface = (*MockStarsRepository)(nil)

func (m *MockStarsRepository) GetPackageByID(ctx context.Context, id int64) (*models.StarsPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StarsPackage), args.Error(1)
}

func (m *MockStarsRepository) ListActivePackages(ctx context.Context) ([]*models.StarsPackage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StarsPackage), args.Error(1)
}

func (m *MockStarsRepository) FindPurchaseByChargeID(ctx context.Context, chargeID string) (*models.StarsPurchase, error) {
	args := m.Called(ctx, chargeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StarsPurchase), args.Error(1)
}

func (m *MockStarsRepository) CreatePurchase(ctx context.Context, p *models.StarsPurchase) (*models.StarsPurchase, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StarsPurchase), args.Error(1)
}

func (m *MockStarsRepository) ListPurchasesByUser(ctx context.Context, userID int64, page models.PageParams) ([]*models.StarsPurchase, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StarsPurchase), args.Error(1)
}

// MockAwarder, StarsService testlerinde ledger yerine
type MockAwarder struct {
	mock.Mock
}

var _ interfaces.Awarder = (*MockAwarder)(nil)

func (m *MockAwarder) Award(ctx context.Context, req *models.AwardRequest) (*models.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

// MockNotifier, bot mesajı gönderimi için sahte yapı
type MockNotifier struct {
	mock.Mock
}

var _ interfaces.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	args := m.Called(ctx, chatID, text)
	return args.Error(0)
}
