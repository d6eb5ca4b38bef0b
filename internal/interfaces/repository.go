// internal/interfaces/repository.go
package interfaces

import (
	"context"

	"github.com/stickerart/art-ledger/internal/models"
)

// LedgerStore ledger'ın depolama soyutlaması
type LedgerStore interface {
	// FindByExternalID external id ile kaydedilmiş transaction'ı döner, yoksa (nil, nil)
	FindByExternalID(ctx context.Context, externalID string) (*models.Transaction, error)

	// WithinTx fn'i tek bir atomik depolama transaction'ı içinde çalıştırır.
	// fn hata dönerse hiçbir yazma kalıcı olmaz.
	WithinTx(ctx context.Context, fn func(tx LedgerTx) error) error

	// GetBalance kilitlemeden okur, satır yoksa 0 döner
	GetBalance(ctx context.Context, userID int64) (*models.Balance, error)

	// ListByUser kullanıcının transaction'larını en yeniden eskiye listeler
	ListByUser(ctx context.Context, userID int64, page models.PageParams) ([]*models.Transaction, int, error)

	// ListAll tüm transaction'ları en yeniden eskiye listeler
	ListAll(ctx context.Context, page models.PageParams) ([]*models.Transaction, int, error)
}

// LedgerTx WithinTx içindeki işlemler
type LedgerTx interface {
	// GetBalanceForUpdate kullanıcının bakiye satırını exclusive olarak kilitler,
	// satır yoksa 0 ile oluşturur. Kilit transaction bitene kadar tutulur.
	GetBalanceForUpdate(ctx context.Context, userID int64) (int64, error)

	// UpdateBalance kilitli bakiyeyi yazar
	UpdateBalance(ctx context.Context, userID int64, amount int64) error

	// InsertTransaction kaydı ekler; external id çakışırsa models.ErrDuplicateExternalID
	InsertTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
}

// RuleRepositoryInterface art_rules tablosu
type RuleRepositoryInterface interface {
	GetByCode(ctx context.Context, code string) (*models.Rule, error)
	List(ctx context.Context) ([]*models.Rule, error)
	Create(ctx context.Context, rule *models.Rule) (*models.Rule, error)
	Update(ctx context.Context, rule *models.Rule) (*models.Rule, error)
}

// AuditRepositoryInterface audit log kayıtları
type AuditRepositoryInterface interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string, page models.PageParams) ([]*models.AuditLog, error)
}

// StarsRepositoryInterface stars paketleri ve satın alımlar
type StarsRepositoryInterface interface {
	GetPackageByID(ctx context.Context, id int64) (*models.StarsPackage, error)
	ListActivePackages(ctx context.Context) ([]*models.StarsPackage, error)

	// FindPurchaseByChargeID yoksa (nil, nil)
	FindPurchaseByChargeID(ctx context.Context, chargeID string) (*models.StarsPurchase, error)

	// CreatePurchase charge id çakışırsa models.ErrDuplicateExternalID
	CreatePurchase(ctx context.Context, p *models.StarsPurchase) (*models.StarsPurchase, error)

	ListPurchasesByUser(ctx context.Context, userID int64, page models.PageParams) ([]*models.StarsPurchase, error)
}
