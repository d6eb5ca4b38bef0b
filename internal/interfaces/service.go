// internal/interfaces/service.go
package interfaces

import (
	"context"

	"github.com/stickerart/art-ledger/internal/models"
)

// RuleProvider ledger'ın kural okuma bağımlılığı
type RuleProvider interface {
	// GetEnabledRule etkin kuralı döner, yoksa models.ErrRuleNotFound
	GetEnabledRule(ctx context.Context, code string) (*models.Rule, error)
}

// RuleServiceInterface kural yönetimi
type RuleServiceInterface interface {
	RuleProvider
	ListRules(ctx context.Context) ([]*models.Rule, error)
	CreateRule(ctx context.Context, rule *models.Rule, actor string) (*models.Rule, error)
	UpdateRule(ctx context.Context, code string, in *models.RuleInput, actor string) (*models.Rule, error)
	Invalidate()
}

// Awarder bakiye hareketi uygulayan taraf
type Awarder interface {
	Award(ctx context.Context, req *models.AwardRequest) (*models.Transaction, error)
}

// LedgerServiceInterface ART ledger operasyonları
type LedgerServiceInterface interface {
	Awarder
	ListTransactions(ctx context.Context, userID int64, page models.PageParams) (*models.TransactionPage, error)
	ListAllTransactions(ctx context.Context, page models.PageParams) (*models.TransactionPage, error)
	GetBalance(ctx context.Context, userID int64) (*models.Balance, error)
	ManualAdjust(ctx context.Context, adminID, userID, amount int64, message string) (*models.Transaction, error)
}

// StarsServiceInterface Stars ödemeleri
type StarsServiceInterface interface {
	ProcessWebhookPayment(ctx context.Context, req *models.WebhookPaymentRequest) (*models.ProcessPaymentResponse, error)
	ListActivePackages(ctx context.Context) ([]*models.StarsPackage, error)
	PurchaseHistory(ctx context.Context, userID int64, page models.PageParams) ([]*models.StarsPurchase, error)
}

// Notifier kullanıcıya bot mesajı gönderir
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
