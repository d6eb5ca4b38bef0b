// Package app servis grafiğini config'e göre kurar. Server ve artctl aynı kurulumu kullanır.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/auth"
	"github.com/stickerart/art-ledger/internal/config"
	"github.com/stickerart/art-ledger/internal/db"
	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/metrics"
	"github.com/stickerart/art-ledger/internal/repository"
	"github.com/stickerart/art-ledger/internal/repository/memory"
	"github.com/stickerart/art-ledger/internal/services"
	"github.com/stickerart/art-ledger/internal/telegram"
	"github.com/stickerart/art-ledger/internal/webhook"
)

// ErrNotifierDisabled bot token'ı yokken gönderilen bildirimler
var ErrNotifierDisabled = errors.New("TELEGRAM_BOT_TOKEN ayarlanmamış, bildirim gönderilemez")

// App kurulmuş servisler
type App struct {
	Config   *config.Config
	DB       *sql.DB // memory storage'da nil
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Rules    *services.RuleService
	Ledger   *services.LedgerService
	Stars    *services.StarsService
	Admin    *services.AdminService
	Queue    *services.NotificationQueue
	Tokens   *auth.TokenManager
	Verifier *webhook.Verifier
}

type stores struct {
	ledger interfaces.LedgerStore
	rules  interfaces.RuleRepositoryInterface
	audit  interfaces.AuditRepositoryInterface
	stars  interfaces.StarsRepositoryInterface
}

// New config'e göre postgres veya memory storage ile servisleri kurar.
// Notification queue başlatılmış olarak döner, Close ile durdurulur.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Registry: prometheus.NewRegistry()}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)

	var st stores
	switch cfg.Storage {
	case config.StorageMemory:
		log.Warn().Msg("⚠️ Memory storage kullanılıyor, veriler süreç kapanınca kaybolur")
		st = stores{
			ledger: memory.NewLedgerStore(memory.WithLockTimeout(cfg.DBLockTimeout)),
			rules:  memory.NewRuleStore(memory.DefaultRules()...),
			audit:  memory.NewAuditStore(),
			stars:  memory.NewStarsStore(memory.DefaultPackages()...),
		}
	case config.StoragePostgres:
		database, err := db.Connect(ctx, cfg.GetDSN(), db.PoolOptions{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxOpenConns / 2,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		a.DB = database
		st = stores{
			ledger: repository.NewLedgerRepository(database, cfg.DBLockTimeout),
			rules:  repository.NewRuleRepository(database),
			audit:  repository.NewAuditRepository(database),
			stars:  repository.NewStarsRepository(database),
		}
	default:
		return nil, fmt.Errorf("bilinmeyen storage: %q", cfg.Storage)
	}

	var notifier interfaces.Notifier = disabledNotifier{}
	if cfg.TelegramBotToken != "" {
		client, err := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramAPIURL, 10*time.Second)
		if err != nil {
			a.Close()
			return nil, err
		}
		notifier = client
	} else {
		log.Warn().Msg("⚠️ TELEGRAM_BOT_TOKEN ayarlanmamış, bot bildirimleri gönderilmeyecek")
	}

	a.Queue = services.NewNotificationQueue(cfg.NotifyWorkers, notifier, cfg.NotifyBuffer, a.Metrics)
	a.Queue.Start()

	a.Rules = services.NewRuleService(st.rules, st.audit, services.RuleCacheConfig{
		Size: cfg.RuleCacheSize,
		TTL:  cfg.RuleCacheTTL,
	}, a.Metrics)
	a.Ledger = services.NewLedgerService(st.ledger, a.Rules, a.Metrics)
	a.Stars = services.NewStarsService(st.stars, a.Ledger, a.Queue, a.Metrics)
	a.Admin = services.NewAdminService(a.Ledger, a.Queue)
	a.Verifier = webhook.NewVerifier(cfg.WebhookSecret)

	if cfg.JWTSecret != "" {
		tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Tokens = tokens
	}

	log.Info().
		Str("storage", cfg.Storage).
		Int("notify_workers", cfg.NotifyWorkers).
		Int("rule_cache_size", cfg.RuleCacheSize).
		Msg("✅ Servisler hazır")
	return a, nil
}

// Close queue'yu boşaltıp durdurur ve veritabanı bağlantısını kapatır
func (a *App) Close() {
	if a.Queue != nil {
		a.Queue.Stop()
		log.Info().Msg("✅ Notification queue kapatıldı")
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			log.Error().Err(err).Msg("❌ Veritabanı bağlantısı kapatılamadı")
			return
		}
		log.Info().Msg("🗄️  Veritabanı bağlantısı kapatıldı")
	}
}

type disabledNotifier struct{}

func (disabledNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	return ErrNotifierDisabled
}
