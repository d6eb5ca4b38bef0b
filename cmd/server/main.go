package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/app"
	"github.com/stickerart/art-ledger/internal/config"
	"github.com/stickerart/art-ledger/internal/logger"
	"github.com/stickerart/art-ledger/internal/migration"
	"github.com/stickerart/art-ledger/migrations"
)

func main() {
	// .env dosyasını yükle
	if err := godotenv.Load(); err != nil {
		stdlog.Println(".env dosyası bulunamadı, ortam değişkenlerinden okunacak.")
	}

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("❌ Geçersiz yapılandırma")
	}

	log.Info().
		Str("environment", cfg.AppEnv).
		Str("port", cfg.Port).
		Str("storage", cfg.Storage).
		Msg("🚀 ART ledger başlatılıyor")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Servisler kurulamadı")
	}

	if cfg.AutoMigrate && services.DB != nil {
		results, err := migration.NewRunner(services.DB, migrations.FS, migration.DefaultConfig()).Up(ctx)
		if err != nil {
			services.Close()
			log.Fatal().Err(err).Msg("❌ Migration başarısız")
		}
		log.Info().Int("applied", len(results)).Msg("✅ Migration'lar güncel")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           services.NewRouter(ctx),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("🌐 HTTP Server (Gorilla Mux) başlatıldı")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("❌ Server başlatma hatası")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Shutdown signal alındı, server kapatılıyor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Önce yeni istek kabulü durur, sonra queue boşaltılır
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ HTTP Server kapatma hatası")
	} else {
		log.Info().Msg("✅ HTTP Server başarıyla kapatıldı")
	}

	services.Close()
	log.Info().Msg("👋 ART ledger kapatıldı")
}
