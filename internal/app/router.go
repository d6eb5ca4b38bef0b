package app

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/auth"
	"github.com/stickerart/art-ledger/internal/handlers"
	"github.com/stickerart/art-ledger/internal/middleware"
	"github.com/stickerart/art-ledger/internal/middleware/errors"
	"github.com/stickerart/art-ledger/internal/middleware/validation"
)

// NewRouter iç HTTP yüzeyini kurar. ctx rate limiter temizliğinin ömrüdür.
func (a *App) NewRouter(ctx context.Context) *mux.Router {
	cfg := a.Config
	router := mux.NewRouter()
	router.NotFoundHandler = middleware.NotFoundJSONHandler()
	router.MethodNotAllowedHandler = middleware.MethodNotAllowedJSONHandler()

	securityConfig := middleware.DefaultSecurityConfig()
	if !cfg.IsProduction() {
		securityConfig = middleware.DevelopmentSecurityConfig()
	}

	rateConfig := middleware.DefaultRateLimitConfig()
	rateConfig.RequestsPerSecond = cfg.RateLimitRPS
	rateConfig.Burst = cfg.RateLimitBurst
	limiter := middleware.NewRateLimiter(ctx, rateConfig)

	router.Use(
		middleware.RequestLoggingMiddleware(middleware.DefaultLoggingConfig()),
		middleware.ErrorHandlingMiddleware(errors.ConfigForEnv(cfg.AppEnv)),
		middleware.SecurityHeadersMiddleware(securityConfig),
		limiter.Handler(),
		middleware.MetricsMiddleware(a.Metrics),
	)

	var pinger handlers.Pinger
	if a.DB != nil {
		pinger = a.DB
	}
	router.Handle("/health", handlers.HealthHandler(pinger, cfg.Storage)).Methods(http.MethodGet)
	router.Handle("/metrics", a.Metrics.Handler()).Methods(http.MethodGet)

	ledgerHandler := handlers.NewLedgerHandler(a.Ledger)
	starsHandler := handlers.NewStarsHandler(a.Stars, a.Verifier)

	// Stars webhook sadece HMAC imzası ile doğrulanır
	webhooks := router.PathPrefix("/internal/webhooks").Subrouter()
	webhooks.Use(validation.Middleware(validation.StrictConfig()))
	webhooks.HandleFunc("/stars-payment", starsHandler.PaymentWebhook).Methods(http.MethodPost)

	api := router.PathPrefix("/internal/v1").Subrouter()
	api.Use(middleware.AuthMiddleware(a.Tokens))

	award := api.NewRoute().Subrouter()
	award.Use(middleware.RequireScope(auth.ScopeAward), validation.Middleware(validation.StrictConfig()))
	award.HandleFunc("/awards", ledgerHandler.Award).Methods(http.MethodPost)

	read := api.NewRoute().Subrouter()
	read.Use(middleware.RequireScope(auth.ScopeRead))
	read.HandleFunc("/users/{userId:[0-9]+}/balance", ledgerHandler.GetBalance).Methods(http.MethodGet)
	read.HandleFunc("/users/{userId:[0-9]+}/transactions", ledgerHandler.ListTransactions).Methods(http.MethodGet)
	read.HandleFunc("/stars/packages", starsHandler.ListPackages).Methods(http.MethodGet)

	router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err == nil {
			methods, _ := route.GetMethods()
			log.Debug().
				Str("path", pathTemplate).
				Strs("methods", methods).
				Msg("📍 Route registered")
		}
		return nil
	})

	return router
}
