package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tradefair/tradefair-api/internal/config"
	"github.com/tradefair/tradefair-api/internal/platform/postgres"
	"github.com/tradefair/tradefair-api/internal/service/auth"
	"github.com/tradefair/tradefair-api/internal/service/trade"
	"github.com/tradefair/tradefair-api/internal/store"
)

// application holds the shared dependencies of the server: configuration,
// logging, the database handle, stores and services. Handlers are created
// from it in setupRouter.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore         store.UserStore
	itemStore         store.ItemStore
	proposalStore     store.ProposalStore
	notificationStore store.NotificationStore

	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher
	tradeService   trade.Service
}

// newApplication builds the full dependency graph. Construction is eager so
// a misconfigured deployment fails at startup, not on first request.
func newApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, appLogger)
	itemStore := postgres.NewPostgresItemStore(db, appLogger)
	proposalStore := postgres.NewPostgresProposalStore(db, appLogger)
	notificationStore := postgres.NewPostgresNotificationStore(db, appLogger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	tradeService, err := trade.NewService(
		trade.NewItemRepositoryAdapter(itemStore, db),
		trade.NewProposalRepositoryAdapter(proposalStore),
		trade.NewNotificationRepositoryAdapter(notificationStore),
		trade.Limits{
			DailyPerItem:   cfg.Trade.DailyProposalLimit,
			PerCounterpart: cfg.Trade.CounterpartProposalLimit,
		},
		appLogger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade service: %w", err)
	}

	return &application{
		config:            cfg,
		logger:            appLogger,
		db:                db,
		userStore:         userStore,
		itemStore:         itemStore,
		proposalStore:     proposalStore,
		notificationStore: notificationStore,
		jwtService:        jwtService,
		passwordHasher:    auth.NewBcryptHasher(),
		tradeService:      tradeService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
