package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-bill-tracker/internal/auth"
	"go-bill-tracker/internal/config"
	"go-bill-tracker/internal/database"
	"go-bill-tracker/internal/event"
	"go-bill-tracker/internal/handler"
	"go-bill-tracker/internal/logger"
	"go-bill-tracker/internal/middleware"
	"go-bill-tracker/internal/repository"
	"go-bill-tracker/internal/repository/sqlite"
	"go-bill-tracker/internal/router"
	"go-bill-tracker/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

// stores is the persistence backend selected by DATABASE_DRIVER.
type stores struct {
	users  repository.UserStore
	bills  repository.BillStore
	health func(ctx context.Context) error
	close  func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		st.close()
		return nil, fmt.Errorf("failed to initialize token manager: %w", err)
	}
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	bus := event.NewBus()
	auditCtx, auditCancel := context.WithCancel(context.Background())
	go event.RunAuditLog(auditCtx, bus)

	authService := service.NewAuthService(st.users, hasher, tokens, bus)
	billService := service.NewBillService(st.bills, bus)

	authMiddleware := middleware.NewAuthMiddleware(tokens, authService)
	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		User:   handler.NewUserHandler(authService),
		Bill:   handler.NewBillHandler(billService),
		Health: st.health,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		cleanupFuncs: []func(){
			auditCancel,
			st.close,
		},
	}, nil
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		slog.Info("migrating PostgreSQL schema")
		if err := database.MigratePostgres(ctx, cfg.DatabaseURL); err != nil {
			return stores{}, fmt.Errorf("failed to migrate database: %w", err)
		}

		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}

		return stores{
			users:  repository.NewUserRepository(db.Pool),
			bills:  repository.NewBillRepository(db.Pool),
			health: db.Health,
			close:  db.Close,
		}, nil

	default:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return stores{}, fmt.Errorf("failed to open sqlite database: %w", err)
		}

		return stores{
			users:  sqlite.NewUserRepository(db),
			bills:  sqlite.NewBillRepository(db),
			health: db.PingContext,
			close: func() {
				if err := db.Close(); err != nil {
					slog.Warn("close sqlite database", "error", err)
				}
			},
		}, nil
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}
