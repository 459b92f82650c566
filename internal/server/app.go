package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/scisoft/vnpay-checkout/config"
	"github.com/scisoft/vnpay-checkout/internal/domain/transaction"
	"github.com/scisoft/vnpay-checkout/internal/gateway/vnpay"
	acquirer_repo "github.com/scisoft/vnpay-checkout/internal/repo/acquirer"
	"github.com/scisoft/vnpay-checkout/internal/repo/eventsink"
	transaction_repo "github.com/scisoft/vnpay-checkout/internal/repo/transaction"
	"github.com/scisoft/vnpay-checkout/internal/server/handlers"
	"github.com/scisoft/vnpay-checkout/pkg/health"
	"github.com/scisoft/vnpay-checkout/pkg/logger"
	"github.com/scisoft/vnpay-checkout/pkg/postgres"
)

//go:embed migrations/*.sql
var MigrationFS embed.FS

// Run wires the merchant backend and blocks until shutdown.
func Run(cfg config.Config) error {
	logger.Setup(logger.Options{Level: cfg.LogLevel})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		return fmt.Errorf("server - Run - postgres.New: %w", err)
	}
	defer pool.Close()

	if err := ApplyMigrations(cfg.PgURL, MigrationFS); err != nil {
		return fmt.Errorf("server - Run - ApplyMigrations: %w", err)
	}

	txRepo := transaction_repo.NewPgTransactionRepo(pool)
	acquirerRepo := acquirer_repo.NewPgAcquirerRepo(pool)
	events := eventsink.NewPgEventSink(pool)

	gateway := vnpay.New(cfg.VnpayAPIBaseURL, &http.Client{Timeout: cfg.HTTPVnpayClientTimeout})

	service := transaction.NewService(txRepo, acquirerRepo, gateway, events)
	paymentHandler := handlers.NewPaymentHandler(service)

	engine := NewGinEngine()
	healthRegistry := health.NewRegistry(health.NewPostgresChecker(pool.Pool))
	NewRouter(paymentHandler, healthRegistry).SetUp(engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting checkout backend", slog.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down checkout backend")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
