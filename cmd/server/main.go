package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/upkeephq/upkeep/internal/application/inventory"
	"github.com/upkeephq/upkeep/internal/application/maintenance"
	"github.com/upkeephq/upkeep/internal/application/sweep"
	"github.com/upkeephq/upkeep/internal/config"
	upkeephttp "github.com/upkeephq/upkeep/internal/infrastructure/http"
	"github.com/upkeephq/upkeep/internal/infrastructure/http/handler"
	"github.com/upkeephq/upkeep/internal/infrastructure/observability"
	"github.com/upkeephq/upkeep/internal/infrastructure/persistence/postgres"
	fsstore "github.com/upkeephq/upkeep/internal/storage/fs"
	gcsstore "github.com/upkeephq/upkeep/internal/storage/gcs"
)

const defaultAttachmentsDir = "./data/attachments"

func main() {
	if err := run(); err != nil {
		// Use stderr directly, slog may not be initialized if config fails
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Auth.Validate(); err != nil {
		return err
	}
	if err := cfg.Database.Validate(); err != nil {
		return err
	}
	if err := cfg.Attachments.Validate(); err != nil {
		return err
	}

	// Root context for all normal operations, cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Init observability (logger, tracer, meter).
	// Export configuration via OTEL_* env vars (endpoint, headers, resource attributes)
	otelCfg := observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
	}

	lp, logger, err := observability.InitLogger(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() {
		// Use a timeout to prevent hanging if collector is unreachable
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown logger provider", "error", err)
		}
	}()
	slog.SetDefault(logger)

	tp, err := observability.InitTracerProvider(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("failed to init tracer provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown tracer provider", "error", err)
		}
	}()

	mp, err := observability.InitMeterProvider(ctx, otelCfg)
	if err != nil {
		return fmt.Errorf("failed to init meter provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown meter provider", "error", err)
		}
	}()

	slog.InfoContext(ctx, "starting upkeep server")

	// Init storage
	store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
		AutoMigrate:     cfg.Database.AutoMigrate,
	})
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer store.Close()

	slog.InfoContext(ctx, "storage initialized", "dsn", maskPassword(cfg.Database.DSN))

	attachments, err := newAttachmentStore(ctx, cfg.Attachments)
	if err != nil {
		return fmt.Errorf("failed to create attachment store: %w", err)
	}

	// Init services
	inventorySvc := inventory.NewService(store, attachments)
	maintenanceSvc := maintenance.NewService(store, maintenance.Config{
		DefaultPageSize: cfg.Maintenance.DefaultPageSize,
		MaxPageSize:     cfg.Maintenance.MaxPageSize,
		ApplyTimeout:    cfg.Maintenance.ApplyTimeout,
	})
	sweepSvc := sweep.NewService(store)

	h := handler.NewHandler(inventorySvc, maintenanceSvc, sweepSvc)

	// Wrap the API routes for tracing and metrics on every request
	apiHandler := otelhttp.NewHandler(h.Routes(), "upkeep-api")

	server := upkeephttp.NewAPIServer(apiHandler, h.CronRoutes(), upkeephttp.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		APIKey:            cfg.Auth.APIKey,
		CronSecret:        cfg.Auth.CronSecret,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
	})

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")

		shutdownCtx, cancel := newShutdownContext(cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.WarnContext(shutdownCtx, "HTTP server shutdown timed out", "error", err)
		} else {
			slog.InfoContext(shutdownCtx, "HTTP server shutdown complete")
		}

		return nil
	case err := <-errResult:
		return err
	}
}

// newAttachmentStore builds the blob store selected by configuration.
func newAttachmentStore(ctx context.Context, cfg config.AttachmentsConfig) (inventory.AttachmentStore, error) {
	switch cfg.Backend {
	case "gcs":
		return gcsstore.NewStore(ctx, cfg.GCSBucket)
	default:
		dir := cfg.FSDir
		if dir == "" {
			dir = defaultAttachmentsDir
		}
		return fsstore.NewStore(dir)
	}
}

// newShutdownContext returns a context bounding graceful shutdown.
func newShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// maskPassword hides the password portion of a connection URL for logging.
func maskPassword(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<unparseable>"
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
