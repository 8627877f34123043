package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/steelcity-drags/roster-api/internal/adapters/httpapi"
	"github.com/steelcity-drags/roster-api/internal/app/imports"
	"github.com/steelcity-drags/roster-api/internal/bootstrap"
	"github.com/steelcity-drags/roster-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/steelcity-drags/roster-api/internal/platform/clock"
	"github.com/steelcity-drags/roster-api/internal/platform/config"
	"github.com/steelcity-drags/roster-api/internal/platform/logging"
	"github.com/steelcity-drags/roster-api/internal/platform/metrics"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadServerConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid server config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.LogLevel, logging.Production(cfg.LogFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("api exited", zap.Error(err))
	}
}

func run(cfg config.ServerConfig, log *zap.Logger) error {
	// Auth configuration:
	// - Production: require JWT_SECRET and enforce bearer auth
	// - Local dev: set AUTH_MODE=dev to bypass JWT verification and use X-Debug-Subject / X-Debug-Role
	authCfg, err := config.LoadAuthConfigFromEnv()
	if err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}
	var authMW func(http.Handler) http.Handler
	switch authCfg.Mode {
	case config.AuthModeDev:
		log.Warn("dev auth enabled; do not use in production", zap.String("default_role", string(authCfg.DevRole)))
		authMW = httpapi.NewDevAuthMiddleware(authCfg.DevSubject, authCfg.DevRole)
	default:
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(authCfg))
	}

	policy, err := config.LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	stores, err := bootstrap.OpenStores(startupCtx, cfg, true)
	if err != nil {
		return err
	}
	defer stores.Close()

	clk := platformclock.NewSystemClockIn(policy.Location())
	met := metrics.New()
	rec := imports.RecorderFunc(func(k imports.Kind, imported, failed int) {
		met.ObserveImport(string(k), imported, failed)
	})
	svcs := bootstrap.NewServices(stores, policy, clk, rec, log)

	if _, err := svcs.Options.SeedDefaults(startupCtx, policy.OptionDefaults()); err != nil {
		return fmt.Errorf("seed vehicle options: %w", err)
	}

	api := httpapi.NewServer(svcs, stores.Idem, clk, log.Named("http"))
	api.IdemTTL = cfg.IdempotencyTTL
	if cfg.IdempotencyTTL > 0 {
		go pruneIdempotency(ctx, stores, cfg.IdempotencyTTL, log.Named("idempotency"))
	}
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		AuthMiddleware: authMW,
		Metrics:        met,
		Logger:         log.Named("access"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening",
			zap.String("port", cfg.Port),
			zap.String("storage", cfg.StorageBackend),
			zap.String("auth", authCfg.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// pruneIdempotency removes expired import responses once at startup and then hourly until ctx ends.
func pruneIdempotency(ctx context.Context, stores *bootstrap.Stores, ttl time.Duration, log *zap.Logger) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		n, err := stores.Idem.Prune(ctx, time.Now().Add(-ttl))
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn("prune idempotency records", zap.Error(err))
		case n > 0:
			log.Info("pruned idempotency records", zap.Int("removed", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
