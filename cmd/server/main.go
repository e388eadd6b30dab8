// Command server runs the SpamZero backend: the classification history store,
// its spam/ham statistics and the inference proxy.
//
//	@title			SpamZero API
//	@version		1.0
//	@description	Classification history store, spam/ham statistics and inference proxy.
//	@BasePath		/api
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	_ "github.com/tbourn/spamzero-backend/docs"
	"github.com/tbourn/spamzero-backend/internal/config"
	httpapi "github.com/tbourn/spamzero-backend/internal/http"
	"github.com/tbourn/spamzero-backend/internal/observability"
	"github.com/tbourn/spamzero-backend/internal/repo"
	"github.com/tbourn/spamzero-backend/internal/services"
	"github.com/tbourn/spamzero-backend/internal/sysutil"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// store is a HistoryStore the process owns and must release on exit.
type store interface {
	services.HistoryStore
	Close(ctx context.Context) error
}

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		sysutil.ConfigureLogger(os.Stderr, "info", false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	sysutil.ConfigureLogger(os.Stdout, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("history store unavailable")
	}

	if cfg.Predict.URL == "" {
		log.Warn().Msg("HUGGING_FACE_URI is not set; /predict will fail until it is configured")
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{Store: st}, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", cfg.Store.Driver).
			Str("version", version).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close")
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("server stopped")
}

// openStore connects the configured history backend. The connection is made
// once here and shared by every request.
func openStore(ctx context.Context, cfg config.StoreConfig) (store, error) {
	switch cfg.Driver {
	case config.StoreMongo:
		cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return repo.NewMongoStore(cctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return repo.NewSQLStore(cfg.DBPath)
	}
}
