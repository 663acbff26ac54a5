package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/api"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
	"github.com/learnhub/enrollment-pipeline/internal/core/service"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/catalog"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/config"
	redisdb "github.com/learnhub/enrollment-pipeline/internal/infrastructure/db/redis"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/http/handlers"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/notify"
	"github.com/learnhub/enrollment-pipeline/internal/infrastructure/queue"
	"github.com/learnhub/enrollment-pipeline/pkg/logger"
)

const (
	serviceName     = "enrollment-pipeline"
	shutdownTimeout = 15 * time.Second
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Service: serviceName})
		bootLog.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
		Env:     cfg.Env,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	pingers := []handlers.Pinger{st.pinger}

	var ledger ports.LedgerRepository = st.ledger
	if cfg.Redis.Enabled {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		ledger = redisdb.NewLedgerCache(rdb, st.ledger, cfg.Redis.LedgerTTL, log)
		pingers = append(pingers, redisdb.NewPinger(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("ledger cache enabled")
	}

	var courses ports.CourseCatalog = st.catalog
	if cfg.Catalog.URL != "" {
		courses = catalog.NewHTTPCatalog(catalog.Config{
			BaseURL: cfg.Catalog.URL,
			Token:   cfg.Catalog.Token,
			Timeout: cfg.Catalog.Timeout,
			Retries: cfg.Catalog.Retries,
		})
		log.Info().Str("url", cfg.Catalog.URL).Msg("using remote course catalog")
	}

	var sender ports.MailSender = notify.NewLogSender(log, cfg.Mail.LoginURL)
	if cfg.Mail.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(cfg.Mail.SendGridAPIKey, notify.Sender{
			Address:  cfg.Mail.FromAddress,
			Name:     cfg.Mail.FromName,
			LoginURL: cfg.Mail.LoginURL,
		})
	}

	// Notification workers outlive the request context. Stopping them after
	// the HTTP server has shut down delivers whatever is still queued.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, cfg.Notify.Buffer, sender, log)
	dispatcher.Start(workerCtx)

	purchases := service.NewPurchaseService(
		service.NewIdentityResolver(st.accounts, dispatcher, log),
		service.NewEnrollmentResolver(st.enrollments, log),
		service.NewLedger(ledger, log),
		courses,
		log,
	)

	e := api.NewRouter(api.RouterDeps{
		Purchases: purchases,
		Health:    handlers.NewHealthHandler(pingers...),
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-serverErr:
		stopWorkers()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
	return nil
}
