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

	"github.com/rs/zerolog"

	"github.com/tradeshift/trading-shell/internal/api"
	"github.com/tradeshift/trading-shell/internal/api/handler"
	"github.com/tradeshift/trading-shell/internal/core/ports"
	"github.com/tradeshift/trading-shell/internal/core/service"
	"github.com/tradeshift/trading-shell/internal/core/validation"
	"github.com/tradeshift/trading-shell/internal/infrastructure/config"
	"github.com/tradeshift/trading-shell/internal/infrastructure/credential"
	"github.com/tradeshift/trading-shell/internal/infrastructure/gateway"
	"github.com/tradeshift/trading-shell/pkg/logger"
)

// store is a credential store that can be health-checked.
type store interface {
	ports.CredentialStore
	handler.Pinger
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Development(),
		File:   cfg.LogFile,
	})

	creds, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Credential.Backend).Msg("init credential store")
	}
	defer closeStore()

	gw := gateway.New(gateway.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, creds, log.With().Str("component", "gateway").Logger())

	e := api.NewRouter(api.Dependencies{
		Auth:         service.NewAuthService(gw, creds, validation.New(), log),
		Orders:       service.NewOrderService(gw, log),
		Quotes:       service.NewQuoteService(nil),
		Guard:        service.NewRouteGuard(creds, log),
		PortfolioID:  cfg.API.PortfolioID,
		TickInterval: cfg.TickInterval,
		Health:       map[string]handler.Pinger{"credential_store": creds},
		Log:          log,
	})

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("api", cfg.API.BaseURL).
			Str("credential_backend", cfg.Credential.Backend).
			Msg("trading shell listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := e.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	log.Info().Msg("trading shell stopped")
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store, func(), error) {
	switch cfg.Credential.Backend {
	case config.BackendRedis:
		s, err := credential.ConnectRedis(ctx, credential.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Credential.Key,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s.Close, log), nil
	case config.BackendMemory:
		return credential.NewMemoryStore(), func() {}, nil
	default:
		s, err := credential.OpenBadger(credential.BadgerOptions{
			Path:          cfg.Credential.Path,
			Key:           cfg.Credential.Key,
			EncryptionKey: []byte(cfg.Credential.EncryptionKey),
		})
		if err != nil {
			return nil, nil, err
		}
		return s, closer(s.Close, log), nil
	}
}

func closer(fn func() error, log zerolog.Logger) func() {
	return func() {
		if err := fn(); err != nil {
			log.Warn().Err(err).Msg("close credential store")
		}
	}
}
