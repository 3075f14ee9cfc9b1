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

	"github.com/sethvargo/go-envconfig"

	"github.com/tradeshift/trading-shell/internal/infrastructure/config"
	"github.com/tradeshift/trading-shell/internal/mockapi"
	"github.com/tradeshift/trading-shell/pkg/logger"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := config.LoadMock(ctx, envconfig.OsLookuper())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Development(),
		File:   cfg.LogFile,
	})

	opts := mockapi.Options{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Log:       log,
	}

	if cfg.Mongo.URI != "" {
		client, db, err := mockapi.ConnectMongo(ctx, mockapi.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			Timeout:  cfg.Mongo.Timeout,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("init mongo")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mockapi.NewMongoRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure indexes")
		}
		opts.Users, opts.Orders, opts.Store = repo, repo.Orders(), repo
		log.Info().Str("database", cfg.Mongo.Database).Msg("mock api state in mongo")
	} else {
		repo := mockapi.NewMemoryRepository()
		opts.Users, opts.Orders, opts.Store = repo, repo.Orders(), repo
	}

	e := mockapi.New(opts)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("mock trading api listening")
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
}
