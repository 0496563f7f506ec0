// @title           Marketplace API
// @version         1.0
// @description     Account, authentication and product catalogue service.
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/elmdemo/marketplace/docs"
	"github.com/elmdemo/marketplace/internal/api"
	"github.com/elmdemo/marketplace/internal/core/auth"
	"github.com/elmdemo/marketplace/internal/core/ports"
	"github.com/elmdemo/marketplace/internal/core/service"
	"github.com/elmdemo/marketplace/internal/infrastructure/config"
	"github.com/elmdemo/marketplace/internal/infrastructure/crypto"
	"github.com/elmdemo/marketplace/internal/infrastructure/db/redis"
	"github.com/elmdemo/marketplace/internal/infrastructure/http/handlers"
	"github.com/elmdemo/marketplace/internal/infrastructure/queue"
	"github.com/elmdemo/marketplace/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		// The logger may not exist yet, so fall back to a bare one.
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("marketplace stopped")
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace",
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(context.Background())
	log.Info().Str("driver", cfg.StoreDriver).Msg("store ready")

	var (
		readiness []handlers.DependencyCheck
		sink      ports.ActivitySink = ports.NopActivitySink{}
	)
	if st.check != nil {
		readiness = append(readiness, *st.check)
	}

	if cfg.Activity.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("redis close")
			}
		}()
		readiness = append(readiness, handlers.RedisCheck(rdb))
		sink = redis.NewActivityStream(rdb, cfg.Activity.Stream)
	} else {
		log.Warn().Msg("activity trail disabled, events are discarded")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher := queue.NewDispatcher(cfg.Activity.Workers, sink, log)
	dispatcher.Start(workerCtx)

	secret, err := cfg.Auth.SecretBytes()
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenCodec(secret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	accounts := service.NewAccountService(st.accounts, crypto.NewBcryptHasher(cfg.Auth.BcryptCost), tokens, log,
		service.WithActivitySink(dispatcher))
	products := service.NewProductService(st.products, st.accounts, log,
		service.WithActivitySink(dispatcher))

	e := api.NewRouter(api.Dependencies{
		Accounts:     accounts,
		Products:     products,
		Tokens:       tokens,
		AccountStore: st.accounts,
		Readiness:    readiness,
		Logger:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("activity queue not fully drained")
	}

	log.Info().Msg("marketplace stopped")
	return nil
}
