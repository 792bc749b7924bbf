// Package traderhub собирает и запускает HTTP-приложение платформы.
package traderhub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/trader-hub/internal/cache"
	"github.com/magabrotheeeer/trader-hub/internal/config"
	"github.com/magabrotheeeer/trader-hub/internal/discord"
	"github.com/magabrotheeeer/trader-hub/internal/lib/jwt"
	"github.com/magabrotheeeer/trader-hub/internal/migrations"
	"github.com/magabrotheeeer/trader-hub/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/trader-hub/internal/services/auth"
	postservice "github.com/magabrotheeeer/trader-hub/internal/services/post"
	subservice "github.com/magabrotheeeer/trader-hub/internal/services/subscription"
	traderservice "github.com/magabrotheeeer/trader-hub/internal/services/trader"
	"github.com/magabrotheeeer/trader-hub/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние соединения приложения.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	rabbitConn *amqp.Connection
}

// New собирает приложение: хранилище, миграции, кеш, брокер, сервисы и роутер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetSubscriptionQueues())
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	traderService := traderservice.New(db, cacheRedis, logger)
	subscriptionService := subservice.New(db, cacheRedis, publisher, logger)
	postService := postservice.New(db, subscriptionService, logger)
	discordClient := discord.New(cfg.Discord, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db,
		authService, traderService, subscriptionService, postService, discordClient)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		rabbitConn: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitConn.Close()
		_ = a.db.DB.Close()
		return err
	}
}
