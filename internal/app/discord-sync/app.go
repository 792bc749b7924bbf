// Package discordsync собирает и запускает воркер синхронизации
// discord-ролей по событиям подписок.
package discordsync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/trader-hub/internal/config"
	"github.com/magabrotheeeer/trader-hub/internal/discord"
	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
	"github.com/magabrotheeeer/trader-hub/internal/models"
	"github.com/magabrotheeeer/trader-hub/internal/rabbitmq"
	"github.com/magabrotheeeer/trader-hub/internal/storage/repository"
)

const queueName = "subscriptions.discord-sync"

// App инкапсулирует соединения воркера.
type App struct {
	logger  *slog.Logger
	db      *repository.Storage
	conn    *amqp.Connection
	ch      *amqp.Channel
	discord *discord.Client
}

// New собирает воркер: хранилище, брокер и discord-клиент.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbit, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetSubscriptionQueues())
	if err != nil {
		return nil, err
	}

	return &App{
		logger:  logger,
		db:      db,
		conn:    conn,
		ch:      ch,
		discord: discord.New(cfg.Discord, logger),
	}, nil
}

// Run потребляет события подписок до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	if err := rabbitmq.ConsumeMessages(ctx, a.ch, queueName, a.handleEvent(ctx)); err != nil {
		return err
	}
	a.logger.Info("discord-sync worker started", slog.String("queue", queueName))

	<-ctx.Done()
	_ = a.conn.Close()
	_ = a.db.DB.Close()
	return nil
}

// handleEvent выдает или снимает премиум-роль по событию подписки.
// Подписчик без привязанного discord-аккаунта пропускается без ошибки:
// возвращать такое сообщение в очередь бессмысленно.
func (a *App) handleEvent(ctx context.Context) func([]byte) error {
	return func(body []byte) error {
		var event models.SubscriptionEvent
		if err := json.Unmarshal(body, &event); err != nil {
			a.logger.Error("failed to decode subscription event", sl.Err(err))
			return nil
		}

		user, err := a.db.GetUserByUID(ctx, event.SubscriberUID)
		if err != nil {
			return fmt.Errorf("failed to resolve subscriber: %w", err)
		}
		if user.DiscordID == nil {
			a.logger.Info("subscriber has no linked discord account",
				slog.String("subscriber_uid", event.SubscriberUID))
			return nil
		}

		switch event.Action {
		case rabbitmq.RoutingKeyActivated:
			err = a.discord.GrantPremiumRole(*user.DiscordID)
		case rabbitmq.RoutingKeyCanceled:
			err = a.discord.RevokePremiumRole(*user.DiscordID)
		default:
			a.logger.Warn("unknown subscription event action", slog.String("action", event.Action))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to sync discord role: %w", err)
		}

		a.logger.Info("discord role synced",
			slog.String("action", event.Action),
			slog.String("subscriber_uid", event.SubscriberUID))
		return nil
	}
}
