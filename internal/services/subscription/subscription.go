// Package subscription содержит бизнес-логику платных подписок на трейдеров:
// оформление, отмену и проверку активной связи для пары (подписчик, трейдер).
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
	"github.com/magabrotheeeer/trader-hub/internal/models"
	"github.com/magabrotheeeer/trader-hub/internal/rabbitmq"
)

// ErrSelfSubscription — попытка подписаться на самого себя.
// Отклоняется до любого обращения к хранилищу.
var ErrSelfSubscription = errors.New("cannot subscribe to yourself")

// activeCacheTTL ограничивает жизнь закешированного результата проверки:
// отмена из другого экземпляра сервиса станет видна не позже чем через TTL.
const activeCacheTTL = time.Minute

// Repository определяет методы хранилища для работы с подписками.
type Repository interface {
	// FindActiveSubscription сообщает, есть ли активная строка для пары.
	FindActiveSubscription(ctx context.Context, subscriberUID, traderUID string) (bool, error)
	// UpsertSubscription активирует или реактивирует подписку пары.
	UpsertSubscription(ctx context.Context, subscriberUID, traderUID string) (*models.Subscription, error)
	// CancelSubscription переводит подписку пары в canceled.
	CancelSubscription(ctx context.Context, subscriberUID, traderUID string) (int, error)
	// ListSubscriptionsBySubscriber возвращает подписки пользователя.
	ListSubscriptionsBySubscriber(ctx context.Context, subscriberUID string) ([]*models.Subscription, error)
	// GetTraderProfile возвращает профиль трейдера или repository.ErrTraderNotFound.
	GetTraderProfile(ctx context.Context, userUID string) (*models.TraderProfile, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует события жизненного цикла подписок.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику подписок.
type Service struct {
	repo   Repository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

func activeCacheKey(subscriberUID, traderUID string) string {
	return fmt.Sprintf("subactive:%s:%s", subscriberUID, traderUID)
}

// IsActive отвечает, действует ли подписка пары (подписчик, трейдер).
// Истина только для строки со статусом active; ends_at не интерпретируется.
// Пара сам-на-себя разрешается владением, не подпиской.
//
// Ошибка хранилища пробрасывается наверх: доступ никогда не выдается
// по умолчанию. Ошибка кеша деградирует только до похода в хранилище.
func (s *Service) IsActive(ctx context.Context, subscriberUID, traderUID string) (bool, error) {
	if subscriberUID == traderUID {
		return true, nil
	}

	cacheKey := activeCacheKey(subscriberUID, traderUID)
	var cached bool
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read subscription status from cache", slog.String("key", cacheKey), sl.Err(err))
	} else if found {
		return cached, nil
	}

	active, err := s.repo.FindActiveSubscription(ctx, subscriberUID, traderUID)
	if err != nil {
		return false, err
	}

	if err := s.cache.Set(ctx, cacheKey, active, activeCacheTTL); err != nil {
		s.log.Warn("failed to cache subscription status", slog.String("key", cacheKey), sl.Err(err))
	}
	return active, nil
}

// Subscribe оформляет подписку на трейдера. Подписка на себя отклоняется
// до обращения к хранилищу; несуществующий трейдер — repository.ErrTraderNotFound.
// Повторный вызов для той же пары идемпотентен: строка одна, статус active.
func (s *Service) Subscribe(ctx context.Context, subscriberUID, traderUID string) (*models.Subscription, error) {
	if subscriberUID == traderUID {
		return nil, ErrSelfSubscription
	}
	if _, err := s.repo.GetTraderProfile(ctx, traderUID); err != nil {
		return nil, err
	}

	sub, err := s.repo.UpsertSubscription(ctx, subscriberUID, traderUID)
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription activated",
		slog.String("subscriber_uid", subscriberUID), slog.String("trader_uid", traderUID))

	s.invalidateAndPublish(ctx, subscriberUID, traderUID, rabbitmq.RoutingKeyActivated)
	return sub, nil
}

// Cancel отменяет подписку пары: статус сразу становится canceled,
// ends_at проставляется. Строка сохраняется для истории.
// Возвращает количество затронутых строк.
func (s *Service) Cancel(ctx context.Context, subscriberUID, traderUID string) (int, error) {
	count, err := s.repo.CancelSubscription(ctx, subscriberUID, traderUID)
	if err != nil {
		return 0, err
	}
	s.log.Info("subscription canceled",
		slog.String("subscriber_uid", subscriberUID), slog.String("trader_uid", traderUID),
		slog.Int("count", count))

	s.invalidateAndPublish(ctx, subscriberUID, traderUID, rabbitmq.RoutingKeyCanceled)
	return count, nil
}

// ListMine возвращает подписки пользователя, новые первыми.
func (s *Service) ListMine(ctx context.Context, subscriberUID string) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptionsBySubscriber(ctx, subscriberUID)
}

// invalidateAndPublish сбрасывает кеш пары и публикует событие.
// Обе операции best-effort: их сбой не отменяет уже совершенную запись.
func (s *Service) invalidateAndPublish(ctx context.Context, subscriberUID, traderUID, routingKey string) {
	cacheKey := activeCacheKey(subscriberUID, traderUID)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate subscription cache", slog.String("key", cacheKey), sl.Err(err))
	}

	event := models.SubscriptionEvent{
		Action:        routingKey,
		SubscriberUID: subscriberUID,
		TraderUID:     traderUID,
	}
	if err := s.events.Publish(routingKey, event); err != nil {
		s.log.Warn("failed to publish subscription event", slog.String("action", routingKey), sl.Err(err))
	}
}
