// Package post содержит бизнес-логику постов трейдеров и гейт видимости
// премиум-контента в ленте.
package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/trader-hub/internal/models"
)

// feedLimit — максимум постов в одном ответе ленты.
const feedLimit = 100

const (
	defaultPostType = models.PostTypeTrade
	defaultPlatform = "ps"
)

// Repository определяет методы хранилища для работы с постами.
type Repository interface {
	// CreatePost вставляет пост и его карточки в одной транзакции.
	CreatePost(ctx context.Context, post models.Post, cards []models.PostCard) (*models.Post, error)
	// ListRecentPosts возвращает последние посты, новые первыми.
	ListRecentPosts(ctx context.Context, limit int) ([]*models.Post, error)
	// ListPostCards возвращает карточки одного поста.
	ListPostCards(ctx context.Context, postID string) ([]models.PostCard, error)
}

// SubscriptionResolver отвечает, действует ли подписка пары (читатель, автор).
type SubscriptionResolver interface {
	IsActive(ctx context.Context, subscriberUID, traderUID string) (bool, error)
}

// Service реализует бизнес-логику постов.
type Service struct {
	repo          Repository
	subscriptions SubscriptionResolver
	log           *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, subscriptions SubscriptionResolver, log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		subscriptions: subscriptions,
		log:           log,
	}
}

// Create публикует пост от имени трейдера. Право на публикацию (роль trader
// или admin) проверяется на уровне транспорта. Пустой тип поста трактуется
// как trade, пустая платформа карточки — как ps, отсутствующий is_premium —
// как true: платный контент по умолчанию.
func (s *Service) Create(ctx context.Context, traderUID string, req models.DummyPost) (*models.Post, error) {
	postType := req.Type
	if postType == "" {
		postType = defaultPostType
	}
	isPremium := true
	if req.IsPremium != nil {
		isPremium = *req.IsPremium
	}

	post := models.Post{
		TraderUID: traderUID,
		Type:      postType,
		Title:     req.Title,
		Content:   req.Content,
		IsPremium: isPremium,
		ExpiresAt: req.ExpiresAt,
	}
	cards := make([]models.PostCard, 0, len(req.Cards))
	for _, card := range req.Cards {
		platform := card.Platform
		if platform == "" {
			platform = defaultPlatform
		}
		cards = append(cards, models.PostCard{
			PlayerID:     card.PlayerID,
			Platform:     platform,
			BuyPriceMin:  card.BuyPriceMin,
			BuyPriceMax:  card.BuyPriceMax,
			SellPriceMin: card.SellPriceMin,
			SellPriceMax: card.SellPriceMax,
		})
	}

	created, err := s.repo.CreatePost(ctx, post, cards)
	if err != nil {
		return nil, err
	}
	s.log.Info("post created",
		slog.String("post_id", created.ID),
		slog.String("trader_uid", traderUID),
		slog.Bool("is_premium", created.IsPremium))
	return created, nil
}

// Feed возвращает последние посты, пропущенные через гейт видимости
// для конкретного читателя. Решение принимается отдельно для каждого поста:
//
//   - автор всегда видит свой пост целиком;
//   - не-премиум пост открыт всем;
//   - премиум пост открыт только активным подписчикам автора, остальным
//     тело заменяется на заглушку, а заголовок, карточки и метаданные
//     остаются видимыми.
//
// Ошибка проверки подписки роняет запрос целиком: деградация ленты
// до «все открыто» недопустима.
func (s *Service) Feed(ctx context.Context, readerUID string) ([]*models.Post, error) {
	const op = "post.Feed"
	posts, err := s.repo.ListRecentPosts(ctx, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Проверка подписки кешируется по паре: повторные посты одного
	// автора в той же ленте не ходят в резолвер заново.
	granted := make(map[string]bool)

	for _, post := range posts {
		cards, err := s.repo.ListPostCards(ctx, post.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		post.Cards = cards

		if !post.IsPremium || post.TraderUID == readerUID {
			continue
		}

		active, seen := granted[post.TraderUID]
		if !seen {
			active, err = s.subscriptions.IsActive(ctx, readerUID, post.TraderUID)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			granted[post.TraderUID] = active
		}
		if !active {
			post.Content = models.LockedPostPlaceholder
			post.Locked = true
		}
	}
	return posts, nil
}
