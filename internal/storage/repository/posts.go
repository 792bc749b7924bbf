package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/trader-hub/internal/models"
)

// CreatePost вставляет пост и его карточки в одной транзакции:
// читатель никогда не увидит пост с неполным набором карточек.
func (s *Storage) CreatePost(ctx context.Context, post models.Post, cards []models.PostCard) (*models.Post, error) {
	const op = "storage.CreatePost"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO posts (trader_uid, type, title, content, is_premium, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, trader_uid, type, title, content, is_premium, created_at, expires_at`
	result := &models.Post{}
	var expiresAt sql.NullTime
	if err := tx.QueryRowContext(ctx, query,
		post.TraderUID, post.Type, post.Title, post.Content, post.IsPremium, post.ExpiresAt).
		Scan(&result.ID, &result.TraderUID, &result.Type, &result.Title, &result.Content,
			&result.IsPremium, &result.CreatedAt, &expiresAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expiresAt.Valid {
		result.ExpiresAt = &expiresAt.Time
	}

	cardQuery := `INSERT INTO post_cards (post_id, player_id, platform, buy_price_min,
			      buy_price_max, sell_price_min, sell_price_max)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	for _, card := range cards {
		stored := card
		if err := tx.QueryRowContext(ctx, cardQuery,
			result.ID, card.PlayerID, card.Platform, card.BuyPriceMin, card.BuyPriceMax,
			card.SellPriceMin, card.SellPriceMax).Scan(&stored.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Cards = append(result.Cards, stored)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListRecentPosts возвращает последние посты (новые первыми) с отображаемыми
// именами авторов. Карточки подгружаются отдельно через ListPostCards.
func (s *Storage) ListRecentPosts(ctx context.Context, limit int) ([]*models.Post, error) {
	const op = "storage.ListRecentPosts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.trader_uid, p.type, p.title, p.content, p.is_premium,
			      p.created_at, p.expires_at, tp.display_name
			  FROM posts p
			  LEFT JOIN trader_profiles tp ON tp.user_uid = p.trader_uid
			  ORDER BY p.created_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Post
	for rows.Next() {
		post := &models.Post{}
		var expiresAt sql.NullTime
		var displayName sql.NullString
		if err := rows.Scan(&post.ID, &post.TraderUID, &post.Type, &post.Title,
			&post.Content, &post.IsPremium, &post.CreatedAt, &expiresAt, &displayName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if expiresAt.Valid {
			post.ExpiresAt = &expiresAt.Time
		}
		if displayName.Valid {
			post.TraderDisplayName = &displayName.String
		}
		result = append(result, post)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPostCards возвращает карточки одного поста.
func (s *Storage) ListPostCards(ctx context.Context, postID string) ([]models.PostCard, error) {
	const op = "storage.ListPostCards"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, player_id, platform, buy_price_min, buy_price_max,
			      sell_price_min, sell_price_max
			  FROM post_cards
			  WHERE post_id = $1`
	rows, err := s.DB.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PostCard
	for rows.Next() {
		var card models.PostCard
		if err := rows.Scan(&card.ID, &card.PlayerID, &card.Platform, &card.BuyPriceMin,
			&card.BuyPriceMax, &card.SellPriceMin, &card.SellPriceMax); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, card)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
