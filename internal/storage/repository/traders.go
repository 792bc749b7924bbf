package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/trader-hub/internal/models"
)

func scanTraderProfile(row *sql.Row) (*models.TraderProfile, error) {
	p := &models.TraderProfile{}
	var bannerURL, avatarURL sql.NullString
	if err := row.Scan(&p.UserUID, &p.DisplayName, &p.Bio, &bannerURL, &avatarURL,
		&p.SubscriptionPriceCents, &p.IsVerified, &p.CreatedAt); err != nil {
		return nil, err
	}
	if bannerURL.Valid {
		p.BannerURL = &bannerURL.String
	}
	if avatarURL.Valid {
		p.AvatarURL = &avatarURL.String
	}
	return p, nil
}

// UpsertTraderProfile создает или обновляет профиль трейдера и возвращает
// сохраненную строку. Флаг is_verified владельцем не перезаписывается.
func (s *Storage) UpsertTraderProfile(ctx context.Context, userUID string, req models.DummyTraderProfile) (*models.TraderProfile, error) {
	const op = "storage.UpsertTraderProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO trader_profiles (user_uid, display_name, bio, banner_url,
			      avatar_url, subscription_price_cents)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (user_uid) DO UPDATE SET
			      display_name = EXCLUDED.display_name,
			      bio = EXCLUDED.bio,
			      banner_url = EXCLUDED.banner_url,
			      avatar_url = EXCLUDED.avatar_url,
			      subscription_price_cents = EXCLUDED.subscription_price_cents
			  RETURNING user_uid, display_name, bio, banner_url, avatar_url,
			      subscription_price_cents, is_verified, created_at`
	profile, err := scanTraderProfile(s.DB.QueryRowContext(ctx, query,
		userUID, req.DisplayName, req.Bio, req.BannerURL, req.AvatarURL,
		req.SubscriptionPriceCents))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

// GetTraderProfile возвращает профиль трейдера по UID пользователя
// или ErrTraderNotFound.
func (s *Storage) GetTraderProfile(ctx context.Context, userUID string) (*models.TraderProfile, error) {
	const op = "storage.GetTraderProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, display_name, bio, banner_url, avatar_url,
			      subscription_price_cents, is_verified, created_at
			  FROM trader_profiles
			  WHERE user_uid = $1`
	profile, err := scanTraderProfile(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrTraderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return profile, nil
}

// ListTraderProfiles возвращает все профили трейдеров:
// сначала верифицированные, внутри группы — новые первыми.
func (s *Storage) ListTraderProfiles(ctx context.Context) ([]*models.TraderProfile, error) {
	const op = "storage.ListTraderProfiles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, display_name, bio, banner_url, avatar_url,
			      subscription_price_cents, is_verified, created_at
			  FROM trader_profiles
			  ORDER BY is_verified DESC, created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TraderProfile
	for rows.Next() {
		p := &models.TraderProfile{}
		var bannerURL, avatarURL sql.NullString
		if err := rows.Scan(&p.UserUID, &p.DisplayName, &p.Bio, &bannerURL, &avatarURL,
			&p.SubscriptionPriceCents, &p.IsVerified, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if bannerURL.Valid {
			p.BannerURL = &bannerURL.String
		}
		if avatarURL.Valid {
			p.AvatarURL = &avatarURL.String
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
