// Package trader содержит бизнес-логику профилей трейдеров.
package trader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/trader-hub/internal/lib/sl"
	"github.com/magabrotheeeer/trader-hub/internal/models"
)

const profileCacheTTL = time.Hour

// Repository определяет методы хранилища для работы с профилями трейдеров.
type Repository interface {
	// UpsertTraderProfile создает или обновляет профиль и возвращает сохраненный.
	UpsertTraderProfile(ctx context.Context, userUID string, req models.DummyTraderProfile) (*models.TraderProfile, error)
	// GetTraderProfile возвращает профиль или repository.ErrTraderNotFound.
	GetTraderProfile(ctx context.Context, userUID string) (*models.TraderProfile, error)
	// ListTraderProfiles возвращает профили: верифицированные первыми, затем новые.
	ListTraderProfiles(ctx context.Context) ([]*models.TraderProfile, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует бизнес-логику профилей трейдеров с кешированием чтения.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func profileCacheKey(userUID string) string {
	return fmt.Sprintf("trader:%s", userUID)
}

// Upsert создает или обновляет профиль трейдера. Право на операцию
// (роль trader или admin) проверяется на уровне транспорта, владелец
// профиля — всегда сам вызывающий. Кеш профиля сбрасывается.
func (s *Service) Upsert(ctx context.Context, userUID string, req models.DummyTraderProfile) (*models.TraderProfile, error) {
	profile, err := s.repo.UpsertTraderProfile(ctx, userUID, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("trader profile upserted", slog.String("user_uid", userUID))

	cacheKey := profileCacheKey(userUID)
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("failed to invalidate trader profile cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return profile, nil
}

// Get возвращает профиль трейдера, используя кеш или хранилище.
func (s *Service) Get(ctx context.Context, userUID string) (*models.TraderProfile, error) {
	cacheKey := profileCacheKey(userUID)
	var cached models.TraderProfile
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read trader profile from cache", slog.String("key", cacheKey), sl.Err(err))
	} else if found {
		return &cached, nil
	}

	profile, err := s.repo.GetTraderProfile(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, profile, profileCacheTTL); err != nil {
		s.log.Warn("failed to cache trader profile", slog.String("key", cacheKey), sl.Err(err))
	}
	return profile, nil
}

// List возвращает все профили: верифицированные первыми, внутри группы новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.TraderProfile, error) {
	return s.repo.ListTraderProfiles(ctx)
}
