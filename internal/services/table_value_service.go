package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"onversed_backend/internal/cache"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	factoryUseCacheKey = "table_values:uses:factory"
	factoryUseCacheTTL = 30 * 24 * time.Hour
)

type TableValueService interface {
	// GetTableValue возвращает справочники для набора флагов платформ
	GetTableValue(ctx context.Context, db *gorm.DB, flags models.PlatformFlags) (*models.ItemUse, error)

	// Warm кладет набор factory в кеш при старте
	Warm(ctx context.Context, db *gorm.DB) error
}

type tableValueService struct {
	lookupRepo repositories.LookupRepository
	cache      cache.Cache
}

func NewTableValueService(lookupRepo repositories.LookupRepository, c cache.Cache) TableValueService {
	return &tableValueService{
		lookupRepo: lookupRepo,
		cache:      c,
	}
}

// useName: factory важнее платформенных флагов
func useName(flags models.PlatformFlags) string {
	switch {
	case flags.IsFactory:
		return models.ItemUseFactory
	case flags.IsAssets, flags.IsRoblox, flags.IsZepeto, flags.IsSpatial, flags.IsDecentraland:
		return models.ItemUseAsset
	default:
		return models.ItemUseOther
	}
}

func (s *tableValueService) GetTableValue(ctx context.Context, db *gorm.DB, flags models.PlatformFlags) (*models.ItemUse, error) {
	name := useName(flags)
	if name != models.ItemUseFactory {
		return s.load(db, name)
	}

	if use, ok := s.cached(ctx); ok {
		return use, nil
	}

	use, err := s.load(db, name)
	if err != nil {
		return nil, err
	}
	s.store(ctx, use)
	return use, nil
}

func (s *tableValueService) Warm(ctx context.Context, db *gorm.DB) error {
	if _, ok := s.cached(ctx); ok {
		return nil
	}
	use, err := s.load(db, models.ItemUseFactory)
	if err != nil {
		return err
	}
	s.store(ctx, use)
	logger.Info("Table values cache warmed", "use", use.Name)
	return nil
}

func (s *tableValueService) load(db *gorm.DB, name string) (*models.ItemUse, error) {
	use, err := s.lookupRepo.FindUseByName(db, name)
	if err != nil {
		if errors.Is(err, repositories.ErrLookupNotFound) {
			return nil, apperrors.ErrNotFound(err, "table_value")
		}
		return nil, apperrors.InternalError(err)
	}
	return use, nil
}

// cached: ошибки кеша не мешают ответу, идем в базу
func (s *tableValueService) cached(ctx context.Context) (*models.ItemUse, bool) {
	raw, err := s.cache.Get(ctx, factoryUseCacheKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			logger.CtxWarn(ctx, "Table values cache read failed", "error", err.Error())
		}
		return nil, false
	}

	var use models.ItemUse
	if err := json.Unmarshal(raw, &use); err != nil {
		logger.CtxWarn(ctx, "Table values cache entry is corrupted", "error", err.Error())
		return nil, false
	}
	return &use, true
}

func (s *tableValueService) store(ctx context.Context, use *models.ItemUse) {
	raw, err := json.Marshal(use)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to encode table values", "error", err.Error())
		return
	}
	if err := s.cache.Set(ctx, factoryUseCacheKey, raw, factoryUseCacheTTL); err != nil {
		logger.CtxWarn(ctx, "Table values cache write failed", "error", err.Error())
	}
}
