package services

import (
	"context"
	"testing"

	"onversed_backend/internal/cache"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLookupRepository struct {
	repositories.LookupRepository
	calls map[string]int
}

func (r *fakeLookupRepository) FindUseByName(_ *gorm.DB, name string) (*models.ItemUse, error) {
	r.calls[name]++
	if name == "missing" {
		return nil, repositories.ErrLookupNotFound
	}
	return &models.ItemUse{LookupValue: models.LookupValue{Name: name}}, nil
}

func TestUseName(t *testing.T) {
	assert.Equal(t, models.ItemUseOther, useName(models.PlatformFlags{}))
	assert.Equal(t, models.ItemUseAsset, useName(models.PlatformFlags{IsZepeto: true}))
	assert.Equal(t, models.ItemUseFactory, useName(models.PlatformFlags{IsFactory: true, IsRoblox: true}))
}

func TestFactoryTableValueIsCached(t *testing.T) {
	repo := &fakeLookupRepository{calls: map[string]int{}}
	svc := NewTableValueService(repo, cache.NewMemoryCache())
	ctx := context.Background()

	require.NoError(t, svc.Warm(ctx, nil))
	for i := 0; i < 3; i++ {
		use, err := svc.GetTableValue(ctx, nil, models.PlatformFlags{IsFactory: true})
		require.NoError(t, err)
		assert.Equal(t, models.ItemUseFactory, use.Name)
	}
	assert.Equal(t, 1, repo.calls[models.ItemUseFactory])

	// остальные наборы читаются из базы каждый раз
	for i := 0; i < 2; i++ {
		_, err := svc.GetTableValue(ctx, nil, models.PlatformFlags{IsAssets: true})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, repo.calls[models.ItemUseAsset])
}

func TestTableValueLoadMapsNotFound(t *testing.T) {
	svc := &tableValueService{lookupRepo: &fakeLookupRepository{calls: map[string]int{}}, cache: cache.NewMemoryCache()}

	_, err := svc.load(nil, "missing")
	assertAppError(t, err, 404)
}
