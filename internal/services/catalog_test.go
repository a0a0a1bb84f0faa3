package services

import (
	"testing"

	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestMergeItemOverwritesOnlyProvidedFields(t *testing.T) {
	item := &models.Item{
		SKU:         "SKU-1",
		Name:        "Jacket",
		Description: "warm",
		State:       models.ActivityStateDraft,
		CategoryID:  strPtr("cat-1"),
	}

	mergeItem(item, &dto.UpdateItemRequest{
		Name:       strPtr("Coat"),
		CategoryID: strPtr(""),
		PlatformFlagsPatch: dto.PlatformFlagsPatch{
			IsRoblox: boolPtr(true),
		},
	})

	assert.Equal(t, "SKU-1", item.SKU)
	assert.Equal(t, "Coat", item.Name)
	assert.Equal(t, "warm", item.Description)
	assert.Nil(t, item.CategoryID)
	assert.True(t, item.IsRoblox)
	assert.Equal(t, models.ActivityStateDraft, item.State)
}

func TestMergeItemToSentMovesState(t *testing.T) {
	item := &models.Item{State: models.ActivityStateDraft}

	mergeItem(item, &dto.UpdateItemRequest{ToSent: boolPtr(false)})
	assert.Equal(t, models.ActivityStateDraft, item.State)

	mergeItem(item, &dto.UpdateItemRequest{ToSent: boolPtr(true)})
	assert.Equal(t, models.ActivityStateSent, item.State)
}

func TestMergeCollection(t *testing.T) {
	c := &models.Collection{Name: "Spring", Description: "old"}
	c.IsFactory = true

	mergeCollection(c, &dto.UpdateCollectionRequest{
		Description: strPtr("new"),
		IsAgreed:    boolPtr(true),
		PlatformFlagsPatch: dto.PlatformFlagsPatch{
			IsFactory: boolPtr(false),
		},
	})

	assert.Equal(t, "Spring", c.Name)
	assert.Equal(t, "new", c.Description)
	assert.True(t, c.IsAgreed)
	assert.False(t, c.IsFactory)
}

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"", "", ""},
		{"  Ada ", "Ada", ""},
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"Juan  de la Cruz", "Juan", "de la Cruz"},
	}
	for _, tt := range tests {
		first, last := splitFullName(tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.last, last, tt.in)
	}
}

func TestUniqueStringsKeepsOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, uniqueStrings([]string{"b", "a", "b", "c", "a"}))
	assert.Empty(t, uniqueStrings(nil))
}

func TestHandleCatalogError(t *testing.T) {
	err := handleCatalogError(repositories.ErrItemAlreadyExists, "item")
	assertAppError(t, err, 409)

	err = handleCatalogError(repositories.ErrCollectionNotFound, "collection")
	assertAppError(t, err, 404)

	plain := assert.AnError
	assert.Same(t, plain, handleCatalogError(plain, "item"))
}
