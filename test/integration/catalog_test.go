package integration_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"onversed_backend/internal/models"
	"onversed_backend/internal/services/dto"
	"onversed_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemStoresFilesAndDraftActivity(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendMultipart(t, http.MethodPost, "/api/v1/items", c.Tokens.AccessToken,
		dto.CreateItemRequest{SKU: "SKU-1", Name: "Jacket"},
		map[string]string{"drawing": "drawing-bytes", "logos": "logo-bytes"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var item models.Item
	require.NoError(t, json.Unmarshal([]byte(body), &item))
	assert.Equal(t, models.ActivityStateDraft, item.State)
	assert.Len(t, item.Blobs, 2)

	assert.EqualValues(t, 2, helpers.Count(t, ts.DB, &models.Blob{}))
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Activity{}))
	for _, path := range ts.Storage.Saved() {
		assert.True(t, strings.HasSuffix(strings.SplitN(path, "/", 2)[0], "-items"), path)
	}
}

func TestFailedItemCreateRemovesUploadedFiles(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendMultipart(t, http.MethodPost, "/api/v1/items", c.Tokens.AccessToken,
		dto.CreateItemRequest{SKU: "SKU-1", Name: "Jacket"},
		map[string]string{"drawing": "first"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	// тот же SKU: файлы успевают загрузиться, вставка товара падает
	res, body = ts.SendMultipart(t, http.MethodPost, "/api/v1/items", c.Tokens.AccessToken,
		dto.CreateItemRequest{SKU: "SKU-1", Name: "Coat"},
		map[string]string{"drawing": "second", "other": "third"})
	require.Equal(t, http.StatusConflict, res.StatusCode, body)

	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Item{}))
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Blob{}))
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Activity{}))

	saved := ts.Storage.Saved()
	require.Len(t, saved, 3)
	assert.ElementsMatch(t, saved[1:], ts.Storage.Deleted())
}

func TestItemsAreScopedToCompany(t *testing.T) {
	ts := GetTestServer(t)
	owner := helpers.ActiveCustomer(t, ts)
	stranger := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendMultipart(t, http.MethodPost, "/api/v1/items", owner.Tokens.AccessToken,
		dto.CreateItemRequest{SKU: "SKU-1", Name: "Jacket"}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var item models.Item
	require.NoError(t, json.Unmarshal([]byte(body), &item))

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/items/"+item.ID, stranger.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/items", stranger.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var items []models.Item
	require.NoError(t, json.Unmarshal([]byte(body), &items))
	assert.Empty(t, items)
}

func TestActivityMovesItemState(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendMultipart(t, http.MethodPost, "/api/v1/items", c.Tokens.AccessToken,
		dto.CreateItemRequest{SKU: "SKU-1", Name: "Jacket"}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var item models.Item
	require.NoError(t, json.Unmarshal([]byte(body), &item))

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/activities", c.Tokens.AccessToken,
		dto.CreateActivityRequest{ItemID: item.ID, Type: string(models.ActivityStateReady)})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/items/"+item.ID, c.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &item))
	assert.Equal(t, models.ActivityStateReady, item.State)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/activities/items/"+item.ID, c.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var activities []models.Activity
	require.NoError(t, json.Unmarshal([]byte(body), &activities))
	assert.Len(t, activities, 2)
}

func TestCollectionCoverReplacement(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendMultipart(t, http.MethodPost, "/api/v1/collections", c.Tokens.AccessToken,
		dto.CreateCollectionRequest{Name: "Spring"},
		map[string]string{"image": "cover-1"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var collection models.Collection
	require.NoError(t, json.Unmarshal([]byte(body), &collection))
	require.Len(t, ts.Storage.Saved(), 1)
	firstCover := ts.Storage.Saved()[0]

	name := "Spring 2027"
	res, body = ts.SendMultipart(t, http.MethodPut, "/api/v1/collections/"+collection.ID, c.Tokens.AccessToken,
		dto.UpdateCollectionRequest{Name: &name},
		map[string]string{"image": "cover-2"})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	require.NoError(t, json.Unmarshal([]byte(body), &collection))
	assert.Equal(t, name, collection.Name)

	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Blob{}))
	assert.Equal(t, []string{firstCover}, ts.Storage.Deleted())
}

func TestDuplicateCollectionNameConflicts(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendMultipart(t, http.MethodPost, "/api/v1/collections", c.Tokens.AccessToken,
		dto.CreateCollectionRequest{Name: "Spring"}, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	res, body = ts.SendMultipart(t, http.MethodPost, "/api/v1/collections", c.Tokens.AccessToken,
		dto.CreateCollectionRequest{Name: "Spring"}, map[string]string{"image": "cover"})
	assert.Equal(t, http.StatusConflict, res.StatusCode, body)
	assert.EqualValues(t, 1, helpers.Count(t, ts.DB, &models.Collection{}))
	assert.Equal(t, ts.Storage.Saved(), ts.Storage.Deleted())
}

func TestTableValuesForFactory(t *testing.T) {
	ts := GetTestServer(t)
	c := helpers.ActiveCustomer(t, ts)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/table-values?is_factory=true", c.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	var use models.ItemUse
	require.NoError(t, json.Unmarshal([]byte(body), &use))
	assert.Equal(t, models.ItemUseFactory, use.Name)
}
