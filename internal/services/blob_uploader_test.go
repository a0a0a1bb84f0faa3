package services

import (
	"context"
	"strings"
	"testing"

	"onversed_backend/internal/models"
	"onversed_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploader(store *fakeAssetStore, repo *fakeBlobRepository) *blobUploader {
	return newBlobUploader(store, repo, UploadConfig{
		MaxSize:      10,
		AllowedTypes: []string{"application/pdf", "image/png"},
	})
}

func TestOpenRejectsInvalidFiles(t *testing.T) {
	u := newTestUploader(&fakeAssetStore{}, &fakeBlobRepository{})

	tests := []struct {
		name   string
		file   dto.FileUpload
		status int
	}{
		{"unknown part", memFile("poster", "a.pdf", "application/pdf", "x"), 400},
		{"cover on item", memFile("cover", "a.pdf", "application/pdf", "x"), 400},
		{"too large", memFile("drawing", "a.pdf", "application/pdf", "01234567890"), 413},
		{"mime", memFile("drawing", "a.gif", "image/gif", "x"), 415},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := u.open([]dto.FileUpload{tt.file}, models.ItemBlobTypes())
			assertAppError(t, err, tt.status)
		})
	}
}

func TestOpenAcceptsMimeWithParameters(t *testing.T) {
	u := newTestUploader(&fakeAssetStore{}, &fakeBlobRepository{})

	pending, closeAll, err := u.open([]dto.FileUpload{
		memFile("Drawing", "a.png", "image/png; charset=binary", "x"),
	}, models.ItemBlobTypes())
	require.NoError(t, err)
	defer closeAll()

	require.Len(t, pending, 1)
	assert.Equal(t, models.BlobTypeDrawing, pending[0].blobType)
	assert.Equal(t, "image/png", pending[0].mime)
}

func TestUploadRegistersDeleteBeforeUpload(t *testing.T) {
	compensationBackoff = 0
	store := &fakeAssetStore{}
	repo := &fakeBlobRepository{}
	u := newTestUploader(store, repo)

	pending, closeAll, err := u.open([]dto.FileUpload{
		memFile("drawing", "plan.pdf", "application/pdf", "x"),
		memFile("logos", "logo.png", "image/png", "y"),
	}, models.ItemBlobTypes())
	require.NoError(t, err)
	defer closeAll()

	var comp compensation
	blob, err := u.upload(context.Background(), nil, &comp, "c1-items", pending[0])
	require.NoError(t, err)
	assert.Equal(t, "c1-items", blob.Container)
	assert.Equal(t, "https://blobs.test/c1-items/"+blob.Name, blob.URL)
	assert.Equal(t, "ext-"+blob.Name, blob.RequestID)
	assert.True(t, strings.HasSuffix(blob.Name, "plan.pdf"))

	// ошибка хранилища: удаление все равно зарегистрировано
	store.uploadErr = errFake
	_, err = u.upload(context.Background(), nil, &comp, "c1-items", pending[1])
	require.ErrorIs(t, err, errFake)

	assert.Equal(t, 2, comp.Len())
	comp.Run(context.Background())
	require.Len(t, store.deleted, 2)
	assert.Equal(t, "c1-items/"+blob.Name, store.deleted[1])
}

func TestUploadBlobRowFailureKeepsCompensation(t *testing.T) {
	compensationBackoff = 0
	store := &fakeAssetStore{}
	u := newTestUploader(store, &fakeBlobRepository{createErr: errFake})

	pending, closeAll, err := u.open([]dto.FileUpload{
		memFile("other", "a.pdf", "application/pdf", "x"),
	}, models.ItemBlobTypes())
	require.NoError(t, err)
	defer closeAll()

	var comp compensation
	_, err = u.upload(context.Background(), nil, &comp, "c1-items", pending[0])
	require.ErrorIs(t, err, errFake)

	comp.Run(context.Background())
	assert.Equal(t, store.uploaded, store.deleted)
}

func TestNormalizeMime(t *testing.T) {
	assert.Equal(t, "application/octet-stream", normalizeMime(""))
	assert.Equal(t, "application/octet-stream", normalizeMime(";;"))
	assert.Equal(t, "application/pdf", normalizeMime("application/pdf"))
}
