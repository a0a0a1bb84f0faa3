package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"onversed_backend/internal/models"
	"onversed_backend/internal/services/dto"
	"onversed_backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func assertAppError(t *testing.T, err error, status int) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, status, appErr.HTTPCode)
	return appErr
}

// fakeAssetStore запоминает загрузки и удаления
type fakeAssetStore struct {
	mu        sync.Mutex
	uploaded  []string
	deleted   []string
	uploadErr error
}

func (s *fakeAssetStore) Upload(_ context.Context, container, name string, r io.Reader, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploaded = append(s.uploaded, container+"/"+name)
	return "ext-" + name, nil
}

func (s *fakeAssetStore) Delete(_ context.Context, container, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, container+"/"+name)
	return nil
}

func (s *fakeAssetStore) URL(container, name string) string {
	return "https://blobs.test/" + container + "/" + name
}

// fakeBlobRepository хранит блобы в памяти
type fakeBlobRepository struct {
	created   []*models.Blob
	createErr error
}

func (r *fakeBlobRepository) Create(_ *gorm.DB, blob *models.Blob) error {
	if r.createErr != nil {
		return r.createErr
	}
	blob.ID = "blob-" + blob.Name
	r.created = append(r.created, blob)
	return nil
}

func (r *fakeBlobRepository) AttachToItem(*gorm.DB, string, []string) error       { return nil }
func (r *fakeBlobRepository) AttachToCollection(*gorm.DB, string, []string) error { return nil }

func (r *fakeBlobRepository) DeleteCollectionBlobsExcept(*gorm.DB, string, []string) ([]models.Blob, error) {
	return nil, nil
}

var errFake = errors.New("fake failure")

func memFile(part, name, contentType, body string) dto.FileUpload {
	return dto.FileUpload{
		Type:        part,
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte(body))), nil
		},
	}
}
