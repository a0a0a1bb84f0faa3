package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/internal/storage"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UploadConfig - ограничения на файлы каталога
type UploadConfig struct {
	MaxSize      int64
	AllowedTypes []string
}

// blobUploader загружает файлы во внешнее хранилище и сохраняет строки Blob.
// Каждая загрузка регистрирует удаление в списке компенсаций.
type blobUploader struct {
	store    storage.AssetStore
	blobRepo repositories.BlobRepository
	cfg      UploadConfig
}

func newBlobUploader(store storage.AssetStore, blobRepo repositories.BlobRepository, cfg UploadConfig) *blobUploader {
	return &blobUploader{store: store, blobRepo: blobRepo, cfg: cfg}
}

// pendingFile - открытый файл, готовый к загрузке
type pendingFile struct {
	dto.FileUpload
	blobType models.BlobType
	mime     string
	reader   io.ReadCloser
}

// open проверяет файлы и открывает их до начала транзакции.
// allowed - допустимые типы блобов.
func (u *blobUploader) open(files []dto.FileUpload, allowed []models.BlobType) ([]*pendingFile, func(), error) {
	pending := make([]*pendingFile, 0, len(files))
	closeAll := func() {
		for _, p := range pending {
			p.reader.Close()
		}
	}

	for _, f := range files {
		blobType, ok := models.ParseBlobType(f.Type)
		if !ok || !containsBlobType(allowed, blobType) {
			closeAll()
			return nil, nil, apperrors.ErrUnknownBlobType.WithDetails(map[string]string{"file": f.Type})
		}
		if u.cfg.MaxSize > 0 && f.Size > u.cfg.MaxSize {
			closeAll()
			return nil, nil, apperrors.ErrFileTooLarge
		}

		mimeType := normalizeMime(f.ContentType)
		if !u.isAllowedMime(mimeType) {
			closeAll()
			return nil, nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"mime": mimeType})
		}

		reader, err := f.Open()
		if err != nil {
			closeAll()
			return nil, nil, apperrors.NewBadRequestError(fmt.Sprintf("failed to open file %s", f.Filename))
		}

		pending = append(pending, &pendingFile{
			FileUpload: f,
			blobType:   blobType,
			mime:       mimeType,
			reader:     reader,
		})
	}
	return pending, closeAll, nil
}

// upload кладет файл в контейнер и создает Blob в транзакции tx
func (u *blobUploader) upload(ctx context.Context, tx *gorm.DB, comp *compensation, container string, f *pendingFile) (*models.Blob, error) {
	name := storage.ObjectName(f.Filename)

	// удаление регистрируется до загрузки: оно идемпотентно, а загрузка
	// могла частично дойти до хранилища
	comp.Add(func(ctx context.Context) error {
		return u.store.Delete(ctx, container, name)
	}, "container", container, "name", name)

	externalID, err := u.store.Upload(ctx, container, name, f.reader, f.mime)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s/%s: %w", container, name, err)
	}

	blob := &models.Blob{
		URL:       u.store.URL(container, name),
		Size:      f.Size,
		Mime:      f.mime,
		Name:      name,
		Container: container,
		RequestID: externalID,
		Type:      f.blobType,
	}
	if err := u.blobRepo.Create(tx, blob); err != nil {
		return nil, err
	}

	logger.CtxDebug(ctx, "Blob uploaded", "container", container, "name", name, "type", f.blobType)
	return blob, nil
}

// deleteAssets - удаление заменённых файлов после коммита, ошибки только логируются
func (u *blobUploader) deleteAssets(ctx context.Context, blobs []models.Blob) {
	for _, b := range blobs {
		if err := u.store.Delete(ctx, b.Container, b.Name); err != nil {
			logger.CtxWithError(ctx, "Failed to delete replaced asset", err, "container", b.Container, "name", b.Name)
		}
	}
}

func (u *blobUploader) isAllowedMime(mimeType string) bool {
	if len(u.cfg.AllowedTypes) == 0 {
		return true
	}
	for _, t := range u.cfg.AllowedTypes {
		if strings.EqualFold(t, mimeType) {
			return true
		}
	}
	return false
}

func normalizeMime(contentType string) string {
	if contentType == "" {
		return "application/octet-stream"
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

func containsBlobType(list []models.BlobType, t models.BlobType) bool {
	for _, v := range list {
		if v == t {
			return true
		}
	}
	return false
}

func blobIDs(blobs []*models.Blob) []string {
	ids := make([]string, 0, len(blobs))
	for _, b := range blobs {
		ids = append(ids, b.ID)
	}
	return ids
}
