package services

import (
	"context"
	"strings"

	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/internal/storage"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CollectionService interface {
	// CreateCollection создает коллекцию с обложкой и дизайнерами
	CreateCollection(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.CreateCollectionRequest, cover *dto.FileUpload) (*models.Collection, error)

	// UpdateCollection: новая обложка заменяет набор файлов, без нее файлы сохраняются
	UpdateCollection(ctx context.Context, db *gorm.DB, caller *models.Profile, collectionID string, req *dto.UpdateCollectionRequest, cover *dto.FileUpload) (*models.Collection, error)

	GetCollection(ctx context.Context, db *gorm.DB, caller *models.Profile, collectionID string) (*models.Collection, error)
	GetCollections(ctx context.Context, db *gorm.DB, caller *models.Profile, filter repositories.CatalogFilter) ([]models.Collection, error)

	// GetDesigners ищет профили своей компании по "Имя Фамилия", кроме вызывающего
	GetDesigners(ctx context.Context, db *gorm.DB, caller *models.Profile, name string) ([]models.Profile, error)
}

type collectionService struct {
	collectionRepo repositories.CollectionRepository
	profileRepo    repositories.ProfileRepository
	activityRepo   repositories.ActivityRepository
	blobRepo       repositories.BlobRepository
	uploader       *blobUploader
}

func NewCollectionService(
	collectionRepo repositories.CollectionRepository,
	profileRepo repositories.ProfileRepository,
	activityRepo repositories.ActivityRepository,
	blobRepo repositories.BlobRepository,
	store storage.AssetStore,
	uploadCfg UploadConfig,
) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		profileRepo:    profileRepo,
		activityRepo:   activityRepo,
		blobRepo:       blobRepo,
		uploader:       newBlobUploader(store, blobRepo, uploadCfg),
	}
}

var coverOnly = []models.BlobType{models.BlobTypeCover}

func (s *collectionService) resolveDesigners(db *gorm.DB, companyID string, ids []string) ([]models.Profile, error) {
	unique := uniqueStrings(ids)
	designers, err := s.profileRepo.FindByIDsInCompany(db, companyID, unique)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(designers) != len(unique) {
		return nil, apperrors.ErrNotFound(repositories.ErrProfileNotFound, "designer")
	}
	return designers, nil
}

func (s *collectionService) openCover(cover *dto.FileUpload) ([]*pendingFile, func(), error) {
	if cover == nil {
		return nil, func() {}, nil
	}
	f := *cover
	f.Type = string(models.BlobTypeCover)
	return s.uploader.open([]dto.FileUpload{f}, coverOnly)
}

func (s *collectionService) CreateCollection(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.CreateCollectionRequest, cover *dto.FileUpload) (*models.Collection, error) {
	// 1. Дизайнеры из своей компании
	designers, err := s.resolveDesigners(db, caller.CompanyID, req.Designers)
	if err != nil {
		return nil, err
	}

	// 2. Обложка
	pending, closeFiles, err := s.openCover(cover)
	if err != nil {
		return nil, err
	}
	defer closeFiles()

	// 3. Транзакция
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	var comp compensation
	fail := func(err error) (*models.Collection, error) {
		tx.Rollback()
		comp.Run(ctx)
		return nil, txError(ctx, err, "collection", apperrors.TagNotCreate)
	}

	// 4. Загрузка
	container := storage.CollectionsContainer(caller.CompanyID)
	blobs := make([]*models.Blob, 0, len(pending))
	for _, f := range pending {
		blob, err := s.uploader.upload(ctx, tx, &comp, container, f)
		if err != nil {
			return fail(err)
		}
		blobs = append(blobs, blob)
	}

	// 5. Коллекция, дизайнеры, активность
	collection := &models.Collection{
		Name:             req.Name,
		NftURL:           req.NftURL,
		IsAgreed:         req.IsAgreed,
		Description:      req.Description,
		OtherDescription: req.OtherDescription,
		State:            models.ActivityStateDraft,
		PlatformFlags:    req.PlatformFlags,
		IsInherited:      req.IsInherited,
		CompanyID:        caller.CompanyID,
	}
	if err := s.collectionRepo.Create(tx, collection); err != nil {
		return fail(handleCatalogError(err, "collection"))
	}
	if err := s.blobRepo.AttachToCollection(tx, collection.ID, blobIDs(blobs)); err != nil {
		return fail(err)
	}
	if len(designers) > 0 {
		if err := s.collectionRepo.ReplaceDesigners(tx, collection, designers); err != nil {
			return fail(err)
		}
	}
	if err := s.createActivity(tx, caller, collection.ID); err != nil {
		return fail(err)
	}

	// 6. Коммит
	if err := tx.Commit().Error; err != nil {
		return fail(err)
	}

	logger.CtxInfo(ctx, "Collection created", "collection_id", collection.ID, "designers", len(designers))
	return s.GetCollection(ctx, db, caller, collection.ID)
}

func (s *collectionService) UpdateCollection(ctx context.Context, db *gorm.DB, caller *models.Profile, collectionID string, req *dto.UpdateCollectionRequest, cover *dto.FileUpload) (*models.Collection, error) {
	collection, err := s.collectionRepo.FindByID(db, caller.CompanyID, collectionID)
	if err != nil {
		return nil, handleCatalogError(err, "collection")
	}

	var designers []models.Profile
	if req.Designers != nil {
		if designers, err = s.resolveDesigners(db, caller.CompanyID, *req.Designers); err != nil {
			return nil, err
		}
	}

	pending, closeFiles, err := s.openCover(cover)
	if err != nil {
		return nil, err
	}
	defer closeFiles()

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	var comp compensation
	fail := func(err error) (*models.Collection, error) {
		tx.Rollback()
		comp.Run(ctx)
		return nil, txError(ctx, err, "collection", apperrors.TagNotUpdate)
	}

	container := storage.CollectionsContainer(caller.CompanyID)
	blobs := make([]*models.Blob, 0, len(pending))
	for _, f := range pending {
		blob, err := s.uploader.upload(ctx, tx, &comp, container, f)
		if err != nil {
			return fail(err)
		}
		blobs = append(blobs, blob)
	}

	mergeCollection(collection, req)
	if err := s.collectionRepo.Save(tx, collection); err != nil {
		return fail(handleCatalogError(err, "collection"))
	}

	// новая обложка заменяет прежние файлы
	var replaced []models.Blob
	if len(blobs) > 0 {
		if err := s.blobRepo.AttachToCollection(tx, collection.ID, blobIDs(blobs)); err != nil {
			return fail(err)
		}
		if replaced, err = s.blobRepo.DeleteCollectionBlobsExcept(tx, collection.ID, blobIDs(blobs)); err != nil {
			return fail(err)
		}
	}
	if req.Designers != nil {
		if err := s.collectionRepo.ReplaceDesigners(tx, collection, designers); err != nil {
			return fail(err)
		}
	}
	if err := s.createActivity(tx, caller, collection.ID); err != nil {
		return fail(err)
	}

	if err := tx.Commit().Error; err != nil {
		return fail(err)
	}

	// старые файлы удаляются только после коммита
	s.uploader.deleteAssets(ctx, replaced)

	logger.CtxInfo(ctx, "Collection updated", "collection_id", collection.ID, "replaced_blobs", len(replaced))
	return s.GetCollection(ctx, db, caller, collection.ID)
}

func mergeCollection(c *models.Collection, req *dto.UpdateCollectionRequest) {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.OtherDescription != nil {
		c.OtherDescription = *req.OtherDescription
	}
	if req.IsAgreed != nil {
		c.IsAgreed = *req.IsAgreed
	}
	if req.IsInherited != nil {
		c.IsInherited = *req.IsInherited
	}
	if req.NftURL != nil {
		c.NftURL = *req.NftURL
	}
	req.PlatformFlagsPatch.ApplyTo(&c.PlatformFlags)
}

func (s *collectionService) createActivity(tx *gorm.DB, caller *models.Profile, collectionID string) error {
	return s.activityRepo.Create(tx, &models.Activity{
		Type:         models.ActivityStateDraft,
		CollectionID: &collectionID,
		ProfileID:    caller.ID,
	})
}

func (s *collectionService) GetCollection(ctx context.Context, db *gorm.DB, caller *models.Profile, collectionID string) (*models.Collection, error) {
	collection, err := s.collectionRepo.FindByID(db, caller.CompanyID, collectionID)
	if err != nil {
		return nil, handleCatalogError(err, "collection")
	}
	return collection, nil
}

func (s *collectionService) GetCollections(ctx context.Context, db *gorm.DB, caller *models.Profile, filter repositories.CatalogFilter) ([]models.Collection, error) {
	collections, err := s.collectionRepo.FindWithFilter(db, caller.CompanyID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return collections, nil
}

func (s *collectionService) GetDesigners(ctx context.Context, db *gorm.DB, caller *models.Profile, name string) ([]models.Profile, error) {
	first, last := splitFullName(name)
	profiles, err := s.profileRepo.SearchDesigners(db, caller.CompanyID, caller.ID, first, last)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return profiles, nil
}

// splitFullName: "Имя Фамилия" -> (Имя, Фамилия); фамилия может содержать пробелы
func splitFullName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
