package services

import (
	"context"
	"errors"

	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/internal/storage"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ItemService interface {
	// CreateItem создает товар с файлами. При ошибке после начала загрузок
	// все загруженные файлы удаляются из хранилища.
	CreateItem(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.CreateItemRequest, files []dto.FileUpload) (*models.Item, error)

	// UpdateItem обновляет заданные поля и добавляет новые файлы
	UpdateItem(ctx context.Context, db *gorm.DB, caller *models.Profile, itemID string, req *dto.UpdateItemRequest, files []dto.FileUpload) (*models.Item, error)

	GetItem(ctx context.Context, db *gorm.DB, caller *models.Profile, itemID string) (*models.Item, error)
	GetItems(ctx context.Context, db *gorm.DB, caller *models.Profile, filter repositories.CatalogFilter) ([]models.Item, error)
}

type itemService struct {
	itemRepo       repositories.ItemRepository
	collectionRepo repositories.CollectionRepository
	lookupRepo     repositories.LookupRepository
	activityRepo   repositories.ActivityRepository
	blobRepo       repositories.BlobRepository
	uploader       *blobUploader
}

func NewItemService(
	itemRepo repositories.ItemRepository,
	collectionRepo repositories.CollectionRepository,
	lookupRepo repositories.LookupRepository,
	activityRepo repositories.ActivityRepository,
	blobRepo repositories.BlobRepository,
	store storage.AssetStore,
	uploadCfg UploadConfig,
) ItemService {
	return &itemService{
		itemRepo:       itemRepo,
		collectionRepo: collectionRepo,
		lookupRepo:     lookupRepo,
		activityRepo:   activityRepo,
		blobRepo:       blobRepo,
		uploader:       newBlobUploader(store, blobRepo, uploadCfg),
	}
}

// itemRefs - ссылки товара на справочники и коллекцию
type itemRefs struct {
	CollectionID      *string
	CategoryID        *string
	TypeID            *string
	SizeID            *string
	CountryStandardID *string
}

// resolveRefs проверяет, что заданные ссылки существуют (коллекция - в своей компании)
func (s *itemService) resolveRefs(db *gorm.DB, companyID string, refs itemRefs) error {
	if refs.CollectionID != nil && *refs.CollectionID != "" {
		if _, err := s.collectionRepo.FindByID(db, companyID, *refs.CollectionID); err != nil {
			return handleCatalogError(err, "collection")
		}
	}

	lookups := []struct {
		id     *string
		domain string
		find   func(db *gorm.DB, id string) error
	}{
		{refs.CategoryID, "item_category", func(db *gorm.DB, id string) error { _, err := s.lookupRepo.FindCategoryByID(db, id); return err }},
		{refs.TypeID, "item_type", func(db *gorm.DB, id string) error { _, err := s.lookupRepo.FindTypeByID(db, id); return err }},
		{refs.SizeID, "item_size", func(db *gorm.DB, id string) error { _, err := s.lookupRepo.FindSizeByID(db, id); return err }},
		{refs.CountryStandardID, "item_country_standard", func(db *gorm.DB, id string) error { _, err := s.lookupRepo.FindCountryStandardByID(db, id); return err }},
	}
	for _, l := range lookups {
		if l.id == nil || *l.id == "" {
			continue
		}
		if err := l.find(db, *l.id); err != nil {
			return handleCatalogError(err, l.domain)
		}
	}
	return nil
}

func (s *itemService) CreateItem(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.CreateItemRequest, files []dto.FileUpload) (*models.Item, error) {
	refs := itemRefs{
		CollectionID:      optionalString(req.CollectionID),
		CategoryID:        optionalString(req.CategoryID),
		TypeID:            optionalString(req.TypeID),
		SizeID:            optionalString(req.SizeID),
		CountryStandardID: optionalString(req.CountryStandardID),
	}

	// 1. Ссылки
	if err := s.resolveRefs(db, caller.CompanyID, refs); err != nil {
		return nil, err
	}

	// 2. Файлы открываются до транзакции
	pending, closeFiles, err := s.uploader.open(files, models.ItemBlobTypes())
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
	fail := func(err error) (*models.Item, error) {
		tx.Rollback()
		comp.Run(ctx)
		return nil, txError(ctx, err, "item", apperrors.TagNotCreate)
	}

	// 4. Загрузка файлов
	container := storage.ItemsContainer(caller.CompanyID)
	blobs := make([]*models.Blob, 0, len(pending))
	for _, f := range pending {
		blob, err := s.uploader.upload(ctx, tx, &comp, container, f)
		if err != nil {
			return fail(err)
		}
		blobs = append(blobs, blob)
	}

	// 5. Товар и активность
	state := models.ActivityStateDraft
	if req.ToSent {
		state = models.ActivityStateSent
	}
	item := &models.Item{
		Name:              req.Name,
		NftURL:            req.NftURL,
		SKU:               req.SKU,
		Description:       req.Description,
		State:             state,
		PlatformFlags:     req.PlatformFlags,
		CollectionID:      refs.CollectionID,
		CompanyID:         caller.CompanyID,
		CategoryID:        refs.CategoryID,
		TypeID:            refs.TypeID,
		CountryStandardID: refs.CountryStandardID,
		SizeID:            refs.SizeID,
	}
	if err := s.itemRepo.Create(tx, item); err != nil {
		return fail(handleCatalogError(err, "item"))
	}
	if err := s.blobRepo.AttachToItem(tx, item.ID, blobIDs(blobs)); err != nil {
		return fail(err)
	}
	if err := s.createActivity(tx, caller, &item.ID, nil); err != nil {
		return fail(err)
	}

	// 6. Коммит
	if err := tx.Commit().Error; err != nil {
		return fail(err)
	}

	logger.CtxInfo(ctx, "Item created", "item_id", item.ID, "blobs", len(blobs))
	return s.GetItem(ctx, db, caller, item.ID)
}

func (s *itemService) UpdateItem(ctx context.Context, db *gorm.DB, caller *models.Profile, itemID string, req *dto.UpdateItemRequest, files []dto.FileUpload) (*models.Item, error) {
	item, err := s.itemRepo.FindByID(db, caller.CompanyID, itemID)
	if err != nil {
		return nil, handleCatalogError(err, "item")
	}

	refs := itemRefs{
		CollectionID:      req.CollectionID,
		CategoryID:        req.CategoryID,
		TypeID:            req.TypeID,
		SizeID:            req.SizeID,
		CountryStandardID: req.CountryStandardID,
	}
	if err := s.resolveRefs(db, caller.CompanyID, refs); err != nil {
		return nil, err
	}

	pending, closeFiles, err := s.uploader.open(files, models.ItemBlobTypes())
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
	fail := func(err error) (*models.Item, error) {
		tx.Rollback()
		comp.Run(ctx)
		return nil, txError(ctx, err, "item", apperrors.TagNotUpdate)
	}

	container := storage.ItemsContainer(caller.CompanyID)
	blobs := make([]*models.Blob, 0, len(pending))
	for _, f := range pending {
		blob, err := s.uploader.upload(ctx, tx, &comp, container, f)
		if err != nil {
			return fail(err)
		}
		blobs = append(blobs, blob)
	}

	mergeItem(item, req)
	if err := s.itemRepo.Save(tx, item); err != nil {
		return fail(handleCatalogError(err, "item"))
	}
	// новые файлы добавляются к существующим
	if err := s.blobRepo.AttachToItem(tx, item.ID, blobIDs(blobs)); err != nil {
		return fail(err)
	}
	if err := s.createActivity(tx, caller, &item.ID, nil); err != nil {
		return fail(err)
	}

	if err := tx.Commit().Error; err != nil {
		return fail(err)
	}

	logger.CtxInfo(ctx, "Item updated", "item_id", item.ID, "new_blobs", len(blobs))
	return s.GetItem(ctx, db, caller, item.ID)
}

func mergeItem(item *models.Item, req *dto.UpdateItemRequest) {
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.NftURL != nil {
		item.NftURL = *req.NftURL
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.CollectionID != nil {
		item.CollectionID = optionalString(*req.CollectionID)
	}
	if req.CategoryID != nil {
		item.CategoryID = optionalString(*req.CategoryID)
	}
	if req.TypeID != nil {
		item.TypeID = optionalString(*req.TypeID)
	}
	if req.SizeID != nil {
		item.SizeID = optionalString(*req.SizeID)
	}
	if req.CountryStandardID != nil {
		item.CountryStandardID = optionalString(*req.CountryStandardID)
	}
	if req.ToSent != nil && *req.ToSent {
		item.State = models.ActivityStateSent
	}
	req.PlatformFlagsPatch.ApplyTo(&item.PlatformFlags)
}

func (s *itemService) createActivity(tx *gorm.DB, caller *models.Profile, itemID, collectionID *string) error {
	return s.activityRepo.Create(tx, &models.Activity{
		Type:         models.ActivityStateDraft,
		ItemID:       itemID,
		CollectionID: collectionID,
		ProfileID:    caller.ID,
	})
}

func (s *itemService) GetItem(ctx context.Context, db *gorm.DB, caller *models.Profile, itemID string) (*models.Item, error) {
	item, err := s.itemRepo.FindByID(db, caller.CompanyID, itemID)
	if err != nil {
		return nil, handleCatalogError(err, "item")
	}
	return item, nil
}

func (s *itemService) GetItems(ctx context.Context, db *gorm.DB, caller *models.Profile, filter repositories.CatalogFilter) ([]models.Item, error) {
	items, err := s.itemRepo.FindWithFilter(db, caller.CompanyID, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return items, nil
}

// handleCatalogError переводит ошибки репозиториев каталога
func handleCatalogError(err error, domain string) error {
	switch {
	case errors.Is(err, repositories.ErrItemNotFound),
		errors.Is(err, repositories.ErrCollectionNotFound),
		errors.Is(err, repositories.ErrLookupNotFound),
		errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrNotFound(err, domain)
	case errors.Is(err, repositories.ErrItemAlreadyExists),
		errors.Is(err, repositories.ErrCollectionAlreadyExists):
		return apperrors.ErrAlreadyExists(err, domain)
	default:
		return err
	}
}
