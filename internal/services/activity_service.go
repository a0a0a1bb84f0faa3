package services

import (
	"context"

	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
	"onversed_backend/internal/services/dto"
	"onversed_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const defaultActivityLimit = 10

type ActivityService interface {
	GetCollectionActivities(ctx context.Context, db *gorm.DB, caller *models.Profile, collectionID string, page dto.PageRequest) ([]models.Activity, error)
	GetItemActivities(ctx context.Context, db *gorm.DB, caller *models.Profile, itemID string, page dto.PageRequest) ([]models.Activity, error)

	// CreateActivity пишет запись журнала и переводит объект в новое состояние
	CreateActivity(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.CreateActivityRequest) (*models.Activity, error)
}

type activityService struct {
	activityRepo   repositories.ActivityRepository
	itemRepo       repositories.ItemRepository
	collectionRepo repositories.CollectionRepository
}

func NewActivityService(
	activityRepo repositories.ActivityRepository,
	itemRepo repositories.ItemRepository,
	collectionRepo repositories.CollectionRepository,
) ActivityService {
	return &activityService{
		activityRepo:   activityRepo,
		itemRepo:       itemRepo,
		collectionRepo: collectionRepo,
	}
}

func activityPage(page dto.PageRequest) (int, int) {
	limit, offset := page.Limit, page.Offset
	if limit <= 0 || limit > 100 {
		limit = defaultActivityLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *activityService) GetCollectionActivities(ctx context.Context, db *gorm.DB, caller *models.Profile, collectionID string, page dto.PageRequest) ([]models.Activity, error) {
	// проверка принадлежности компании
	if _, err := s.collectionRepo.FindByID(db, caller.CompanyID, collectionID); err != nil {
		return nil, handleCatalogError(err, "collection")
	}

	limit, offset := activityPage(page)
	activities, err := s.activityRepo.FindByCollection(db, collectionID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return activities, nil
}

func (s *activityService) GetItemActivities(ctx context.Context, db *gorm.DB, caller *models.Profile, itemID string, page dto.PageRequest) ([]models.Activity, error) {
	if _, err := s.itemRepo.FindByID(db, caller.CompanyID, itemID); err != nil {
		return nil, handleCatalogError(err, "item")
	}

	limit, offset := activityPage(page)
	activities, err := s.activityRepo.FindByItem(db, itemID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return activities, nil
}

func (s *activityService) CreateActivity(ctx context.Context, db *gorm.DB, caller *models.Profile, req *dto.CreateActivityRequest) (*models.Activity, error) {
	state := models.ActivityState(req.Type)
	if !state.IsValid() {
		return nil, apperrors.ErrNotValid.WithDetails(map[string]string{"type": string(apperrors.TagNotValid)})
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	activity := &models.Activity{
		Type:      state,
		ProfileID: caller.ID,
	}

	// ItemID имеет приоритет, если переданы оба
	if req.ItemID != "" {
		item, err := s.itemRepo.FindByID(tx, caller.CompanyID, req.ItemID)
		if err != nil {
			return nil, txError(ctx, handleCatalogError(err, "item"), "activity", apperrors.TagNotCreate)
		}
		item.State = state
		if err := s.itemRepo.Save(tx, item); err != nil {
			return nil, txError(ctx, err, "activity", apperrors.TagNotCreate)
		}
		activity.ItemID = &item.ID
	} else {
		collection, err := s.collectionRepo.FindByID(tx, caller.CompanyID, req.CollectionID)
		if err != nil {
			return nil, txError(ctx, handleCatalogError(err, "collection"), "activity", apperrors.TagNotCreate)
		}
		collection.State = state
		if err := s.collectionRepo.Save(tx, collection); err != nil {
			return nil, txError(ctx, err, "activity", apperrors.TagNotCreate)
		}
		activity.CollectionID = &collection.ID
	}

	if err := s.activityRepo.Create(tx, activity); err != nil {
		return nil, txError(ctx, err, "activity", apperrors.TagNotCreate)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, txError(ctx, err, "activity", apperrors.TagNotCreate)
	}

	logger.CtxInfo(ctx, "Activity created", "activity_id", activity.ID, "type", state)
	return activity, nil
}
