package repositories

import (
	"onversed_backend/internal/models"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(db *gorm.DB, activity *models.Activity) error
	FindByCollection(db *gorm.DB, collectionID string, limit, offset int) ([]models.Activity, error)
	FindByItem(db *gorm.DB, itemID string, limit, offset int) ([]models.Activity, error)
}

type activityRepository struct{}

func NewActivityRepository() ActivityRepository {
	return &activityRepository{}
}

func (r *activityRepository) Create(db *gorm.DB, activity *models.Activity) error {
	return db.Omit("Profile", "Item", "Collection").Create(activity).Error
}

func (r *activityRepository) FindByCollection(db *gorm.DB, collectionID string, limit, offset int) ([]models.Activity, error) {
	var activities []models.Activity
	err := db.
		Preload("Profile.Company").
		Where("collection_id = ?", collectionID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) FindByItem(db *gorm.DB, itemID string, limit, offset int) ([]models.Activity, error) {
	var activities []models.Activity
	err := db.
		Preload("Profile.Company").
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&activities).Error
	return activities, err
}
