package repositories

import (
	"errors"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCollectionNotFound      = errors.New("collection not found")
	ErrCollectionAlreadyExists = errors.New("collection with this name already exists")
)

type CollectionRepository interface {
	Create(db *gorm.DB, collection *models.Collection) error
	Save(db *gorm.DB, collection *models.Collection) error

	// ReplaceDesigners заменяет дизайнеров коллекции
	ReplaceDesigners(db *gorm.DB, collection *models.Collection, designers []models.Profile) error

	// FindByID ищет коллекцию только внутри компании
	FindByID(db *gorm.DB, companyID, id string) (*models.Collection, error)
	FindWithFilter(db *gorm.DB, companyID string, filter CatalogFilter) ([]models.Collection, error)
}

type collectionRepository struct{}

func NewCollectionRepository() CollectionRepository {
	return &collectionRepository{}
}

func (r *collectionRepository) Create(db *gorm.DB, collection *models.Collection) error {
	if err := db.Omit(clause.Associations).Create(collection).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrCollectionAlreadyExists
		}
		return err
	}
	return nil
}

func (r *collectionRepository) Save(db *gorm.DB, collection *models.Collection) error {
	if err := db.Omit(clause.Associations).Save(collection).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrCollectionAlreadyExists
		}
		return err
	}
	return nil
}

func (r *collectionRepository) ReplaceDesigners(db *gorm.DB, collection *models.Collection, designers []models.Profile) error {
	return db.Model(collection).Omit("Designers.*").Association("Designers").Replace(designers)
}

func (r *collectionRepository) FindByID(db *gorm.DB, companyID, id string) (*models.Collection, error) {
	var collection models.Collection
	err := db.
		Preload("Blobs").
		Preload("Items").
		Preload("Designers").
		Preload("Activities", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("activities.created_at DESC")
		}).
		Preload("Activities.Item").
		Preload("Activities.Profile.Company").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&collection).Error
	if err != nil {
		return nil, notFound(err, ErrCollectionNotFound)
	}
	return &collection, nil
}

func (r *collectionRepository) FindWithFilter(db *gorm.DB, companyID string, filter CatalogFilter) ([]models.Collection, error) {
	var collections []models.Collection
	q := db.Model(&models.Collection{}).Where("collections.company_id = ?", companyID)
	err := filter.apply(q, "collections").
		Preload("Blobs").
		Preload("Items.Blobs").
		Order("collections.created_at DESC").
		Find(&collections).Error
	return collections, err
}
