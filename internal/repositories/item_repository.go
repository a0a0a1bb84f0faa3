package repositories

import (
	"errors"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemAlreadyExists = errors.New("item with this sku already exists")
)

type ItemRepository interface {
	Create(db *gorm.DB, item *models.Item) error
	Save(db *gorm.DB, item *models.Item) error

	// FindByID ищет товар только внутри компании
	FindByID(db *gorm.DB, companyID, id string) (*models.Item, error)
	FindWithFilter(db *gorm.DB, companyID string, filter CatalogFilter) ([]models.Item, error)
}

type itemRepository struct{}

func NewItemRepository() ItemRepository {
	return &itemRepository{}
}

func (r *itemRepository) Create(db *gorm.DB, item *models.Item) error {
	// блобы и активности сохраняются отдельными репозиториями
	if err := db.Omit(clause.Associations).Create(item).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrItemAlreadyExists
		}
		return err
	}
	return nil
}

func (r *itemRepository) Save(db *gorm.DB, item *models.Item) error {
	if err := db.Omit(clause.Associations).Save(item).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrItemAlreadyExists
		}
		return err
	}
	return nil
}

func (r *itemRepository) FindByID(db *gorm.DB, companyID, id string) (*models.Item, error) {
	var item models.Item
	err := db.
		Preload("Blobs").
		Preload("Activities", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("activities.created_at DESC")
		}).
		Preload("Collection").
		Preload("Category").
		Preload("Type").
		Preload("CountryStandard").
		Preload("Size").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&item).Error
	if err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return &item, nil
}

func (r *itemRepository) FindWithFilter(db *gorm.DB, companyID string, filter CatalogFilter) ([]models.Item, error) {
	var items []models.Item
	q := db.Model(&models.Item{}).Where("items.company_id = ?", companyID)
	err := filter.apply(q, "items").
		Preload("Blobs").
		Preload("Collection").
		Order("items.created_at DESC").
		Find(&items).Error
	return items, err
}
