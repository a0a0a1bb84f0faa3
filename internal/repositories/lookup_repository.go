package repositories

import (
	"errors"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrLookupNotFound = errors.New("lookup value not found")
)

// LookupRepository - справочники товаров (_item_*)
type LookupRepository interface {
	// FindUseByName загружает вид использования со всеми справочными значениями
	FindUseByName(db *gorm.DB, name string) (*models.ItemUse, error)

	FindTypeByID(db *gorm.DB, id string) (*models.ItemType, error)
	FindSizeByID(db *gorm.DB, id string) (*models.ItemSize, error)
	FindCategoryByID(db *gorm.DB, id string) (*models.ItemCategory, error)
	FindCountryStandardByID(db *gorm.DB, id string) (*models.ItemCountryStandard, error)
}

type lookupRepository struct{}

func NewLookupRepository() LookupRepository {
	return &lookupRepository{}
}

func (r *lookupRepository) FindUseByName(db *gorm.DB, name string) (*models.ItemUse, error) {
	var use models.ItemUse
	err := db.
		Preload("Types").
		Preload("Files").
		Preload("Countries").
		Preload("Categories.Sizes").
		Where("name = ?", name).
		First(&use).Error
	if err != nil {
		return nil, notFound(err, ErrLookupNotFound)
	}
	return &use, nil
}

func findLookup[T any](db *gorm.DB, id string) (*T, error) {
	var v T
	if err := db.First(&v, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrLookupNotFound)
	}
	return &v, nil
}

func (r *lookupRepository) FindTypeByID(db *gorm.DB, id string) (*models.ItemType, error) {
	return findLookup[models.ItemType](db, id)
}

func (r *lookupRepository) FindSizeByID(db *gorm.DB, id string) (*models.ItemSize, error) {
	return findLookup[models.ItemSize](db, id)
}

func (r *lookupRepository) FindCategoryByID(db *gorm.DB, id string) (*models.ItemCategory, error) {
	return findLookup[models.ItemCategory](db, id)
}

func (r *lookupRepository) FindCountryStandardByID(db *gorm.DB, id string) (*models.ItemCountryStandard, error) {
	return findLookup[models.ItemCountryStandard](db, id)
}
