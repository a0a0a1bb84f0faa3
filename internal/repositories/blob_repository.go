package repositories

import (
	"onversed_backend/internal/models"

	"gorm.io/gorm"
)

type BlobRepository interface {
	Create(db *gorm.DB, blob *models.Blob) error

	// AttachToItem / AttachToCollection проставляют владельца уже сохраненным блобам
	AttachToItem(db *gorm.DB, itemID string, blobIDs []string) error
	AttachToCollection(db *gorm.DB, collectionID string, blobIDs []string) error

	// DeleteCollectionBlobsExcept удаляет блобы коллекции, кроме keepIDs, и возвращает удаленные
	DeleteCollectionBlobsExcept(db *gorm.DB, collectionID string, keepIDs []string) ([]models.Blob, error)
}

type blobRepository struct{}

func NewBlobRepository() BlobRepository {
	return &blobRepository{}
}

func (r *blobRepository) Create(db *gorm.DB, blob *models.Blob) error {
	return db.Create(blob).Error
}

func (r *blobRepository) AttachToItem(db *gorm.DB, itemID string, blobIDs []string) error {
	if len(blobIDs) == 0 {
		return nil
	}
	return db.Model(&models.Blob{}).Where("id IN ?", blobIDs).Update("item_id", itemID).Error
}

func (r *blobRepository) AttachToCollection(db *gorm.DB, collectionID string, blobIDs []string) error {
	if len(blobIDs) == 0 {
		return nil
	}
	return db.Model(&models.Blob{}).Where("id IN ?", blobIDs).Update("collection_id", collectionID).Error
}

func (r *blobRepository) DeleteCollectionBlobsExcept(db *gorm.DB, collectionID string, keepIDs []string) ([]models.Blob, error) {
	var blobs []models.Blob
	q := db.Where("collection_id = ?", collectionID)
	if len(keepIDs) > 0 {
		q = q.Where("id NOT IN ?", keepIDs)
	}
	if err := q.Find(&blobs).Error; err != nil {
		return nil, err
	}
	if len(blobs) == 0 {
		return blobs, nil
	}

	ids := make([]string, 0, len(blobs))
	for _, b := range blobs {
		ids = append(ids, b.ID)
	}
	if err := db.Where("id IN ?", ids).Delete(&models.Blob{}).Error; err != nil {
		return nil, err
	}
	return blobs, nil
}
