package repositories

import (
	"errors"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCodeNotFound = errors.New("verification code not found")
)

type CodeVerificationRepository interface {
	// DeleteByCodeAndChannel снимает коллизию кода в канале
	DeleteByCodeAndChannel(db *gorm.DB, code string, channel models.Channel) error

	// Upsert - один живой код на (user_id, канал)
	Upsert(db *gorm.DB, cv *models.CodeVerification) error

	FindByCodeAndChannel(db *gorm.DB, code string, channel models.Channel) (*models.CodeVerification, error)
	FindByCode(db *gorm.DB, code string) (*models.CodeVerification, error)
	Delete(db *gorm.DB, id string) error
	CountByUserID(db *gorm.DB, userID string) (int64, error)
}

type codeVerificationRepository struct{}

func NewCodeVerificationRepository() CodeVerificationRepository {
	return &codeVerificationRepository{}
}

func channelFlags(channel models.Channel) (isSMS, isEmail bool) {
	return channel == models.ChannelSMS, channel == models.ChannelEmail
}

func (r *codeVerificationRepository) DeleteByCodeAndChannel(db *gorm.DB, code string, channel models.Channel) error {
	isSMS, isEmail := channelFlags(channel)
	return db.
		Where("code = ? AND is_sms = ? AND is_email = ?", code, isSMS, isEmail).
		Delete(&models.CodeVerification{}).Error
}

func (r *codeVerificationRepository) Upsert(db *gorm.DB, cv *models.CodeVerification) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "is_sms"}, {Name: "is_email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "updated_at"}),
	}).Create(cv).Error
}

func (r *codeVerificationRepository) FindByCodeAndChannel(db *gorm.DB, code string, channel models.Channel) (*models.CodeVerification, error) {
	isSMS, isEmail := channelFlags(channel)
	var cv models.CodeVerification
	err := db.
		Where("code = ? AND is_sms = ? AND is_email = ?", code, isSMS, isEmail).
		First(&cv).Error
	if err != nil {
		return nil, notFound(err, ErrCodeNotFound)
	}
	return &cv, nil
}

func (r *codeVerificationRepository) FindByCode(db *gorm.DB, code string) (*models.CodeVerification, error) {
	var cv models.CodeVerification
	if err := db.Where("code = ?", code).First(&cv).Error; err != nil {
		return nil, notFound(err, ErrCodeNotFound)
	}
	return &cv, nil
}

func (r *codeVerificationRepository) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.CodeVerification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCodeNotFound
	}
	return nil
}

func (r *codeVerificationRepository) CountByUserID(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.CodeVerification{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
