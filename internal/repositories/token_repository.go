package repositories

import (
	"errors"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrTokenNotFound возвращается, когда токен не найден в БД
	ErrTokenNotFound = errors.New("token not found")
)

// TokenRepository - единственная строка токенов на пользователя
type TokenRepository interface {
	// Upsert вставляет строку или обновляет существующую по user_id
	Upsert(db *gorm.DB, token *models.Token) error

	// FindByToken ищет строку по access-токену; user -> profiles -> company, roles подгружаются
	FindByToken(db *gorm.DB, accessToken string) (*models.Token, error)

	// FindByRefreshHash ищет строку по sha256 refresh-токена
	FindByRefreshHash(db *gorm.DB, hash string) (*models.Token, error)

	DeleteByUserID(db *gorm.DB, userID string) error
	CountByUserID(db *gorm.DB, userID string) (int64, error)
}

type tokenRepository struct{}

func NewTokenRepository() TokenRepository {
	return &tokenRepository{}
}

var tokenUpsertColumns = []string{
	"token",
	"token_type",
	"expires_in",
	"refresh_token_hash",
	"refresh_expires_at",
	"updated_at",
}

func (r *tokenRepository) Upsert(db *gorm.DB, token *models.Token) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(tokenUpsertColumns),
	}).Create(token).Error
}

func (r *tokenRepository) FindByToken(db *gorm.DB, accessToken string) (*models.Token, error) {
	var token models.Token
	err := db.
		Preload("User.Profiles", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("profiles.created_at ASC")
		}).
		Preload("User.Profiles.Company").
		Preload("User.Profiles.Roles").
		Preload("User").
		Where("token = ?", accessToken).
		First(&token).Error
	if err != nil {
		return nil, notFound(err, ErrTokenNotFound)
	}
	return &token, nil
}

func (r *tokenRepository) FindByRefreshHash(db *gorm.DB, hash string) (*models.Token, error) {
	var token models.Token
	if err := db.Where("refresh_token_hash = ?", hash).First(&token).Error; err != nil {
		return nil, notFound(err, ErrTokenNotFound)
	}
	return &token, nil
}

func (r *tokenRepository) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.Token{}).Error
}

func (r *tokenRepository) CountByUserID(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Token{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
