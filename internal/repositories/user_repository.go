package repositories

import (
	"errors"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository - операции с пользователями
type UserRepository interface {
	// FindByID загружает пользователя с профилями, компанией и ролями
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByMobilePhone(db *gorm.DB, phone string) (*models.User, error)

	// ExistsByEmailOrPhone проверяет занятость email или телефона (пустой телефон игнорируется)
	ExistsByEmailOrPhone(db *gorm.DB, email, phone string) (bool, error)

	// ExistsByEmailExcept - email занят другим пользователем
	ExistsByEmailExcept(db *gorm.DB, email, userID string) (bool, error)
	ExistsByPhoneExcept(db *gorm.DB, phone, userID string) (bool, error)

	Create(db *gorm.DB, user *models.User) error
	UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error

	// SoftDelete помечает пользователя удаленным
	SoftDelete(db *gorm.DB, userID string) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func withProfiles(db *gorm.DB) *gorm.DB {
	return db.Preload("Profiles", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("profiles.created_at ASC")
	}).Preload("Profiles.Company").Preload("Profiles.Roles")
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := withProfiles(db).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := withProfiles(db).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) FindByMobilePhone(db *gorm.DB, phone string) (*models.User, error) {
	var user models.User
	if err := withProfiles(db).First(&user, "mobile_phone = ?", phone).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmailOrPhone(db *gorm.DB, email, phone string) (bool, error) {
	var count int64
	// удаленные тоже учитываются: уникальные индексы на них распространяются
	q := db.Unscoped().Model(&models.User{})
	if phone != "" {
		q = q.Where("email = ? OR mobile_phone = ?", email, phone)
	} else {
		q = q.Where("email = ?", email)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) ExistsByEmailExcept(db *gorm.DB, email, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByPhoneExcept(db *gorm.DB, phone, userID string) (bool, error) {
	var count int64
	err := db.Model(&models.User{}).
		Where("mobile_phone = ? AND id <> ?", phone, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	if err := db.Create(user).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		if IsUniqueViolation(result.Error) {
			return ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SoftDelete(db *gorm.DB, userID string) error {
	result := db.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
