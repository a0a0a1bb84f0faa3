package repositories

import (
	"errors"
	"strings"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists for this user and company")
)

type ProfileRepository interface {
	Create(db *gorm.DB, profile *models.Profile) error
	UpdateFields(db *gorm.DB, profileID string, fields map[string]interface{}) error

	// ReplaceRoles заменяет набор ролей профиля
	ReplaceRoles(db *gorm.DB, profile *models.Profile, roles []models.Role) error

	// FindByIDsInCompany возвращает профили компании с заданными id
	FindByIDsInCompany(db *gorm.DB, companyID string, ids []string) ([]models.Profile, error)

	// FindTeam - не-клиентские профили компании, пользователь которых не удален
	FindTeam(db *gorm.DB, companyID string) ([]models.Profile, error)

	// FindByEmailInCompany - профиль компании по email пользователя
	FindByEmailInCompany(db *gorm.DB, companyID, email string) (*models.Profile, error)

	// SearchDesigners ищет профили компании по имени и фамилии, исключая excludeID
	SearchDesigners(db *gorm.DB, companyID, excludeID, firstName, lastName string) ([]models.Profile, error)
}

type profileRepository struct{}

func NewProfileRepository() ProfileRepository {
	return &profileRepository{}
}

func (r *profileRepository) Create(db *gorm.DB, profile *models.Profile) error {
	if err := db.Create(profile).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrProfileAlreadyExists
		}
		return err
	}
	return nil
}

func (r *profileRepository) UpdateFields(db *gorm.DB, profileID string, fields map[string]interface{}) error {
	result := db.Model(&models.Profile{}).Where("id = ?", profileID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) ReplaceRoles(db *gorm.DB, profile *models.Profile, roles []models.Role) error {
	return db.Model(profile).Association("Roles").Replace(roles)
}

func (r *profileRepository) FindByIDsInCompany(db *gorm.DB, companyID string, ids []string) ([]models.Profile, error) {
	var profiles []models.Profile
	if len(ids) == 0 {
		return profiles, nil
	}
	err := db.Where("company_id = ? AND id IN ?", companyID, ids).Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) FindTeam(db *gorm.DB, companyID string) ([]models.Profile, error) {
	var profiles []models.Profile
	err := db.
		Joins("JOIN users ON users.id = profiles.user_id AND users.deleted_at IS NULL").
		Where("profiles.company_id = ? AND profiles.is_customer = ?", companyID, false).
		Preload("User").Preload("Company").Preload("Roles").
		Order("profiles.created_at ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) FindByEmailInCompany(db *gorm.DB, companyID, email string) (*models.Profile, error) {
	var profile models.Profile
	err := db.
		Joins("JOIN users ON users.id = profiles.user_id AND users.deleted_at IS NULL").
		Where("profiles.company_id = ? AND LOWER(users.email) = ?", companyID, strings.ToLower(email)).
		Preload("User").Preload("Roles").
		First(&profile).Error
	if err != nil {
		return nil, notFound(err, ErrProfileNotFound)
	}
	return &profile, nil
}

func (r *profileRepository) SearchDesigners(db *gorm.DB, companyID, excludeID, firstName, lastName string) ([]models.Profile, error) {
	var profiles []models.Profile
	q := db.Where("company_id = ? AND id <> ?", companyID, excludeID)
	if firstName != "" {
		q = q.Where("LOWER(first_name) LIKE ?", "%"+strings.ToLower(firstName)+"%")
	}
	if lastName != "" {
		q = q.Where("LOWER(last_name) LIKE ?", "%"+strings.ToLower(lastName)+"%")
	}
	err := q.Preload("User").Preload("Company").Preload("Roles").Find(&profiles).Error
	return profiles, err
}
