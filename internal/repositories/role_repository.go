package repositories

import (
	"errors"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role already exists")
)

type RoleRepository interface {
	FindAll(db *gorm.DB) ([]models.Role, error)
	FindByID(db *gorm.DB, id string) (*models.Role, error)
	FindByName(db *gorm.DB, name string) (*models.Role, error)
	Create(db *gorm.DB, role *models.Role) error
}

type roleRepository struct{}

func NewRoleRepository() RoleRepository {
	return &roleRepository{}
}

func (r *roleRepository) FindAll(db *gorm.DB) ([]models.Role, error) {
	var roles []models.Role
	err := db.Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) FindByID(db *gorm.DB, id string) (*models.Role, error) {
	var role models.Role
	if err := db.First(&role, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrRoleNotFound)
	}
	return &role, nil
}

func (r *roleRepository) FindByName(db *gorm.DB, name string) (*models.Role, error) {
	var role models.Role
	if err := db.First(&role, "name = ?", name).Error; err != nil {
		return nil, notFound(err, ErrRoleNotFound)
	}
	return &role, nil
}

func (r *roleRepository) Create(db *gorm.DB, role *models.Role) error {
	if err := db.Create(role).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrRoleAlreadyExists
		}
		return err
	}
	return nil
}
