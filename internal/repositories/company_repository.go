package repositories

import (
	"errors"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrCompanyAlreadyExists = errors.New("company already exists")
)

type CompanyRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Company, error)
	ExistsByName(db *gorm.DB, name string) (bool, error)
	Create(db *gorm.DB, company *models.Company) error
}

type companyRepository struct{}

func NewCompanyRepository() CompanyRepository {
	return &companyRepository{}
}

func (r *companyRepository) FindByID(db *gorm.DB, id string) (*models.Company, error) {
	var company models.Company
	if err := db.First(&company, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrCompanyNotFound)
	}
	return &company, nil
}

func (r *companyRepository) ExistsByName(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Model(&models.Company{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (r *companyRepository) Create(db *gorm.DB, company *models.Company) error {
	if err := db.Create(company).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrCompanyAlreadyExists
		}
		return err
	}
	return nil
}
