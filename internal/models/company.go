package models

import "strings"

type Company struct {
	BaseModelWithDeleted
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	NIF      string `gorm:"column:nif" json:"nif,omitempty"`
	Address  string `json:"address,omitempty"`
	LogoURL  string `json:"logo_url,omitempty"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Relations
	Profiles []Profile `gorm:"foreignKey:CompanyID" json:"-"`
}

// Profile - участие пользователя в компании
type Profile struct {
	BaseModelWithDeleted
	UserID      string `gorm:"type:uuid;not null;uniqueIndex:idx_profiles_user_company" json:"user_id"`
	CompanyID   string `gorm:"type:uuid;not null;uniqueIndex:idx_profiles_user_company;index" json:"company_id"`
	FirstName   string `gorm:"not null" json:"first_name"`
	LastName    string `gorm:"not null" json:"last_name"`
	JobTitle    string `json:"job_title,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	AvatarID    string `json:"-"`
	IsStaff     bool   `gorm:"default:false" json:"is_staff"`
	IsCustomer  bool   `gorm:"default:false" json:"is_customer"`
	IsGenerated bool   `gorm:"default:false" json:"is_generated"`

	// Relations
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	Roles   []Role   `gorm:"many2many:profile_roles;" json:"roles,omitempty"`
}

// RoleNames - имена ролей профиля
func (p *Profile) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, r.Name)
	}
	return names
}

// FullName - "Имя Фамилия"
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Role struct {
	BaseModelWithDeleted
	Name string `gorm:"uniqueIndex;not null" json:"name"`

	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// Permission хранится, но не вычисляется при проверке доступа
type Permission struct {
	BaseModelWithDeleted
	Flow string `gorm:"not null" json:"flow"`
	C    int    `gorm:"column:c" json:"c"`
	R    int    `gorm:"column:r" json:"r"`
	U    int    `gorm:"column:u" json:"u"`
	D    int    `gorm:"column:d" json:"d"`
}
