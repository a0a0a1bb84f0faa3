package models

import (
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type BaseModelWithDeleted struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PlatformFlags - целевые платформы коллекции или товара
type PlatformFlags struct {
	IsAssets       bool `gorm:"default:false" json:"is_assets"`
	IsRoblox       bool `gorm:"default:false" json:"is_roblox"`
	IsZepeto       bool `gorm:"default:false" json:"is_zepeto"`
	IsFactory      bool `gorm:"default:false" json:"is_factory"`
	IsSpatial      bool `gorm:"default:false" json:"is_spatial"`
	IsDecentraland bool `gorm:"default:false" json:"is_decentraland"`
}

// IsAsset - хотя бы одна виртуальная платформа
func (f PlatformFlags) IsAsset() bool {
	return f.IsAssets || f.IsRoblox || f.IsZepeto || f.IsSpatial || f.IsDecentraland
}
