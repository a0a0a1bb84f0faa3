package dto

import (
	"time"

	"onversed_backend/internal/models"
	"onversed_backend/internal/repositories"
)

// PlatformFlagsPatch - частичное обновление флагов платформ
type PlatformFlagsPatch struct {
	IsAssets       *bool `json:"is_assets"`
	IsRoblox       *bool `json:"is_roblox"`
	IsZepeto       *bool `json:"is_zepeto"`
	IsFactory      *bool `json:"is_factory"`
	IsSpatial      *bool `json:"is_spatial"`
	IsDecentraland *bool `json:"is_decentraland"`
}

// ApplyTo переносит заданные флаги
func (p PlatformFlagsPatch) ApplyTo(f *models.PlatformFlags) {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.IsAssets, p.IsAssets)
	set(&f.IsRoblox, p.IsRoblox)
	set(&f.IsZepeto, p.IsZepeto)
	set(&f.IsFactory, p.IsFactory)
	set(&f.IsSpatial, p.IsSpatial)
	set(&f.IsDecentraland, p.IsDecentraland)
}

// ============================================
// ITEMS
// ============================================

// CreateItemRequest - поле "data" multipart-запроса создания товара
type CreateItemRequest struct {
	SKU               string `json:"sku" validate:"required,max=100"`
	Name              string `json:"name" validate:"required,max=255"`
	NftURL            string `json:"nft_url" validate:"omitempty,url"`
	Description       string `json:"description"`
	TypeID            string `json:"type" validate:"omitempty,uuid"`
	CategoryID        string `json:"category" validate:"omitempty,uuid"`
	SizeID            string `json:"size" validate:"omitempty,uuid"`
	CountryStandardID string `json:"country_standard" validate:"omitempty,uuid"`
	CollectionID      string `json:"collection" validate:"omitempty,uuid"`
	ToSent            bool   `json:"to_sent"`
	models.PlatformFlags
}

// UpdateItemRequest - заданные поля перезаписываются, новые файлы добавляются
type UpdateItemRequest struct {
	SKU               *string `json:"sku" validate:"omitempty,max=100"`
	Name              *string `json:"name" validate:"omitempty,max=255"`
	NftURL            *string `json:"nft_url" validate:"omitempty,url"`
	Description       *string `json:"description"`
	TypeID            *string `json:"type" validate:"omitempty,uuid"`
	CategoryID        *string `json:"category" validate:"omitempty,uuid"`
	SizeID            *string `json:"size" validate:"omitempty,uuid"`
	CountryStandardID *string `json:"country_standard" validate:"omitempty,uuid"`
	CollectionID      *string `json:"collection" validate:"omitempty,uuid"`
	ToSent            *bool   `json:"to_sent"`
	PlatformFlagsPatch
}

// ============================================
// COLLECTIONS
// ============================================

// CreateCollectionRequest - поле "data" multipart-запроса создания коллекции
type CreateCollectionRequest struct {
	Name             string   `json:"name" validate:"required,max=255"`
	Description      string   `json:"description" validate:"max=155"`
	OtherDescription string   `json:"other_description" validate:"max=155"`
	IsAgreed         bool     `json:"is_agreed"`
	IsInherited      bool     `json:"is_inherited"`
	NftURL           string   `json:"nft_url" validate:"omitempty,url"`
	Designers        []string `json:"designers" validate:"dive,uuid"`
	models.PlatformFlags
}

// UpdateCollectionRequest - Designers != nil заменяет список дизайнеров
type UpdateCollectionRequest struct {
	Name             *string   `json:"name" validate:"omitempty,max=255"`
	Description      *string   `json:"description" validate:"omitempty,max=155"`
	OtherDescription *string   `json:"other_description" validate:"omitempty,max=155"`
	IsAgreed         *bool     `json:"is_agreed"`
	IsInherited      *bool     `json:"is_inherited"`
	NftURL           *string   `json:"nft_url" validate:"omitempty,url"`
	Designers        *[]string `json:"designers" validate:"omitempty,dive,uuid"`
	PlatformFlagsPatch
}

// ============================================
// LISTS
// ============================================

// CatalogFilterRequest - query-параметры списков товаров и коллекций
type CatalogFilterRequest struct {
	Name           string     `form:"name"`
	State          string     `form:"state" validate:"omitempty,activity_state"`
	IsAssets       *bool      `form:"is_assets"`
	IsRoblox       *bool      `form:"is_roblox"`
	IsZepeto       *bool      `form:"is_zepeto"`
	IsFactory      *bool      `form:"is_factory"`
	IsSpatial      *bool      `form:"is_spatial"`
	IsDecentraland *bool      `form:"is_decentraland"`
	StartAt        *time.Time `form:"start_at" time_format:"2006-01-02T15:04:05Z07:00"`
	EndAt          *time.Time `form:"end_at" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit          int        `form:"limit" validate:"gte=0,lte=100"`
	Offset         int        `form:"offset" validate:"gte=0"`
}

func (r CatalogFilterRequest) ToFilter() repositories.CatalogFilter {
	return repositories.CatalogFilter{
		Name:           r.Name,
		State:          models.ActivityState(r.State),
		IsAssets:       r.IsAssets,
		IsRoblox:       r.IsRoblox,
		IsZepeto:       r.IsZepeto,
		IsFactory:      r.IsFactory,
		IsSpatial:      r.IsSpatial,
		IsDecentraland: r.IsDecentraland,
		StartAt:        r.StartAt,
		EndAt:          r.EndAt,
		Limit:          r.Limit,
		Offset:         r.Offset,
	}
}

// PageRequest - limit/offset для журналов
type PageRequest struct {
	Limit  int `form:"limit" validate:"gte=0,lte=100"`
	Offset int `form:"offset" validate:"gte=0"`
}

// DesignersQuery - поиск дизайнеров по "Имя Фамилия"
type DesignersQuery struct {
	Name string `form:"name"`
}

// ============================================
// ACTIVITIES & LOOKUPS
// ============================================

// CreateActivityRequest - нужен item либо collection
type CreateActivityRequest struct {
	ItemID       string `json:"item" validate:"required_without=CollectionID,omitempty,uuid"`
	CollectionID string `json:"collection" validate:"required_without=ItemID,omitempty,uuid"`
	Type         string `json:"type" validate:"required,activity_state"`
}

// TableValueQuery - флаги платформ, по которым выбирается набор справочников
type TableValueQuery struct {
	IsAssets       bool `form:"is_assets"`
	IsRoblox       bool `form:"is_roblox"`
	IsZepeto       bool `form:"is_zepeto"`
	IsFactory      bool `form:"is_factory"`
	IsSpatial      bool `form:"is_spatial"`
	IsDecentraland bool `form:"is_decentraland"`
}

func (q TableValueQuery) Flags() models.PlatformFlags {
	return models.PlatformFlags{
		IsAssets:       q.IsAssets,
		IsRoblox:       q.IsRoblox,
		IsZepeto:       q.IsZepeto,
		IsFactory:      q.IsFactory,
		IsSpatial:      q.IsSpatial,
		IsDecentraland: q.IsDecentraland,
	}
}
