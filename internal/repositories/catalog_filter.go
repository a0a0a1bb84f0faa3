package repositories

import (
	"time"

	"onversed_backend/internal/models"

	"gorm.io/gorm"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// CatalogFilter - фильтр списков товаров и коллекций внутри компании
type CatalogFilter struct {
	Name           string
	State          models.ActivityState
	IsAssets       *bool
	IsRoblox       *bool
	IsZepeto       *bool
	IsFactory      *bool
	IsSpatial      *bool
	IsDecentraland *bool
	StartAt        *time.Time
	EndAt          *time.Time
	Limit          int
	Offset         int
}

// Page возвращает нормализованные limit/offset
func (f CatalogFilter) Page() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// apply добавляет условия фильтра; table - имя таблицы для однозначных колонок
func (f CatalogFilter) apply(q *gorm.DB, table string) *gorm.DB {
	col := func(name string) string { return table + "." + name }

	if f.Name != "" {
		q = q.Where(col("name")+" ILIKE ?", "%"+f.Name+"%")
	}
	if f.State != "" {
		q = q.Where(col("state")+" = ?", f.State)
	}

	flags := map[string]*bool{
		"is_assets":       f.IsAssets,
		"is_roblox":       f.IsRoblox,
		"is_zepeto":       f.IsZepeto,
		"is_factory":      f.IsFactory,
		"is_spatial":      f.IsSpatial,
		"is_decentraland": f.IsDecentraland,
	}
	for name, v := range flags {
		if v != nil {
			q = q.Where(col(name)+" = ?", *v)
		}
	}

	// как и раньше: диапазон дат применяется только целиком
	if f.StartAt != nil && f.EndAt != nil {
		q = q.Where(col("created_at")+" BETWEEN ? AND ?", *f.StartAt, *f.EndAt)
	}

	limit, offset := f.Page()
	return q.Limit(limit).Offset(offset)
}
