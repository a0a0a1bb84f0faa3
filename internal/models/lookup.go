package models

// LookupValue - общая часть справочников
type LookupValue struct {
	BaseModelWithDeleted
	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Label string `gorm:"not null" json:"label"`
}

type ItemType struct {
	LookupValue
}

func (ItemType) TableName() string { return "_item_types" }

type ItemSize struct {
	LookupValue
}

func (ItemSize) TableName() string { return "_item_sizes" }

type ItemCategory struct {
	LookupValue
	Sizes []ItemSize `gorm:"many2many:_item_categories_sizes;" json:"sizes,omitempty"`
}

func (ItemCategory) TableName() string { return "_item_categories" }

type ItemCountryStandard struct {
	LookupValue
}

func (ItemCountryStandard) TableName() string { return "_item_countries_standards" }

type ItemFile struct {
	LookupValue
}

func (ItemFile) TableName() string { return "_item_files" }

// ItemUse - набор справочных значений для одного вида использования
// (factory, asset, other)
type ItemUse struct {
	LookupValue
	Types      []ItemType            `gorm:"many2many:_item_uses_types;" json:"types"`
	Files      []ItemFile            `gorm:"many2many:_item_uses_files;" json:"files"`
	Countries  []ItemCountryStandard `gorm:"many2many:_item_uses_countries;" json:"countries"`
	Categories []ItemCategory        `gorm:"many2many:_item_uses_categories;" json:"categories"`
}

func (ItemUse) TableName() string { return "_item_uses" }

const (
	ItemUseFactory = "factory"
	ItemUseAsset   = "asset"
	ItemUseOther   = "other"
)
