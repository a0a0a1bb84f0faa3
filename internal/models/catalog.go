package models

type Collection struct {
	BaseModelWithDeleted
	Name             string        `gorm:"uniqueIndex;not null" json:"name"`
	NftURL           string        `json:"nft_url"`
	IsAgreed         bool          `gorm:"default:false" json:"is_agreed"`
	Description      string        `gorm:"type:varchar(155)" json:"description"`
	OtherDescription string        `gorm:"type:varchar(155)" json:"other_description"`
	State            ActivityState `gorm:"type:varchar(20);not null;default:'draft'" json:"state"`
	PlatformFlags
	IsInherited bool   `gorm:"default:false" json:"is_inherited"`
	CompanyID   string `gorm:"type:uuid;not null;index" json:"company_id"`

	// Relations
	Company    *Company   `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Designers  []Profile  `gorm:"many2many:collection_designers;" json:"designers,omitempty"`
	Items      []Item     `gorm:"foreignKey:CollectionID" json:"items,omitempty"`
	Blobs      []Blob     `gorm:"foreignKey:CollectionID" json:"blobs"`
	Activities []Activity `gorm:"foreignKey:CollectionID" json:"activities,omitempty"`
}

type Item struct {
	BaseModelWithDeleted
	Name        string        `gorm:"not null" json:"name"`
	NftURL      string        `json:"nft_url"`
	SKU         string        `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Description string        `gorm:"type:text" json:"description"`
	State       ActivityState `gorm:"type:varchar(20);not null;default:'draft'" json:"state"`
	PlatformFlags
	CollectionID      *string `gorm:"type:uuid;index" json:"collection_id"`
	CompanyID         string  `gorm:"type:uuid;not null;index" json:"company_id"`
	CategoryID        *string `gorm:"type:uuid" json:"category_id"`
	TypeID            *string `gorm:"type:uuid" json:"type_id"`
	CountryStandardID *string `gorm:"type:uuid" json:"country_standard_id"`
	SizeID            *string `gorm:"type:uuid" json:"size_id"`

	// Relations
	Company         *Company             `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"-"`
	Collection      *Collection          `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"collection,omitempty"`
	Category        *ItemCategory        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Type            *ItemType            `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	CountryStandard *ItemCountryStandard `gorm:"foreignKey:CountryStandardID" json:"country_standard,omitempty"`
	Size            *ItemSize            `gorm:"foreignKey:SizeID" json:"size,omitempty"`
	Blobs           []Blob               `gorm:"foreignKey:ItemID" json:"blobs"`
	Activities      []Activity           `gorm:"foreignKey:ItemID" json:"activities,omitempty"`
}

// Blob - файл во внешнем хранилище
type Blob struct {
	BaseModelWithDeleted
	URL          string   `gorm:"not null" json:"url"`
	Size         int64    `json:"size"`
	Mime         string   `json:"mime"`
	Name         string   `gorm:"not null" json:"name"`
	Container    string   `gorm:"not null" json:"container"`
	RequestID    string   `json:"request_id"`
	Type         BlobType `gorm:"type:varchar(30);not null" json:"type"`
	ItemID       *string  `gorm:"type:uuid;index" json:"item_id,omitempty"`
	CollectionID *string  `gorm:"type:uuid;index" json:"collection_id,omitempty"`
}

// Activity - запись в журнале согласования
type Activity struct {
	BaseModelWithDeleted
	Type         ActivityState `gorm:"type:varchar(20);not null" json:"type"`
	CollectionID *string       `gorm:"type:uuid;index" json:"collection_id,omitempty"`
	ItemID       *string       `gorm:"type:uuid;index" json:"item_id,omitempty"`
	ProfileID    string        `gorm:"type:uuid;not null;index" json:"profile_id"`

	// Relations
	Profile    *Profile    `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	Item       *Item       `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	Collection *Collection `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"collection,omitempty"`
}
