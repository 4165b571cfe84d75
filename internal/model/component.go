package model

import "time"

type ComponentCategory string

const (
	CategoryProcessor    ComponentCategory = "processor"
	CategoryGraphics     ComponentCategory = "graphics"
	CategoryMemory       ComponentCategory = "memory"
	CategoryStorage      ComponentCategory = "storage"
	CategoryCooling      ComponentCategory = "cooling"
	CategoryPower        ComponentCategory = "power"
	CategoryMotherboard  ComponentCategory = "motherboard"
	CategoryCase         ComponentCategory = "case"
	CategoryExtraStorage ComponentCategory = "extra_storage"
)

// RequiredCategories is the set a build selection must cover exactly once.
// Extra storage add-ons are optional and may repeat.
var RequiredCategories = []ComponentCategory{
	CategoryProcessor,
	CategoryGraphics,
	CategoryMemory,
	CategoryStorage,
	CategoryCooling,
	CategoryPower,
	CategoryMotherboard,
	CategoryCase,
}

func (c ComponentCategory) Valid() bool {
	if c == CategoryExtraStorage {
		return true
	}
	for _, rc := range RequiredCategories {
		if c == rc {
			return true
		}
	}
	return false
}

type Component struct {
	ID        uint64            `gorm:"primaryKey;autoIncrement"`
	Category  ComponentCategory `gorm:"column:category;size:32;index;not null"`
	Name      string            `gorm:"size:120;not null"`
	Brand     string            `gorm:"size:64"`
	Price     int64             `gorm:"not null"`
	InStock   bool              `gorm:"column:in_stock;not null;default:true"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (Component) TableName() string {
	return "components"
}
