package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tableserve-backend/pkg/types"
)

// CatalogItem is a menu item as published by the catalog service.
type CatalogItem struct {
	ID             uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID   uuid.UUID                `gorm:"column:restaurant_id;type:uuid;not null"`
	MenuID         uuid.UUID                `gorm:"column:menu_id;type:uuid;not null"`
	Name           string                   `gorm:"column:name;not null"`
	Description    *string                  `gorm:"column:description"`
	BasePrice      decimal.Decimal          `gorm:"column:base_price;type:numeric(12,2);not null"`
	Customizations types.CustomizationRules `gorm:"column:customizations;type:jsonb;not null;default:'[]'"`
	IsAvailable    bool                     `gorm:"column:is_available;not null;default:true"`
	Position       int                      `gorm:"column:position;not null;default:0"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
