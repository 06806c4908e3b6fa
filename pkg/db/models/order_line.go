package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tableserve-backend/pkg/types"
)

// OrderLine is the persisted snapshot of one submitted cart line.
type OrderLine struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BatchID        uuid.UUID            `gorm:"column:batch_id;type:uuid;not null"`
	SessionID      uuid.UUID            `gorm:"column:session_id;type:uuid;not null"`
	RestaurantID   uuid.UUID            `gorm:"column:restaurant_id;type:uuid;not null"`
	ItemID         uuid.UUID            `gorm:"column:item_id;type:uuid;not null"`
	Position       int                  `gorm:"column:position;not null"`
	Quantity       int                  `gorm:"column:quantity;not null"`
	UnitPrice      decimal.Decimal      `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Total          decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	Customisations types.RuleSelections `gorm:"column:customisations;type:jsonb;not null;default:'[]'"`
	AdditionalNote *string              `gorm:"column:additional_note"`
	TableNumber    int                  `gorm:"column:table_number;not null"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}
