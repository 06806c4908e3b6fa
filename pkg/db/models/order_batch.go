package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tableserve-backend/pkg/enums"
)

// OrderBatch groups the lines sent to the kitchen in one submission.
type OrderBatch struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID      uuid.UUID              `gorm:"column:session_id;type:uuid;not null"`
	RestaurantID   uuid.UUID              `gorm:"column:restaurant_id;type:uuid;not null"`
	TableNumber    int                    `gorm:"column:table_number;not null"`
	IdempotencyKey *string                `gorm:"column:idempotency_key;uniqueIndex"`
	Status         enums.OrderBatchStatus `gorm:"column:status;type:order_batch_status;not null;default:'submitted'"`
	LineCount      int                    `gorm:"column:line_count;not null"`
	ItemCount      int                    `gorm:"column:item_count;not null"`
	Total          decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	SubmittedBy    *uuid.UUID             `gorm:"column:submitted_by;type:uuid"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	Lines []OrderLine `gorm:"foreignKey:BatchID;references:ID"`
}
