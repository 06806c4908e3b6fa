package models

import (
	"time"

	"github.com/google/uuid"
)

// TableSession is a seated party at a table, owned by the booking service.
type TableSession struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID  `gorm:"column:restaurant_id;type:uuid;not null"`
	TableNumber  int        `gorm:"column:table_number;not null"`
	GuestCount   int        `gorm:"column:guest_count;not null;default:1"`
	StartedAt    time.Time  `gorm:"column:started_at;not null"`
	EndedAt      *time.Time `gorm:"column:ended_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
