package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is the read model of a seated table.
type Session struct {
	ID           uuid.UUID  `json:"id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	TableNumber  int        `json:"table_number"`
	GuestCount   int        `json:"guest_count"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

// Open reports whether the session has not ended.
func (s Session) Open() bool {
	return s.EndedAt == nil
}

// Reader resolves table sessions owned by the booking service.
type Reader interface {
	FindSession(ctx context.Context, sessionID uuid.UUID) (*Session, error)
	CurrentSession(ctx context.Context, restaurantID uuid.UUID, tableNumber int) (*Session, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a session reader tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Reader {
	return &repository{db: db}
}

func (r *repository) FindSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	var row models.TableSession
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&row).Error
	if err != nil {
		return nil, notFoundOr(err, "find table session")
	}
	return fromModel(row), nil
}

// CurrentSession returns the most recent open session at the table.
func (r *repository) CurrentSession(ctx context.Context, restaurantID uuid.UUID, tableNumber int) (*Session, error) {
	var row models.TableSession
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND table_number = ? AND ended_at IS NULL", restaurantID, tableNumber).
		Order("started_at DESC").
		First(&row).Error
	if err != nil {
		return nil, notFoundOr(err, "find current table session")
	}
	return fromModel(row), nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "table session not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func fromModel(m models.TableSession) *Session {
	return &Session{
		ID:           m.ID,
		RestaurantID: m.RestaurantID,
		TableNumber:  m.TableNumber,
		GuestCount:   m.GuestCount,
		StartedAt:    m.StartedAt,
		EndedAt:      m.EndedAt,
	}
}
