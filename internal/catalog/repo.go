package catalog

import (
	"context"
	"errors"

	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reader is the read-only catalog surface consumed by the ordering flow.
type Reader interface {
	ListMenuItems(ctx context.Context, menuID uuid.UUID) ([]Item, error)
	FindMenuItem(ctx context.Context, menuID, itemID uuid.UUID) (*Item, error)
}

// Repository reads catalog items mirrored into the local database.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMenuItems returns the available items of a menu in display order.
func (r *Repository) ListMenuItems(ctx context.Context, menuID uuid.UUID) ([]Item, error) {
	var rows []models.CatalogItem
	err := r.db.WithContext(ctx).
		Where("menu_id = ? AND is_available = ?", menuID, true).
		Order("position ASC").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list menu items")
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromModel(row))
	}
	return items, nil
}

// FindMenuItem loads one item of a menu.
func (r *Repository) FindMenuItem(ctx context.Context, menuID, itemID uuid.UUID) (*Item, error) {
	var row models.CatalogItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND menu_id = ?", itemID, menuID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find menu item")
	}
	item := FromModel(row)
	return &item, nil
}
