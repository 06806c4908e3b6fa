package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS catalog_items (
  id TEXT PRIMARY KEY,
  restaurant_id TEXT NOT NULL,
  menu_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  base_price TEXT NOT NULL,
  customizations TEXT NOT NULL DEFAULT '[]',
  is_available INTEGER NOT NULL DEFAULT 1,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedItem(t *testing.T, db *gorm.DB, menuID uuid.UUID, name string, position int) models.CatalogItem {
	t.Helper()
	row := models.CatalogItem{
		ID:           uuid.New(),
		RestaurantID: uuid.New(),
		MenuID:       menuID,
		Name:         name,
		BasePrice:    decimal.RequireFromString("8.50"),
		Customizations: types.CustomizationRules{
			{
				Name: "Extras", LimitType: enums.LimitTypeUpTo, Limit: 2,
				Options: []types.CustomizationOption{{Name: "Cheese", PriceModifier: decimal.RequireFromString("0.75"), MaxQuantity: 2}},
			},
		},
		IsAvailable: true,
		Position:    position,
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func TestRepositoryListMenuItemsOrdersAndFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	menuID := uuid.New()

	second := seedItem(t, db, menuID, "Burger", 2)
	first := seedItem(t, db, menuID, "Salad", 1)
	hidden := seedItem(t, db, menuID, "Soup", 0)
	seedItem(t, db, uuid.New(), "Other menu", 0)
	require.NoError(t, db.Model(&models.CatalogItem{}).Where("id = ?", hidden.ID).Update("is_available", false).Error)

	items, err := repo.ListMenuItems(context.Background(), menuID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)

	extras, ok := items[0].Rule("Extras")
	require.True(t, ok)
	assert.Equal(t, 2, extras.Limit)
	assert.True(t, extras.Options[0].PriceModifier.Equal(decimal.RequireFromString("0.75")))
}

func TestRepositoryFindMenuItem(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	menuID := uuid.New()
	row := seedItem(t, db, menuID, "Burger", 0)

	item, err := repo.FindMenuItem(context.Background(), menuID, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Burger", item.Name)
	assert.True(t, item.BasePrice.Equal(decimal.RequireFromString("8.5")))

	_, err = repo.FindMenuItem(context.Background(), uuid.New(), row.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
