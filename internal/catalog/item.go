package catalog

import (
	"github.com/angelmondragon/tableserve-backend/pkg/db/models"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is the read-only snapshot of a menu item used while composing a cart line.
type Item struct {
	ID             uuid.UUID                `json:"id"`
	RestaurantID   uuid.UUID                `json:"restaurant_id"`
	MenuID         uuid.UUID                `json:"menu_id"`
	Name           string                   `json:"name"`
	Description    *string                  `json:"description,omitempty"`
	BasePrice      decimal.Decimal          `json:"base_price"`
	Customizations types.CustomizationRules `json:"customizations"`
	IsAvailable    bool                     `json:"is_available"`
}

// Rule looks up one of the item's customization rules by name.
func (i Item) Rule(name string) (types.CustomizationRule, bool) {
	return i.Customizations.Rule(name)
}

// FromModel maps the persisted row into the domain snapshot.
func FromModel(m models.CatalogItem) Item {
	rules := m.Customizations
	if rules == nil {
		rules = types.CustomizationRules{}
	}
	return Item{
		ID:             m.ID,
		RestaurantID:   m.RestaurantID,
		MenuID:         m.MenuID,
		Name:           m.Name,
		Description:    m.Description,
		BasePrice:      m.BasePrice,
		Customizations: rules,
		IsAvailable:    m.IsAvailable,
	}
}
