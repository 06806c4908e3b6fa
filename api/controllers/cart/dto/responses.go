package cartdto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tableserve-backend/pkg/types"
)

// Cart is the ordering-screen cart with its derived summary.
type Cart struct {
	RestaurantSlug string          `json:"restaurant_slug"`
	SessionID      uuid.UUID       `json:"session_id"`
	MenuID         uuid.UUID       `json:"menu_id"`
	DraftID        uuid.UUID       `json:"draft_id"`
	Lines          []CartLine      `json:"lines"`
	ItemCount      int             `json:"item_count"`
	Total          decimal.Decimal `json:"total"`
	// Replaced is only set by edits; false means the edited line was gone and
	// the result was appended instead.
	Replaced *bool `json:"replaced,omitempty"`
}

type CartLine struct {
	Index           int                   `json:"index"`
	ItemID          uuid.UUID             `json:"item_id"`
	Name            string                `json:"name"`
	UnitPrice       decimal.Decimal       `json:"unit_price"`
	Quantity        int                   `json:"quantity"`
	Total           decimal.Decimal       `json:"total"`
	Customisations  []types.RuleSelection `json:"customisations"`
	AdditionalNotes *string               `json:"additional_notes,omitempty"`
}

// Quote is the live price of a draft line.
type Quote struct {
	ItemID           uuid.UUID             `json:"item_id"`
	Selections       []types.RuleSelection `json:"selections"`
	UnitPrice        decimal.Decimal       `json:"unit_price"`
	LineTotal        decimal.Decimal       `json:"line_total"`
	Satisfied        bool                  `json:"satisfied"`
	UnsatisfiedRules []string              `json:"unsatisfied_rules"`
}

// MenuItem is a catalog item as offered on the ordering screen.
type MenuItem struct {
	ID             uuid.UUID                `json:"id"`
	Name           string                   `json:"name"`
	Description    *string                  `json:"description,omitempty"`
	BasePrice      decimal.Decimal          `json:"base_price"`
	Customizations types.CustomizationRules `json:"customizations"`
	IsAvailable    bool                     `json:"is_available"`
}
