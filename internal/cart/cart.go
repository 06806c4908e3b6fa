package cart

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/tableserve-backend/internal/pricing"
	"github.com/angelmondragon/tableserve-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scope identifies whose cart this is: one restaurant, one table session, one menu.
type Scope struct {
	RestaurantSlug string    `json:"restaurant_slug"`
	SessionID      uuid.UUID `json:"session_id"`
	MenuID         uuid.UUID `json:"menu_id"`
}

// Key is the persisted key of the scope, {restaurantSlug}:{sessionId}:{menuId}.
func (s Scope) Key() string {
	return fmt.Sprintf("%s:%s:%s", s.RestaurantSlug, s.SessionID, s.MenuID)
}

// Validate reports whether every part of the scope is present.
func (s Scope) Validate() error {
	if strings.TrimSpace(s.RestaurantSlug) == "" {
		return fmt.Errorf("restaurant slug is required")
	}
	if strings.Contains(s.RestaurantSlug, ":") {
		return fmt.Errorf("restaurant slug must not contain ':'")
	}
	if s.SessionID == uuid.Nil {
		return fmt.Errorf("session id is required")
	}
	if s.MenuID == uuid.Nil {
		return fmt.Errorf("menu id is required")
	}
	return nil
}

// Line is a composed, priced cart entry. ID is the catalog item id it was built from.
type Line struct {
	ID              uuid.UUID             `json:"id"`
	Name            string                `json:"name"`
	UnitPrice       decimal.Decimal       `json:"unit_price"`
	Quantity        int                   `json:"quantity"`
	Customisations  []types.RuleSelection `json:"customisations"`
	AdditionalNotes *string               `json:"additional_notes,omitempty"`
}

func (l Line) LineUnitPrice() decimal.Decimal { return l.UnitPrice }
func (l Line) LineQuantity() int              { return l.Quantity }

// Total is the unit price times the quantity.
func (l Line) Total() decimal.Decimal {
	return pricing.LineTotal(l)
}

// Cart is an ordered sequence of lines. Every transition returns a new value.
// DraftID identifies one fill-and-submit round of the scope; it changes only
// when the cart is cleared.
type Cart struct {
	Scope   Scope     `json:"scope"`
	DraftID uuid.UUID `json:"draft_id"`
	Lines   []Line    `json:"lines"`
}

// New returns an empty cart for scope.
func New(scope Scope) Cart {
	return Cart{Scope: scope, DraftID: uuid.New(), Lines: []Line{}}
}

// AddLine appends line. Lines built from the same item are never merged.
func (c Cart) AddLine(line Line) Cart {
	lines := make([]Line, 0, len(c.Lines)+1)
	lines = append(lines, c.Lines...)
	lines = append(lines, line)
	return Cart{Scope: c.Scope, DraftID: c.DraftID, Lines: lines}
}

// FindLineIndexByID returns the index of the first line with id, or -1.
func (c Cart) FindLineIndexByID(id uuid.UUID) int {
	for i, line := range c.Lines {
		if line.ID == id {
			return i
		}
	}
	return -1
}

// RemoveLineAt drops the line at index. Out-of-range indexes leave the cart unchanged.
func (c Cart) RemoveLineAt(index int) Cart {
	if index < 0 || index >= len(c.Lines) {
		return c
	}
	lines := make([]Line, 0, len(c.Lines)-1)
	lines = append(lines, c.Lines[:index]...)
	lines = append(lines, c.Lines[index+1:]...)
	return Cart{Scope: c.Scope, DraftID: c.DraftID, Lines: lines}
}

// ReplaceLine removes the line with id and appends line. When no line has id
// the result is a plain add and replaced is false.
func (c Cart) ReplaceLine(id uuid.UUID, line Line) (next Cart, replaced bool) {
	idx := c.FindLineIndexByID(id)
	return c.RemoveLineAt(idx).AddLine(line), idx >= 0
}

// Clear empties the cart, keeping its scope and starting a new draft.
func (c Cart) Clear() Cart {
	return New(c.Scope)
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Summary derives the item count and total.
func (c Cart) Summary() pricing.Summary {
	return pricing.Summarize(c.Lines)
}
