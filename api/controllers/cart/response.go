package cart

import (
	cartdto "github.com/angelmondragon/tableserve-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/tableserve-backend/internal/cart"
	"github.com/angelmondragon/tableserve-backend/internal/catalog"
)

func newCart(view *cart.View) cartdto.Cart {
	c := view.Cart
	lines := make([]cartdto.CartLine, 0, len(c.Lines))
	for i, line := range c.Lines {
		lines = append(lines, cartdto.CartLine{
			Index:           i,
			ItemID:          line.ID,
			Name:            line.Name,
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Quantity,
			Total:           line.Total(),
			Customisations:  line.Customisations,
			AdditionalNotes: line.AdditionalNotes,
		})
	}
	return cartdto.Cart{
		RestaurantSlug: c.Scope.RestaurantSlug,
		SessionID:      c.Scope.SessionID,
		MenuID:         c.Scope.MenuID,
		DraftID:        c.DraftID,
		Lines:          lines,
		ItemCount:      view.Summary.ItemCount,
		Total:          view.Summary.Total,
		Replaced:       view.Replaced,
	}
}

func newQuote(q *cart.Quote) cartdto.Quote {
	missing := q.UnsatisfiedRules
	if missing == nil {
		missing = []string{}
	}
	return cartdto.Quote{
		ItemID:           q.ItemID,
		Selections:       q.Selections,
		UnitPrice:        q.UnitPrice,
		LineTotal:        q.LineTotal,
		Satisfied:        q.Satisfied,
		UnsatisfiedRules: missing,
	}
}

func newMenuItems(items []catalog.Item) []cartdto.MenuItem {
	out := make([]cartdto.MenuItem, 0, len(items))
	for _, item := range items {
		out = append(out, cartdto.MenuItem{
			ID:             item.ID,
			Name:           item.Name,
			Description:    item.Description,
			BasePrice:      item.BasePrice,
			Customizations: item.Customizations,
			IsAvailable:    item.IsAvailable,
		})
	}
	return out
}
