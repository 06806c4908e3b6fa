package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/angelmondragon/tableserve-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/tableserve-backend/api/validators"
	"github.com/angelmondragon/tableserve-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
)

const maxNotesLength = 500

// ScopeFromRequest builds the cart scope from the restaurantSlug, sessionId and
// menuId route parameters.
func ScopeFromRequest(r *http.Request) (cart.Scope, error) {
	sessionID, err := validators.ParseUUIDParam(r, "sessionId")
	if err != nil {
		return cart.Scope{}, err
	}
	menuID, err := validators.ParseUUIDParam(r, "menuId")
	if err != nil {
		return cart.Scope{}, err
	}
	scope := cart.Scope{
		RestaurantSlug: chi.URLParam(r, "restaurantSlug"),
		SessionID:      sessionID,
		MenuID:         menuID,
	}
	if err := scope.Validate(); err != nil {
		return cart.Scope{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart scope")
	}
	return scope, nil
}

func toLineInput(payload cartdto.LineRequest) cart.LineInput {
	toggles := make([]cart.ToggleInput, 0, len(payload.Toggles))
	for _, t := range payload.Toggles {
		toggles = append(toggles, cart.ToggleInput{
			Rule:     t.Rule,
			Option:   t.Option,
			Selected: t.Selected,
			Quantity: t.Quantity,
		})
	}
	return cart.LineInput{
		ItemID:          payload.ItemID,
		Toggles:         toggles,
		Quantity:        payload.Quantity,
		AdditionalNotes: validators.SanitizeOptional(payload.AdditionalNotes, maxNotesLength),
	}
}
