package orders

import (
	"context"
	"net/http"
	"strings"

	cartcontrollers "github.com/angelmondragon/tableserve-backend/api/controllers/cart"
	"github.com/angelmondragon/tableserve-backend/api/responses"
	internalorders "github.com/angelmondragon/tableserve-backend/internal/orders"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
)

// CartSubmitter sends a scoped cart to the order service.
type CartSubmitter interface {
	Submit(ctx context.Context, in internalorders.SubmitInput) (*internalorders.SubmitResult, error)
}

// Submit sends the cart of the scope as one order batch. The restaurant comes
// from the caller's token; the Idempotency-Key header, when present, replaces
// the key derived from the cart draft.
func Submit(svc CartSubmitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "submission unavailable"))
			return
		}
		scope, err := cartcontrollers.ScopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		restaurantID, err := restaurantFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), internalorders.SubmitInput{
			Scope:          scope,
			RestaurantID:   restaurantID,
			StaffID:        staffFromContext(r),
			IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if result.Replayed {
			responses.WriteSuccess(w, result)
			return
		}
		responses.WriteCreated(w, result)
	}
}
