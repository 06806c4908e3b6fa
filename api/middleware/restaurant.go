package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/tableserve-backend/api/responses"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
)

// RestaurantContext requires a well-formed restaurant id in the request
// context. Submit checks for a missing restaurant itself so it can answer with
// the restaurant_missing warning; this guard is for the read endpoints.
func RestaurantContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := RestaurantIDFromContext(r.Context())
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant context missing"))
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "restaurant context invalid"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RestaurantScope binds the {restaurantSlug} of a cart route to the caller's
// token. A token that names a restaurant may only reach that restaurant's
// carts. A token without one passes, so submit can answer restaurant_missing.
func RestaurantScope(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RestaurantIDFromContext(r.Context()) == "" {
				next.ServeHTTP(w, r)
				return
			}
			claimed := RestaurantSlugFromContext(r.Context())
			requested := strings.TrimSpace(chi.URLParam(r, "restaurantSlug"))
			if claimed == "" || !strings.EqualFold(claimed, requested) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "restaurant not covered by token"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
