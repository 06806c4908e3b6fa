package orders

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/tableserve-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
)

// restaurantFromContext returns the caller's restaurant, or nil when the token
// carried none.
func restaurantFromContext(r *http.Request) (*uuid.UUID, error) {
	raw := middleware.RestaurantIDFromContext(r.Context())
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "restaurant context invalid")
	}
	return &id, nil
}

func staffFromContext(r *http.Request) *uuid.UUID {
	id, err := uuid.Parse(middleware.StaffIDFromContext(r.Context()))
	if err != nil {
		return nil
	}
	return &id
}
