package middleware

import (
	"net/http"

	"github.com/angelmondragon/tableserve-backend/api/responses"
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
)

// RequireOrderingRole rejects staff whose role may not build or submit orders.
func RequireOrderingRole(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := enums.ParseStaffRole(RoleFromContext(r.Context()))
			if err != nil || !role.CanOrder() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role may not place orders"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
