package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/tableserve-backend/api/responses"
	pkgAuth "github.com/angelmondragon/tableserve-backend/pkg/auth"
	"github.com/angelmondragon/tableserve-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/tableserve-backend/pkg/errors"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
)

// Auth validates a staff bearer token and seeds the request context with its claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxStaffID, claims.StaffID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			if claims.RestaurantID != nil {
				ctx = context.WithValue(ctx, ctxRestaurantID, claims.RestaurantID.String())
			}
			if claims.RestaurantSlug != "" {
				ctx = context.WithValue(ctx, ctxRestaurantSlug, claims.RestaurantSlug)
			}

			if logg != nil {
				fields := map[string]any{
					"staff_id":   claims.StaffID.String(),
					"staff_role": string(claims.Role),
				}
				if claims.RestaurantID != nil {
					fields["restaurant_id"] = claims.RestaurantID.String()
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
