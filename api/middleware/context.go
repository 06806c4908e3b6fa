package middleware

import "context"

type contextKey string

const (
	ctxStaffID      contextKey = "staff_id"
	ctxRole         contextKey = "staff_role"
	ctxRestaurantID   contextKey = "restaurant_id"
	ctxRestaurantSlug contextKey = "restaurant_slug"
)

func StaffIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxStaffID)
}

func RoleFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRole)
}

// RestaurantIDFromContext returns the restaurant the caller is working in, or
// "" when the token carried none.
func RestaurantIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRestaurantID)
}

func RestaurantSlugFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxRestaurantSlug)
}

// WithStaffID injects the staff identifier into the context.
func WithStaffID(ctx context.Context, staffID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxStaffID, staffID)
}

func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithRestaurantID injects the restaurant identifier into the context for downstream handlers.
func WithRestaurantID(ctx context.Context, restaurantID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRestaurantID, restaurantID)
}

func WithRestaurantSlug(ctx context.Context, slug string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRestaurantSlug, slug)
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
