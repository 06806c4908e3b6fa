package auth

import (
	"github.com/angelmondragon/tableserve-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	StaffID        uuid.UUID
	RestaurantID   *uuid.UUID
	RestaurantSlug string
	Role           enums.StaffRole
	JTI            string
}

// AccessTokenClaims represents the typed staff JWT. RestaurantID and
// RestaurantSlug name the restaurant the staff member is currently working in.
type AccessTokenClaims struct {
	StaffID        uuid.UUID       `json:"staff_id"`
	RestaurantID   *uuid.UUID      `json:"restaurant_id,omitempty"`
	RestaurantSlug string          `json:"restaurant_slug,omitempty"`
	Role           enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
