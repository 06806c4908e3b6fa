package enums

import "fmt"

// StaffRole is the restaurant-level role carried in staff access tokens.
type StaffRole string

const (
	StaffRoleOwner   StaffRole = "owner"
	StaffRoleManager StaffRole = "manager"
	StaffRoleWaiter  StaffRole = "waiter"
	StaffRoleKitchen StaffRole = "kitchen"
)

var validStaffRoles = []StaffRole{
	StaffRoleOwner,
	StaffRoleManager,
	StaffRoleWaiter,
	StaffRoleKitchen,
}

// String implements fmt.Stringer.
func (r StaffRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known StaffRole.
func (r StaffRole) IsValid() bool {
	for _, candidate := range validStaffRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanOrder reports whether the role may build carts and submit orders.
func (r StaffRole) CanOrder() bool {
	return r == StaffRoleOwner || r == StaffRoleManager || r == StaffRoleWaiter
}

// ParseStaffRole converts raw input into a StaffRole.
func ParseStaffRole(value string) (StaffRole, error) {
	for _, candidate := range validStaffRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid staff role %q", value)
}
