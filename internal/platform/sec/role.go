// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Full platform control, can mint other superadmins and admins
	RoleSuperAdmin UserRole = "superadmin"

	// Can moderate channels, videos and comments platform-wide
	RoleAdmin UserRole = "admin"

	// Default role for standard registered channels
	RoleUser UserRole = "user"
)

// ParseRole converts a raw string into a [UserRole].
// It returns false when the value is not a known role.
func ParseRole(raw string) (UserRole, bool) {
	role := UserRole(raw)
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return role, true
	default:
		return "", false
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleSuperAdmin:
		return 30
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
