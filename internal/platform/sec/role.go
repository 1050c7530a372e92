// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The CMS recognises exactly one elevated role. Accounts with any other role
// can exist in storage but never pass the admin gate.
type UserRole string

const (
	// RoleAdmin may manage blog content.
	RoleAdmin UserRole = "admin"

	// RoleMember is a non-privileged account.
	RoleMember UserRole = "member"
)

// IsValid reports whether r is a recognised [UserRole].
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMember:
		return true
	}
	return false
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleMember:
		return 10
	default:
		return 0
	}
}
