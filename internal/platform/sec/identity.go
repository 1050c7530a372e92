// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// Identity is the resolved, current view of an authenticated administrator.
//
// It is built from storage on every request, not from token claims alone, so
// a deleted or demoted account stops resolving as soon as the change is written.
type Identity struct {
	UserID      string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName *string  `json:"name,omitempty"`
	Role        UserRole `json:"role"`
}

// IsAdmin reports whether the identity holds the admin role.
func (identity *Identity) IsAdmin() bool {
	return identity != nil && identity.Role == RoleAdmin
}
