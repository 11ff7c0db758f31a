package domain

import "slices"

// Permission is a capability name carried in token claims.
type Permission string

const (
	PermissionAdmin          Permission = "ADMIN"
	PermissionManageProducts Permission = "MANAGE_PRODUCTS"
)

var knownPermissions = map[Permission]struct{}{
	PermissionAdmin:          {},
	PermissionManageProducts: {},
}

// IsKnown reports whether p belongs to the fixed permission set.
func (p Permission) IsKnown() bool {
	_, ok := knownPermissions[p]
	return ok
}

// FilterPermissions keeps the recognised names of requested, in order and
// without duplicates. Unknown names are dropped.
func FilterPermissions(requested []string) []Permission {
	out := make([]Permission, 0, len(requested))
	for _, name := range requested {
		p := Permission(name)
		if !p.IsKnown() || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// User models a registered account.
type User struct {
	ID           string       `json:"_id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Permissions  []Permission `json:"permissions"`
}

// Claims is the identity payload embedded in a bearer token.
type Claims struct {
	Username    string
	Permissions []Permission
}

// Has reports whether the claims grant p.
func (c Claims) Has(p Permission) bool {
	return slices.Contains(c.Permissions, p)
}
