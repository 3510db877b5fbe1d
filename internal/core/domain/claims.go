package domain

import "github.com/golang-jwt/jwt/v5"

// Claims is the decoded payload of a signed credential. Roles and Permissions
// are the flat name lists captured at issuance time; they are a snapshot, not
// a live view of the store.
type Claims struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// UserID returns the subject the credential was issued to.
func (c *Claims) UserID() string {
	return c.Subject
}

// HasPermission reports whether the embedded permission list contains name,
// honouring wildcard entries when name is in "resource:action" form. This is
// the claim-side convenience check; store-backed authorization goes through
// Check instead.
func (c *Claims) HasPermission(name string) bool {
	for _, p := range c.Permissions {
		if p == name {
			return true
		}
	}
	if resource, action, ok := splitPermissionName(name); ok {
		for _, p := range c.Permissions {
			if MatchPermission(p, resource, action) {
				return true
			}
		}
	}
	return false
}

// HasRole reports whether the credential carries the named role.
func (c *Claims) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r == name {
			return true
		}
	}
	return false
}
