package models

import "fmt"

// Role is the console permission hint. It gates UI actions only.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

// DefaultRole is used when no role has been stored yet
const DefaultRole = RoleAdmin

// ValidRoles defines allowed console roles
var ValidRoles = map[Role]bool{
	RoleAdmin:  true,
	RoleViewer: true,
}

// ParseRole validates a role name
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !ValidRoles[r] {
		return "", fmt.Errorf("invalid role %q, must be one of: admin, viewer", s)
	}
	return r, nil
}

// CanMutate reports whether the role may create, edit or delete items
func (r Role) CanMutate() bool {
	return r == RoleAdmin
}

// Toggled returns the other role
func (r Role) Toggled() Role {
	if r == RoleAdmin {
		return RoleViewer
	}
	return RoleAdmin
}
