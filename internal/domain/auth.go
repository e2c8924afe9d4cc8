package domain

// Role enumerates the global roles a user may hold.
type Role string

const (
	RoleDiner      Role = "diner"
	RoleFranchisee Role = "franchisee"
	RoleAdmin      Role = "admin"
)

// Identity is the authenticated representation of a user for the duration
// of one request. The zero value is Anonymous.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Roles []Role
}

// IsAnonymous reports whether no valid, active authentication is present.
func (i Identity) IsAnonymous() bool {
	return i.ID == 0
}

// HasRole reports whether the identity holds the given role.
func (i Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
