package entity

// Role is the access level attached to a user and carried in session tokens.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// ParseRole converts user input into a Role.
// An empty value resolves to RoleCustomer; unknown values report false.
func ParseRole(s string) (Role, bool) {
	if s == "" {
		return RoleCustomer, true
	}
	r := Role(s)
	return r, r.Valid()
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// In reports whether r is contained in allowed.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
