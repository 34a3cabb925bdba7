package enums

// UserRole scopes what a token holder may do. Shoppers manage their own cart
// and orders; admins additionally drive fulfilment transitions.
type UserRole string

const (
	UserRoleShopper UserRole = "shopper"
	UserRoleAdmin   UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleShopper, UserRoleAdmin:
		return true
	}
	return false
}

func ParseUserRole(raw string) (UserRole, bool) {
	r := UserRole(raw)
	return r, r.IsValid()
}
