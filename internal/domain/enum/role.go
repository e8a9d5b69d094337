package enum

// Role represents a user role
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCashier Role = "cashier"
)

// IsValid checks whether the role is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCashier
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}
