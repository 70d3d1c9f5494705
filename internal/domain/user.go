package domain

// Role represents a user's resolved role.
// Role derivation (credential checks, id prefixes and the like) happens upstream;
// within this service the role is an opaque, immutable attribute.
type Role string

const (
	RoleStudent      Role = "student"
	RoleStaff        Role = "staff"
	RolePostgraduate Role = "postgraduate"
	RoleAdmin        Role = "admin"
)

// User represents an already-authenticated user of the booking service
type User struct {
	ID         string
	Name       string
	Role       Role
	BookingIDs []int64
}

// IsAdmin returns true for users with administrative rights
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether r is one of the known roles
func ValidRole(r Role) bool {
	switch r {
	case RoleStudent, RoleStaff, RolePostgraduate, RoleAdmin:
		return true
	}
	return false
}
