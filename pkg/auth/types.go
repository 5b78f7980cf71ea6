package auth

// Role represents an account role
type Role string

const (
	RoleAdmin     Role = "admin"     // Full access to the admin console
	RoleModerator Role = "moderator" // Can manage content but not accounts
	RoleUser      Role = "user"      // Regular account
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// Roles lists the accepted role values, used by validation schemas
func Roles() []string {
	return []string{string(RoleAdmin), string(RoleModerator), string(RoleUser)}
}
