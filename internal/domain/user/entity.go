package user

type Role string

const (
	RoleAdmin    Role = "ADMIN"    // Console access, full employee management
	RoleEmployee Role = "EMPLOYEE" // Checks in through the mobile app only
)

// IsValid reports whether r is one of the roles the backend knows.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Label is the human-readable role name used in role pickers.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleEmployee:
		return "Employee"
	default:
		return string(r)
	}
}

// Roles lists the assignable roles in picker order.
func Roles() []Role {
	return []Role{RoleEmployee, RoleAdmin}
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// IsAdmin checks if user may use the console
func (u *User) IsAdmin() bool {
	return HasPermission(u.Role, PermissionConsoleAccess)
}

// Patch carries a partial profile update; nil fields are left untouched.
type Patch struct {
	Email *string
	Name  *string
	Role  *Role
}

// Apply merges the non-nil fields of p into a copy of u.
func (p Patch) Apply(u User) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}
