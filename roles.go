package authgate

// Role labels derived from the user's permission flags. The flags are
// independent booleans; the label is only a claim annotation, never an
// authorization input.
const (
	// RoleMember is a regular authenticated user
	RoleMember = "member"
	// RoleStaff can access administrative surfaces
	RoleStaff = "staff"
	// RoleSuperuser bypasses permission checks entirely
	RoleSuperuser = "superuser"
)

// Role derives the claim label from the permission flags
func (u *User) Role() string {
	switch {
	case u.IsSuperuser:
		return RoleSuperuser
	case u.IsStaff:
		return RoleStaff
	default:
		return RoleMember
	}
}

// IsAdmin reports whether the user holds either elevated flag
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}
