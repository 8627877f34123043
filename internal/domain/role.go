package domain

// Role is the already-resolved permission level of the caller.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleFullEditor   Role = "full_editor"
	RoleMemberEditor Role = "member_editor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFullEditor, RoleMemberEditor:
		return true
	}
	return false
}

// Principal is the authenticated caller as seen by the application layer.
type Principal struct {
	Subject SubjectID
	Role    Role
}
