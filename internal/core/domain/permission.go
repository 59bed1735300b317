package domain

// Permission names an action a role may perform, in resource:action form.
type Permission string

const (
	PermMemoCreate   Permission = "memo:create"
	PermMemoReview   Permission = "memo:review"
	PermMemoForce    Permission = "memo:force-status"
	PermMemoDelete   Permission = "memo:delete"
	PermFolderManage Permission = "folder:manage"
	PermUserManage   Permission = "user:manage"
	PermAuditRead    Permission = "audit:read"
)

// rolePermissions is the static role -> permission matrix the frontend
// renders. Authorization decisions beyond role membership stay with the
// services; this matrix is display data.
var rolePermissions = map[UserRole][]Permission{
	RoleAdmin: {
		PermMemoCreate, PermMemoReview, PermMemoForce, PermMemoDelete,
		PermFolderManage, PermUserManage, PermAuditRead,
	},
	RoleManager: {
		PermMemoCreate, PermMemoReview, PermFolderManage,
	},
	RoleMember: {
		PermMemoCreate, PermFolderManage,
	},
}

// PermissionsForRole returns the permissions granted to a role. Unknown
// roles get an empty set.
func PermissionsForRole(role UserRole) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role grants the permission.
func HasPermission(role UserRole, p Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == p {
			return true
		}
	}
	return false
}
