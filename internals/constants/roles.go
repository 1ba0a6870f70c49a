package constants

import "fmt"

// Global roles (users.role)
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleUser       = "USER"
)

// Per-school roles (user_schools.user_school_role)
const (
	RoleAdmin   = "ADMIN"
	RoleTeacher = "TEACHER"
	RoleParent  = "PARENT"
	RoleStudent = "STUDENT"
)

// Templates for role error messages
const (
	ErrOnlyAdminsCanAccess = "Seuls les administrateurs peuvent accéder à %s."
	ErrOnlyStaffCanAccess  = "Seuls les administrateurs et enseignants peuvent accéder à %s."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

// ==========================
// Grouped role slices
// ==========================
var (
	SchoolRoles = []string{
		RoleAdmin,
		RoleTeacher,
		RoleParent,
		RoleStudent,
	}

	AdminOnly = []string{
		RoleAdmin,
	}

	StaffRoles = []string{
		RoleAdmin,
		RoleTeacher,
	}

	GlobalRoles = []string{
		RoleSuperAdmin,
		RoleUser,
	}
)

func IsSchoolRole(role string) bool {
	for _, r := range SchoolRoles {
		if r == role {
			return true
		}
	}
	return false
}
