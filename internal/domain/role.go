package domain

import "strings"

// StaffRole is both an access level and the login form category.
type StaffRole string

const (
	StaffRoleAdmin      StaffRole = "admin"
	StaffRoleSupervisor StaffRole = "supervisor"
	StaffRoleStaff      StaffRole = "staff"
)

// ParseStaffRole normalizes input and reports whether it names a known role.
func ParseStaffRole(s string) (StaffRole, bool) {
	role := StaffRole(strings.ToLower(strings.TrimSpace(s)))
	return role, role.Valid()
}

// Valid reports whether r is one of the known roles.
func (r StaffRole) Valid() bool {
	switch r {
	case StaffRoleAdmin, StaffRoleSupervisor, StaffRoleStaff:
		return true
	}
	return false
}

// Label returns the upper-case category name shown to users.
func (r StaffRole) Label() string {
	return strings.ToUpper(string(r))
}

// Permissions is the capability set granted to a role.
type Permissions struct {
	CanEdit             bool `json:"canEdit"`
	CanDelete           bool `json:"canDelete"`
	CanCreate           bool `json:"canCreate"`
	CanManageStaff      bool `json:"canManageStaff"`
	CanSendAlerts       bool `json:"canSendAlerts"`
	CanAccessAttendance bool `json:"canAccessAttendance"`
	CanCheckInOut       bool `json:"canCheckInOut"`
	IsReadOnly          bool `json:"isReadOnly"`
}

// PermissionsFor maps a role to its capabilities. Unknown roles get nothing.
func PermissionsFor(role StaffRole) Permissions {
	switch role {
	case StaffRoleAdmin, StaffRoleSupervisor:
		return Permissions{
			CanEdit:             true,
			CanDelete:           true,
			CanCreate:           true,
			CanManageStaff:      true,
			CanSendAlerts:       true,
			CanAccessAttendance: true,
			CanCheckInOut:       true,
		}
	case StaffRoleStaff:
		return Permissions{
			CanAccessAttendance: true,
			CanCheckInOut:       true,
			IsReadOnly:          true,
		}
	default:
		return Permissions{IsReadOnly: true}
	}
}
