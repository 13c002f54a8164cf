package user

import "slices"

type Permission string

const (
	// Console
	PermissionConsoleAccess Permission = "console.access"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Attendance
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceExport  Permission = "attendance.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionConsoleAccess,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionAttendanceViewAll,
		PermissionAttendanceExport,
	},
	RoleEmployee: {
		// Employees only check in through the mobile app
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	return slices.Contains(RolePermissions[role], permission)
}
