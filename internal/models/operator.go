package models

// Role represents operator roles on the dashboard
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleViewer   Role = "viewer"
)

// Permissions checked by the API.
const (
	PermViewVehicles   = "view_vehicles"
	PermViewAlerts     = "view_alerts"
	PermViewSummary    = "view_summary"
	PermManageVehicles = "manage_vehicles"
)

// Claims represents JWT claims
type Claims struct {
	Subject string `json:"sub"`
	Role    Role   `json:"role"`
	Exp     int64  `json:"exp"`
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleOperator, RoleViewer:
		return true
	default:
		return false
	}
}

// HasPermission checks if a role may perform a specific action
func (r Role) HasPermission(action string) bool {
	switch r {
	case RoleAdmin, RoleManager:
		return true
	case RoleOperator:
		return action == PermViewVehicles || action == PermViewAlerts ||
			action == PermViewSummary || action == PermManageVehicles
	case RoleViewer:
		return action == PermViewVehicles || action == PermViewAlerts ||
			action == PermViewSummary
	default:
		return false
	}
}
