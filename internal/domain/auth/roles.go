package auth

import "strings"

const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
	RoleEmployee   = "employee"
)

var allRoles = []string{RoleAdmin, RoleManager, RoleSupervisor, RoleEmployee}

func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func ValidRole(role string) bool {
	normalized := NormalizeRole(role)
	for _, candidate := range allRoles {
		if normalized == candidate {
			return true
		}
	}
	return false
}

// Elevated reports whether the role may act on shifts it does not own.
func Elevated(role string) bool {
	switch NormalizeRole(role) {
	case RoleAdmin, RoleManager, RoleSupervisor:
		return true
	}
	return false
}

func ManagerOrAdmin(role string) bool {
	switch NormalizeRole(role) {
	case RoleAdmin, RoleManager:
		return true
	}
	return false
}
