package auth

import "testing"

func TestNormalizeRole(t *testing.T) {
	if got := NormalizeRole("  Admin "); got != RoleAdmin {
		t.Fatalf("expected %q, got %q", RoleAdmin, got)
	}
	if got := NormalizeRole("EMPLOYEE"); got != RoleEmployee {
		t.Fatalf("expected %q, got %q", RoleEmployee, got)
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{"admin", "Manager", "SUPERVISOR", " employee "} {
		if !ValidRole(role) {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"", "root", "owner"} {
		if ValidRole(role) {
			t.Fatalf("expected %q to be invalid", role)
		}
	}
}

func TestElevated(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleManager, RoleSupervisor} {
		if !Elevated(role) {
			t.Fatalf("expected %q to be elevated", role)
		}
	}
	if Elevated(RoleEmployee) {
		t.Fatal("employee must not be elevated")
	}
	if Elevated("") {
		t.Fatal("empty role must not be elevated")
	}
}

func TestManagerOrAdmin(t *testing.T) {
	if !ManagerOrAdmin("Admin") || !ManagerOrAdmin("manager") {
		t.Fatal("admin and manager qualify")
	}
	if ManagerOrAdmin(RoleSupervisor) || ManagerOrAdmin(RoleEmployee) {
		t.Fatal("supervisor and employee do not qualify")
	}
}
