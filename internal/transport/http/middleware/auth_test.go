package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fuelshift/internal/domain/auth"
)

const testSecret = "middleware-test-secret"

func authedRequest(t *testing.T, role, employeeID string) *http.Request {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", Role: role, EmployeeID: employeeID}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthMiddlewarePopulatesUser(t *testing.T) {
	var got auth.UserContext
	var ok bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = GetUser(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(t, "Supervisor", "e1"))

	if !ok {
		t.Fatal("expected user in context")
	}
	if got.UserID != "u1" || got.Role != auth.RoleSupervisor || got.EmployeeID != "e1" {
		t.Fatalf("unexpected user context: %+v", got)
	}
}

func TestAuthMiddlewareIgnoresBadToken(t *testing.T) {
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("expected no user for invalid token")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shifts", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("invalid tokens pass through anonymously, got %d", rec.Code)
	}
}

func TestRequireRoles(t *testing.T) {
	protected := Auth(testSecret)(ManagerOrAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		role string
		want int
	}{
		{auth.RoleAdmin, http.StatusNoContent},
		{auth.RoleManager, http.StatusNoContent},
		{auth.RoleSupervisor, http.StatusForbidden},
		{auth.RoleEmployee, http.StatusForbidden},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, authedRequest(t, tc.role, ""))
		if rec.Code != tc.want {
			t.Fatalf("role %s: expected %d, got %d", tc.role, tc.want, rec.Code)
		}
	}

	// No token at all.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}
