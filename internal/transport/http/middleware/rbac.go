package middleware

import (
	"net/http"

	"fuelshift/internal/domain/auth"
	"fuelshift/internal/transport/http/api"
)

// RequireAuth rejects requests that did not present a valid token.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRoles allows only the named roles through.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[auth.NormalizeRole(role)] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}
			if _, ok := allowed[user.Role]; !ok {
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return RequireRoles(auth.RoleAdmin)(next)
}

func ManagerOrAdmin(next http.Handler) http.Handler {
	return RequireRoles(auth.RoleManager, auth.RoleAdmin)(next)
}

func SupervisorOrAbove(next http.Handler) http.Handler {
	return RequireRoles(auth.RoleSupervisor, auth.RoleManager, auth.RoleAdmin)(next)
}
