package auth

// UserContext carries the authenticated user through a request.
type UserContext struct {
	UserID     string
	Role       string
	EmployeeID string
}
