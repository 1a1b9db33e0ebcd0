package models

import "time"

// Roles recognised by the suite.
const (
	RoleUser       = "user"
	RoleSuperadmin = "superadmin"
)

// ValidRole reports whether role is one of the recognised roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleSuperadmin
}

// User represents a row in the users table.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	PwdHash    string    `json:"-"`
	SaltHex    string    `json:"-"`
	Iterations int       `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserRequest is the JSON body for POST /api/users (superadmin only).
type CreateUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UpdateUserRequest is the JSON body for PUT /api/users/{id}.
// Nil fields are left unchanged; a non-empty Password triggers a re-hash
// with a fresh salt.
type UpdateUserRequest struct {
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}
