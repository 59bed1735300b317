package domain

import "time"

// UserRole defines the application-wide role of a user.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleManager UserRole = "MANAGER"
	RoleMember  UserRole = "MEMBER"
)

// User represents a user of the application in the domain.
type User struct {
	UserID     string   `json:"userID"` // Primary Key (e.g., UUID)
	Username   string   `json:"username"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Role       UserRole `json:"role"`
	// PasswordHash is never serialized.
	PasswordHash string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo holds the subset of the Google userinfo payload the
// application consumes during OAuth sign-in.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
