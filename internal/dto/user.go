package dto

import (
	"time"

	"github.com/ememohq/ememo_backend/internal/core/domain"
)

// CreateUserRequest defines the data needed to register a user.
type CreateUserRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department"`
}

// UpdateUserRequest defines the fields a user update may touch.
type UpdateUserRequest struct {
	Name       *string          `json:"name"`
	Email      *string          `json:"email" binding:"omitempty,email"`
	Department *string          `json:"department"`
	Role       *domain.UserRole `json:"role" binding:"omitempty,oneof=ADMIN MANAGER MEMBER"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID     string          `json:"userID"`
	Username   string          `json:"username"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Department string          `json:"department"`
	Role       domain.UserRole `json:"role"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// PermissionsResponse is the role -> permission matrix slice for one user.
type PermissionsResponse struct {
	Role        domain.UserRole     `json:"role"`
	Permissions []domain.Permission `json:"permissions"`
}

// ToUserResponse converts a domain.User to UserResponse.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:     u.UserID,
		Username:   u.Username,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}

// ToListUsersResponse converts a slice of domain.User.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	res := make([]UserResponse, len(users))
	for i := range users {
		res[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{Users: res}
}
