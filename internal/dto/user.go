package dto

import (
	"time"

	"github.com/Thanhfdq/task-app/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest holds the editable profile fields
type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	FullName    *string `json:"full_name"`
	Description *string `json:"description"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		Description: user.Description,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
