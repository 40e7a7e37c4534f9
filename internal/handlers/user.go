package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Thanhfdq/task-app/internal/dto"
	"github.com/Thanhfdq/task-app/internal/services"
)

// UserHandler serves profile and user lookup endpoints.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SearchUsers finds users whose username contains the keyword query parameter.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	users, err := h.userService.SearchUsers(c.Request.Context(), userID, c.Query("keyword"))
	if err != nil {
		respondServiceError(c, "search users", err)
		return
	}
	respondOK(c, "Users found", dto.ToUserDTOs(users))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindStrictJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		Username:    req.Username,
		FullName:    req.FullName,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, "update profile", err)
		return
	}
	respondOK(c, "Profile updated", dto.ToUserDTO(*user))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !bindStrictJSON(c, &req) {
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), userID, services.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondServiceError(c, "change password", err)
		return
	}
	respondOK(c, "Password changed", nil)
}
