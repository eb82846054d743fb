package handler

import (
	"net/http"

	"taskboard/internal/apperr"
	"taskboard/internal/model"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// Me returns the authenticated user's own profile
// @Summary  Current user
// @Tags     Users
// @Security BearerAuth
// @Success  200 {object} UserResponse
// @Router   /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// GetAll lists all users
// @Summary  List users
// @Tags     Users
// @Security BearerAuth
// @Success  200 {array} UserResponse
// @Router   /users [get]
func (h *UserHandler) GetAll(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	users, err := h.userService.List(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, len(users))
	for i := range users {
		response[i] = toUserResponse(&users[i])
	}
	c.JSON(http.StatusOK, response)
}

// GetByID returns one user's profile
// @Summary  Get a user
// @Tags     Users
// @Security BearerAuth
// @Param    id path string true "User ID"
// @Success  200 {object} UserResponse
// @Router   /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.userService.Get(c.Request.Context(), user, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(found))
}

// UpdateProfile edits the caller's own name, bio or avatar
// @Summary  Update own profile
// @Tags     Users
// @Security BearerAuth
// @Success  200 {object} UserResponse
// @Router   /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user, service.UpdateProfileInput{
		Name:   req.Name,
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(updated))
}

// ChangePassword verifies the current password before replacing it
// @Summary  Change own password
// @Tags     Users
// @Security BearerAuth
// @Success  200 {object} map[string]bool
// @Router   /users/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), user, service.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": true})
}

// UpdateRole promotes or demotes a user, system admin only
// @Summary  Change a user's system role
// @Tags     Users
// @Security BearerAuth
// @Param    id path string true "User ID"
// @Success  200 {object} UserResponse
// @Router   /users/{id}/role [put]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	role := model.SystemRole(req.Role)
	if role != model.SystemRoleUser && role != model.SystemRoleAdmin {
		respondError(c, apperr.Validation("Invalid role", map[string]string{"role": "must be user or admin"}))
		return
	}

	updated, err := h.userService.UpdateRole(c.Request.Context(), user, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(updated))
}
