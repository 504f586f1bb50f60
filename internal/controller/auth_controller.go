package controller

import (
	"edutech_backend/internal/model"
	"edutech_backend/internal/service"
	"edutech_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

// LoginRequest is the profile-creation form.
// swagger:model LoginRequest
type LoginRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	ExperienceLevel string `json:"experienceLevel" binding:"required,oneof=fresher associate analyst professional"`
}

// Login godoc
// @Summary Create or resume the local profile
// @Description Creates the profile when none exists and returns a session token. An existing profile is returned unchanged; replacing it requires logout first.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "Profile details"
// @Success 200 {object} util.Response{data=object} "Existing profile resumed"
// @Success 201 {object} util.Response{data=object} "Profile created"
// @Failure 400 {object} util.Response "Invalid request"
// @Failure 503 {object} util.Response "Snapshot write failed"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, created, err := c.AuthService.Login(ctx.Request.Context(), req.Name, req.Email, model.ExperienceLevel(req.ExperienceLevel))
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}

	payload := gin.H{"token": token, "user": user}
	if created {
		util.Created(ctx, payload)
		return
	}
	util.Success(ctx, payload)
}

// Logout godoc
// @Summary Destroy the local profile
// @Description Clears the persisted snapshot and all in-memory state. The record is destroyed, not archived.
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response "No active profile"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.Logout(ctx.Request.Context()); err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetProfile godoc
// @Summary Get the active profile
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response "No active profile"
// @Router /api/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user, err := c.UserService.Current()
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, user)
}
