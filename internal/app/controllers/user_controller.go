package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/app/services"
	"github.com/zachm/hooprun/internal/middleware"
)

// UserController handles profile and community endpoints
type UserController struct {
	userService *services.UserService
	authService *services.AuthService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, authService *services.AuthService) *UserController {
	return &UserController{
		userService: userService,
		authService: authService,
	}
}

// GetProfile handles GET /api/users/me
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	resp, err := c.authService.GetCurrentUser(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// UpdateProfile handles PUT /api/users/me
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.userService.UpdateProfile(ctx.Request.Context(), middleware.CurrentUser(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetMyRuns handles GET /api/users/me/runs
func (c *UserController) GetMyRuns(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)

	resp, err := c.userService.GetMyRuns(ctx.Request.Context(), user.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetCommunity handles GET /api/users/community
func (c *UserController) GetCommunity(ctx *gin.Context) {
	resp, err := c.userService.GetCommunity(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
