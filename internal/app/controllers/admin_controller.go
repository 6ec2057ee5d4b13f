package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/app/services"
	"github.com/zachm/hooprun/internal/middleware"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

// AdminController handles the admin-only endpoints
type AdminController struct {
	adminService *services.AdminService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService) *AdminController {
	return &AdminController{adminService: adminService}
}

func userIDParam(ctx *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrUserNotFound
	}
	return id, nil
}

// ListUsers handles GET /api/admin/users
func (c *AdminController) ListUsers(ctx *gin.Context) {
	resp, err := c.adminService.ListUsers(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// VerifyUser handles PUT /api/admin/users/:id/verify
func (c *AdminController) VerifyUser(ctx *gin.Context) {
	userID, err := userIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.VerifyUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.adminService.VerifyUser(ctx.Request.Context(), userID, *req.IsVerified)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// AssignBadge handles PUT /api/admin/users/:id/badge
func (c *AdminController) AssignBadge(ctx *gin.Context) {
	userID, err := userIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AssignBadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := c.adminService.AssignBadge(ctx.Request.Context(), userID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// BulkAssignBadge handles POST /api/admin/users/bulk-badge
func (c *AdminController) BulkAssignBadge(ctx *gin.Context) {
	var req dto.BulkAssignBadgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	updated, err := c.adminService.BulkAssignBadge(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Assigned the %s badge to %d users", req.Badge, updated)})
}

// ListRuns handles GET /api/admin/runs
func (c *AdminController) ListRuns(ctx *gin.Context) {
	views, err := c.adminService.ListRuns(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"runs": views})
}

// CompleteRun handles POST /api/admin/runs/:id/complete
func (c *AdminController) CompleteRun(ctx *gin.Context) {
	runID, err := runIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CompleteRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	admin := middleware.CurrentUser(ctx)
	view, err := c.adminService.CompleteRun(ctx.Request.Context(), admin.ID, runID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RunResponse{Message: "Run completed", Run: *view})
}

// RemindRun handles POST /api/admin/runs/:id/remind
func (c *AdminController) RemindRun(ctx *gin.Context) {
	runID, err := runIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.RemindRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	sent, err := c.adminService.RemindRun(ctx.Request.Context(), runID, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Reminder sent to %d participants", sent)})
}

// ImportRuns handles POST /api/admin/runs/import
func (c *AdminController) ImportRuns(ctx *gin.Context) {
	var req dto.ImportRunsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	admin := middleware.CurrentUser(ctx)
	resp, err := c.adminService.ImportRuns(ctx.Request.Context(), admin.ID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetAnnouncement handles GET /api/announcements (public)
func (c *AdminController) GetAnnouncement(ctx *gin.Context) {
	resp, err := c.adminService.GetAnnouncement(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateAnnouncement handles POST /api/announcements (admin)
func (c *AdminController) CreateAnnouncement(ctx *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	admin := middleware.CurrentUser(ctx)
	resp, err := c.adminService.CreateAnnouncement(ctx.Request.Context(), admin.ID, req.Message)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// DeleteAnnouncement handles DELETE /api/announcements (admin)
func (c *AdminController) DeleteAnnouncement(ctx *gin.Context) {
	if err := c.adminService.DeleteAnnouncement(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Announcement cleared"})
}
