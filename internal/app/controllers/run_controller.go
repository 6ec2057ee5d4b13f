package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/app/services"
	"github.com/zachm/hooprun/internal/middleware"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
)

// RunController handles run listing, scheduling, and RSVPs
type RunController struct {
	runService *services.RunService
}

// NewRunController creates a new RunController
func NewRunController(runService *services.RunService) *RunController {
	return &RunController{runService: runService}
}

// currentUserID returns the caller's ID when authenticated
func currentUserID(ctx *gin.Context) *uuid.UUID {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		return nil
	}
	return &user.ID
}

func runIDParam(ctx *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.ErrRunNotFound
	}
	return id, nil
}

// ListRuns handles GET /api/runs
func (c *RunController) ListRuns(ctx *gin.Context) {
	resp, err := c.runService.ListRuns(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/runs/:id
func (c *RunController) GetRun(ctx *gin.Context) {
	runID, err := runIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	view, err := c.runService.GetRun(ctx.Request.Context(), runID, currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RunResponse{Run: *view})
}

// ListLocations handles GET /api/runs/locations
func (c *RunController) ListLocations(ctx *gin.Context) {
	resp, err := c.runService.ListLocations(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateRun handles POST /api/runs (admin)
func (c *RunController) CreateRun(ctx *gin.Context) {
	var req dto.CreateRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	view, err := c.runService.CreateRun(ctx.Request.Context(), middleware.CurrentUser(ctx), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.RunResponse{Message: "Run created", Run: *view})
}

// UpdateRun handles PUT /api/runs/:id (admin)
func (c *RunController) UpdateRun(ctx *gin.Context) {
	runID, err := runIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	view, err := c.runService.UpdateRun(ctx.Request.Context(), runID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RunResponse{Message: "Run updated", Run: *view})
}

// DeleteRun handles DELETE /api/runs/:id (admin)
func (c *RunController) DeleteRun(ctx *gin.Context) {
	runID, err := runIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.runService.DeleteRun(ctx.Request.Context(), runID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Run cancelled"})
}

// RSVP handles POST /api/runs/:id/rsvp
func (c *RunController) RSVP(ctx *gin.Context) {
	runID, err := runIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.RSVPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	view, err := c.runService.RSVP(ctx.Request.Context(), runID, middleware.CurrentUser(ctx), req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RunResponse{Message: "RSVP recorded", Run: *view})
}
