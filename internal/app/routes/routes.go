package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zachm/hooprun/internal/app/controllers"
	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	runController *controllers.RunController,
	userController *controllers.UserController,
	adminController *controllers.AdminController,
	emailWorkerController *controllers.EmailWorkerController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	api.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.RequireAuth(), authController.Me)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// Runs: reads are public with optional identity, writes are admin-only
	// except RSVP
	runs := api.Group("/runs")
	{
		runs.GET("", authMiddleware.OptionalAuth(), runController.ListRuns)
		runs.GET("/locations", runController.ListLocations)
		runs.GET("/:id", authMiddleware.OptionalAuth(), runController.GetRun)
		runs.POST("", authMiddleware.RequireAdmin(), runController.CreateRun)
		runs.PUT("/:id", authMiddleware.RequireAdmin(), runController.UpdateRun)
		runs.DELETE("/:id", authMiddleware.RequireAdmin(), runController.DeleteRun)
		runs.POST("/:id/rsvp", authMiddleware.RequireAuth(), runController.RSVP)
	}

	// Users
	users := api.Group("/users", authMiddleware.RequireAuth())
	{
		users.GET("/me", userController.GetProfile)
		users.PUT("/me", userController.UpdateProfile)
		users.GET("/me/runs", userController.GetMyRuns)
		users.GET("/community", userController.GetCommunity)
	}

	// Announcements live under /admin but reading stays public
	api.GET("/admin/announcements", adminController.GetAnnouncement)

	// Admin
	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	{
		admin.POST("/announcements", adminController.CreateAnnouncement)
		admin.DELETE("/announcements", adminController.DeleteAnnouncement)
		admin.GET("/users", adminController.ListUsers)
		admin.PUT("/users/:id/verify", adminController.VerifyUser)
		admin.PUT("/users/:id/badge", adminController.AssignBadge)
		admin.POST("/users/bulk-badge", adminController.BulkAssignBadge)
		admin.GET("/runs", adminController.ListRuns)
		admin.POST("/runs/import", adminController.ImportRuns)
		admin.POST("/runs/:id/complete", adminController.CompleteRun)
		admin.POST("/runs/:id/remind", adminController.RemindRun)
	}

	// QStash delivery callback
	api.POST("/email-worker", emailWorkerController.HandleJob)
}
