package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/zachm/hooprun/internal/app/controllers"
	"github.com/zachm/hooprun/internal/middleware"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(nil),
		controllers.NewRunController(nil),
		controllers.NewUserController(nil, nil),
		controllers.NewAdminController(nil),
		controllers.NewEmailWorkerController(nil, false, "", ""),
		middleware.NewAuthMiddleware(nil, nil),
	)
	return router
}

func TestRouteTable(t *testing.T) {
	router := testRouter()

	registered := make(map[string]bool)
	for _, route := range router.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /api/health",
		"POST /api/auth/signup",
		"POST /api/auth/login",
		"GET /api/auth/me",
		"POST /api/auth/forgot-password",
		"POST /api/auth/reset-password",
		"GET /api/runs",
		"GET /api/runs/:id",
		"GET /api/runs/locations",
		"POST /api/runs",
		"PUT /api/runs/:id",
		"DELETE /api/runs/:id",
		"POST /api/runs/:id/rsvp",
		"GET /api/users/me",
		"PUT /api/users/me",
		"GET /api/users/me/runs",
		"GET /api/users/community",
		"GET /api/admin/announcements",
		"POST /api/admin/announcements",
		"DELETE /api/admin/announcements",
		"GET /api/admin/users",
		"PUT /api/admin/users/:id/verify",
		"PUT /api/admin/users/:id/badge",
		"POST /api/admin/users/bulk-badge",
		"GET /api/admin/runs",
		"POST /api/admin/runs/import",
		"POST /api/admin/runs/:id/complete",
		"POST /api/admin/runs/:id/remind",
		"POST /api/email-worker",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}

	assert.False(t, registered["GET /api/announcements"])
	assert.False(t, registered["POST /api/announcements"])
	assert.False(t, registered["DELETE /api/announcements"])
}

func TestAnnouncementWritesRequireAuth(t *testing.T) {
	router := testRouter()

	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/admin/announcements", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s without a token", method)
	}
}
