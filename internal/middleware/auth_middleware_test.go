package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/pkg/apperrors"
	"github.com/zachm/hooprun/internal/pkg/auth"
)

type fakeUserLoader struct {
	users map[uuid.UUID]*models.User
}

func (l *fakeUserLoader) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := l.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func testMiddleware(t *testing.T, users ...*models.User) (*AuthMiddleware, *auth.JWTService) {
	t.Helper()

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "hooprun-test",
	})
	loader := &fakeUserLoader{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		loader.users[u.ID] = u
	}
	return NewAuthMiddleware(jwtService, loader), jwtService
}

func bearerFor(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()
	token, err := jwtService.GenerateToken(user)
	require.NoError(t, err)
	return "Bearer " + token
}

func authTestRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	whoami := func(c *gin.Context) {
		if user := CurrentUser(c); user != nil {
			c.JSON(http.StatusOK, gin.H{"username": user.Username})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": nil})
	}
	router.GET("/protected", m.RequireAuth(), whoami)
	router.GET("/admin", m.RequireAdmin(), whoami)
	router.GET("/open", m.OptionalAuth(), whoami)
	return router
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "al"}
	m, jwtService := testMiddleware(t, user)
	router := authTestRouter(m)

	rec := doRequest(router, "/protected", bearerFor(t, jwtService, user))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"al"`)

	rec = doRequest(router, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "/protected", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "/protected", "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthDeletedUser(t *testing.T) {
	ghost := &models.User{ID: uuid.New(), Username: "ghost"}
	m, jwtService := testMiddleware(t) // token is valid but the user row is gone
	router := authTestRouter(m)

	rec := doRequest(router, "/protected", bearerFor(t, jwtService, ghost))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	player := &models.User{ID: uuid.New(), Username: "al"}
	admin := &models.User{ID: uuid.New(), Username: "boss", IsAdmin: true}
	m, jwtService := testMiddleware(t, player, admin)
	router := authTestRouter(m)

	rec := doRequest(router, "/admin", bearerFor(t, jwtService, admin))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "/admin", bearerFor(t, jwtService, player))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin access required")

	rec = doRequest(router, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "al"}
	m, jwtService := testMiddleware(t, user)
	router := authTestRouter(m)

	rec := doRequest(router, "/open", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "null")

	rec = doRequest(router, "/open", "Bearer garbage")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "/open", bearerFor(t, jwtService, user))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"al"`)
}
