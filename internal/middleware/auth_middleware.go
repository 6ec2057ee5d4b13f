package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zachm/hooprun/internal/app/models"
	"github.com/zachm/hooprun/internal/app/models/dto"
	"github.com/zachm/hooprun/internal/pkg/auth"
)

// Context key under which the authenticated user is stored
const ContextUserKey = "currentUser"

// UserLoader loads a user record by ID
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthMiddleware resolves bearer tokens into full user records
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   UserLoader
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo UserLoader) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// resolveUser turns an Authorization header into a user record. Any
// failure, expired token, malformed token, or deleted user, yields nil.
func (m *AuthMiddleware) resolveUser(c *gin.Context) *models.User {
	tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return nil
	}
	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil
	}
	user, err := m.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		return nil
	}
	return user
}

// RequireAuth rejects requests without a valid bearer token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.resolveUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required"})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAdmin rejects requests from non-admin users
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.resolveUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required"})
			return
		}
		if !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Error: "Admin access required"})
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present but never
// rejects the request
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := m.resolveUser(c); user != nil {
			c.Set(ContextUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by the auth middleware, nil when
// the request was anonymous
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
