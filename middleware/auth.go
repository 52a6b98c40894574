package middleware

import (
	"strings"

	"market/response"
	"market/services"
	"market/services/logger"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// TokenParser is implemented by services.TokenService.
type TokenParser interface {
	ParseToken(token string) (services.UserInfo, error)
}

// AuthMiddleware xử lý authentication. With roles given, only those roles
// pass.
func AuthMiddleware(tokens TokenParser, roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		info, err := tokens.ParseToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if len(roles) > 0 && !hasRole(info.Role, roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		// Lưu thông tin user vào context
		c.Set(ContextUserID, info.UserId)
		c.Set(ContextUserRole, info.Role)
		c.Next()
	}
}

// OptionalAuth sets the user when a valid token is sent and lets anonymous
// requests through.
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if info, err := tokens.ParseToken(tokenString); err == nil {
				c.Set(ContextUserID, info.UserId)
				c.Set(ContextUserRole, info.Role)
			}
		}
		c.Next()
	}
}

// RoleMiddleware kiểm tra role của user
func RoleMiddleware(roles ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextUserRole)
		if !exists {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		if !hasRole(userRole.(int), roles) {
			response.Forbidden(c)
			c.Abort()
			return
		}

		c.Next()
	}
}

// ErrorHandler logs errors attached with c.Error after the handler ran.
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			log.Error("%s %s [%s]: %v", c.Request.Method, c.FullPath(), c.GetString("requestId"), e.Err)
		}
	}
}

// bearerToken reads the Authorization header. Websocket clients cannot set
// headers, so ?token= is accepted as well.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("token")
}

func hasRole(role int, roles []int) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
