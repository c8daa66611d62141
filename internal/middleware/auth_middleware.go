package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"tutsin-digital/configs"
	"tutsin-digital/internal/cache"
	"tutsin-digital/internal/models"
	"tutsin-digital/internal/services"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares.
const (
	CtxClient    = "client"
	CtxAdmin     = "admin"
	CtxAdminRole = "admin_role"
	CtxToken     = "token"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	// WebSocket clients cannot set headers from the browser.
	return c.Query("token")
}

// ClientAuth resolves a portal bearer token to its client. Missing, invalid
// and expired tokens are indistinguishable to the caller.
func ClientAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		client, err := authService.GetClientByToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxClient, client)
		c.Set(CtxToken, token)
		c.Next()
	}
}

// AdminAuth resolves an admin bearer token. Admin tokens live in their own
// namespace; a client token never authenticates here.
func AdminAuth(adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		admin, role, err := adminService.GetAdminByToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxAdmin, admin)
		c.Set(CtxAdminRole, role)
		c.Set(CtxToken, token)
		c.Next()
	}
}

// ActorAuth accepts either surface's token: the project routes serve both the
// client portal and the admin dashboard. Handlers read whichever identity was
// set and scope accordingly.
func ActorAuth(authService *services.AuthService, adminService *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}

		if client, err := authService.GetClientByToken(c.Request.Context(), token); err == nil {
			c.Set(CtxClient, client)
			c.Set(CtxToken, token)
			c.Next()
			return
		}

		if admin, role, err := adminService.GetAdminByToken(c.Request.Context(), token); err == nil {
			c.Set(CtxAdmin, admin)
			c.Set(CtxAdminRole, role)
			c.Set(CtxToken, token)
			c.Next()
			return
		}

		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
		c.Abort()
	}
}

// RequirePermission gates a route on the admin's role. Runs after AdminAuth.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(CtxAdminRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			c.Abort()
			return
		}
		role := roleVal.(*models.AdminRole)
		if !services.HasPermission(role, permission) {
			c.JSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimit counts requests per bearer token (or per IP for anonymous
// traffic) per hour.
func RateLimit(cacheMgr *cache.CacheManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := bearerToken(c)
		if identity == "" {
			identity = c.ClientIP()
		}
		key := fmt.Sprintf("rate_limit:%s:%s", identity, time.Now().Format("2006-01-02-15"))

		count, err := cacheMgr.Increment(key, 1)
		if err != nil {
			// If the cache fails, continue without rate limiting.
			c.Next()
			return
		}

		if count == 1 {
			cacheMgr.Set(key, count, time.Hour)
		}

		limit := configs.AppConfig.RateLimitPerHour
		if count > int64(limit) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":   "Rate limit exceeded",
				"limit":     limit,
				"remaining": 0,
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", limit-int(count)))

		c.Next()
	}
}

// Validation rejects JSON mutations without a JSON content type. Multipart
// uploads are exempt.
func Validation() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
			contentType := c.GetHeader("Content-Type")
			if strings.Contains(contentType, "multipart/form-data") {
				c.Next()
				return
			}
			if !strings.Contains(contentType, "application/json") {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Content-Type must be application/json"})
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
