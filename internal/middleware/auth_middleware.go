package middleware

import (
	"net/http"
	"strings"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/utils"
	"github.com/gin-gonic/gin"
)

// TokenCookie is the cookie set by login and register.
const TokenCookie = "token"

func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Bearer header first, cookie as fallback
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		// 2. Validate token
		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// 3. Add claims to context (handlers can access)
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("user_role", string(claims.Role))
		c.Set("claims", claims)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return "", false
		}
		return token, true
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// RequireRole rejects requests whose token carries none of roles.
// Must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		current, _ := role.(string)
		for _, r := range roles {
			if current == string(r) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
		})
		c.Abort()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
