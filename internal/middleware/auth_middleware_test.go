package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authSecret = "middleware-secret"

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", AuthMiddleware(authSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString("user_id"), "role": c.GetString("user_role")})
	})
	router.GET("/admin", AuthMiddleware(authSecret), AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/unguarded", RequireRole(models.RoleUser), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func tokenFor(t *testing.T, role models.Role) string {
	token, err := utils.GenerateToken(&models.User{ID: "user-1", Email: "u@example.com", Role: role}, authSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))
	w := serve(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"user-1","role":"USER"}`, w.Body.String())
}

func TestAuthMiddleware_CookieFallback(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tokenFor(t, models.RoleAdmin)})
	w := serve(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	router := authRouter()
	reset, err := utils.GeneratePurposeToken(&models.User{ID: "user-1"}, utils.PurposePasswordReset, authSecret, time.Hour)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + func() string {
			token, _ := utils.GenerateToken(&models.User{ID: "x", Role: models.RoleUser}, "other", time.Hour)
			return token
		}()},
		{"reset token", "Bearer " + reset},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	router := authRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))
	assert.Equal(t, http.StatusForbidden, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, serve(router, req).Code)

	// Without AuthMiddleware there is no role to check
	assert.Equal(t, http.StatusUnauthorized, serve(router, httptest.NewRequest(http.MethodGet, "/unguarded", nil)).Code)
}
