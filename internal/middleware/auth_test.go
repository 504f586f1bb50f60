package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edutech_backend/internal/config"
	"edutech_backend/internal/model"
	"edutech_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func authTestRouter(rt *config.Runtime) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(rt), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func protectedRequest(t *testing.T, router *gin.Engine, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddlewareRequiresToken(t *testing.T) {
	rt := config.NewRuntime(&config.Config{JWT: config.JWTConfig{Secret: "first-secret"}})
	router := authTestRouter(rt)

	require.Equal(t, http.StatusUnauthorized, protectedRequest(t, router, ""))
	require.Equal(t, http.StatusUnauthorized, protectedRequest(t, router, "not-a-token"))
}

func TestAuthMiddlewareReadsLiveSecret(t *testing.T) {
	rt := config.NewRuntime(&config.Config{JWT: config.JWTConfig{Secret: "first-secret"}})
	router := authTestRouter(rt)

	user := model.NewUser("Priya", "priya@example.com", model.Fresher)
	token, err := util.GenerateJWT(user, "first-secret", time.Hour)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, protectedRequest(t, router, token))

	// A reload that rotates the secret applies to in-flight traffic:
	// tokens signed with the old secret stop validating.
	next := *rt.Load()
	next.JWT.Secret = "second-secret"
	rt.Swap(&next)

	require.Equal(t, http.StatusUnauthorized, protectedRequest(t, router, token))

	rotated, err := util.GenerateJWT(user, "second-secret", time.Hour)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, protectedRequest(t, router, rotated))
}
