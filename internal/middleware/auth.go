package middleware

import (
	"strings"

	"edutech_backend/internal/config"
	"edutech_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid profile session token. The secret is
// read through the runtime config so reloads apply to in-flight traffic.
func AuthMiddleware(rt *config.Runtime) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, rt.Load().JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("profile", claims)
		c.Next()
	}
}
