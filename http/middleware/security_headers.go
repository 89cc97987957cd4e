package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/config"
)

// SecurityHeadersMiddleware stamps the CORS and security headers on every
// response and answers preflight requests with 204 before any other work.
// methods is the Access-Control-Allow-Methods list of the route.
func SecurityHeadersMiddleware(security *config.SecurityConfig, methods ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range security.ResponseHeaders(c.GetHeader("Origin"), methods...) {
			c.Header(k, v)
		}
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
