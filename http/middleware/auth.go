package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/service"
	"github.com/notaproblemtosolve/upload-gateway/utils"
)

func AuthMiddleware(verifier service.IdentityVerifier, logger service.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if c.GetHeader("Authorization") == "" {
			utils.JSON401(c, "Missing authorization header")
			c.Abort()
			return
		}

		principal, err := verifier.VerifyToken(ctx, utils.ExtractToken(c))
		if err != nil {
			var authErr *service.AuthError
			if errors.As(err, &authErr) {
				utils.JSONError(c, authErr.Status, authErr.Message)
				c.Abort()
				return
			}
			logger.ErrorWithContextf(ctx, err, "[Auth] Auth verification exception")
			utils.JSON500(c, "Server error during authentication")
			c.Abort()
			return
		}
		if principal == nil {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		utils.SetPrincipal(c, principal)
		c.Next()
	}
}
