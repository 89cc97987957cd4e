package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/service"
	"github.com/notaproblemtosolve/upload-gateway/utils"
)

// Recoverer turns a panic into the generic 500 body. http.ErrAbortHandler is
// re-raised so the connection is dropped.
func Recoverer(logger service.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				logger.ErrorWithContextf(c.Request.Context(), fmt.Errorf("%v", rvr), "[HTTP] Internal error in handler %s", c.FullPath())

				if !c.Writer.Written() {
					utils.JSON500(c, "Server error")
				}
				c.Abort()
			}
		}()

		c.Next()
	}
}
