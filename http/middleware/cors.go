package middlewares

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/config"
)

// ReportCORSMiddleware is the permissive policy of the CSP report endpoint:
// browsers post reports from any origin.
func ReportCORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    config.CSPReportAllowedMethods,
		AllowHeaders:    config.CSPReportAllowedHeaders,
		MaxAge:          24 * time.Hour,
	})
}
