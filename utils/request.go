package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP is the address the edge proxy reports in X-Real-IP, or "unknown".
func ClientIP(c *gin.Context) string {
	if ip := strings.TrimSpace(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}
	return "unknown"
}

// SourceIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func SourceIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	return ClientIP(c)
}
