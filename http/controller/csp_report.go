package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/notaproblemtosolve/upload-gateway/utils"
	"gorm.io/datatypes"
)

const maxCSPReportBytes = 64 * 1024

// ReceiveCSPReport stores a browser Content-Security-Policy violation report.
func (ctrl *Controller) ReceiveCSPReport(c *gin.Context) {
	ctx := c.Request.Context()

	switch c.Request.Method {
	case http.MethodOptions:
		// Preflights without an Origin header bypass the CORS middleware.
		if c.Writer.Header().Get("Access-Control-Allow-Origin") == "" {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", strings.Join(config.CSPReportAllowedMethods, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join(config.CSPReportAllowedHeaders, ", "))
			c.Header("Access-Control-Max-Age", config.CORSMaxAge)
		}
		c.Status(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		utils.JSON405(c, "Method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCSPReportBytes))
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[CSP] Error reading report body")
		utils.JSON400(c, "Error processing report")
		return
	}

	report, status, message := parseCSPReport(c.GetHeader("Content-Type"), body)
	if report == nil {
		ctrl.Logger.WarningWithContextf(ctx, "[CSP] Rejected report: %s", message)
		utils.JSONError(c, status, message)
		return
	}

	userAgent := c.GetHeader("User-Agent")
	if userAgent == "" {
		userAgent = "unknown"
	}

	row := &entity.CSPReport{
		ID:        uuid.New(),
		Report:    datatypes.JSON(report),
		UserAgent: userAgent,
		SourceIP:  utils.SourceIP(c),
		Timestamp: time.Now().UTC(),
	}
	if err := ctrl.CSPReports.Create(ctx, row); err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[CSP] Error storing CSP report")
		utils.JSON500(c, "Error processing report")
		return
	}

	utils.JSON201(c, "CSP report received")
}

// parseCSPReport returns the report JSON, or nil with the status and message
// to answer. application/csp-report bodies are unwrapped from "csp-report".
func parseCSPReport(contentType string, body []byte) (json.RawMessage, int, string) {
	contentType = strings.ToLower(contentType)

	switch {
	case strings.Contains(contentType, "application/json"):
		if !json.Valid(body) {
			return nil, http.StatusBadRequest, "Error processing report"
		}
		return body, 0, ""
	case strings.Contains(contentType, "application/csp-report"):
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, http.StatusBadRequest, "Error processing report"
		}
		inner, ok := wrapped["csp-report"]
		if !ok || len(inner) == 0 || string(inner) == "null" {
			return nil, http.StatusBadRequest, "Error processing report"
		}
		return inner, 0, ""
	default:
		if !json.Valid(body) {
			return nil, http.StatusBadRequest, "Invalid report format"
		}
		return body, 0, ""
	}
}
