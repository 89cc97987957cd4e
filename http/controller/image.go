package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/service"
	"github.com/notaproblemtosolve/upload-gateway/utils"
)

const maxGalleryLimit = 200

func (ctrl *Controller) ListImages(c *gin.Context) {
	ctx := c.Request.Context()

	principal, ok := utils.PrincipalFromContext(c)
	if !ok {
		ctrl.Logger.WarningWithContextf(ctx, "[Image] principal not found in context")
		utils.JSON401(c, "Authentication required")
		return
	}

	limit := service.DefaultGalleryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.JSON400(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxGalleryLimit)
	}

	images, err := ctrl.Gallery.ListImages(ctx, principal.ID, limit)
	if err != nil {
		ctrl.Logger.ErrorWithContextf(ctx, err, "[Image] Error fetching images for user %s", principal.ID)
		utils.JSON500(c, "Error fetching images")
		return
	}

	utils.JSON200(c, gin.H{"success": true, "images": images})
}
