package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func JSON400(c *gin.Context, message string) {
	JSONError(c, http.StatusBadRequest, message)
}

func JSON401(c *gin.Context, message string) {
	JSONError(c, http.StatusUnauthorized, message)
}

func JSON405(c *gin.Context, message string) {
	JSONError(c, http.StatusMethodNotAllowed, message)
}

func JSON500(c *gin.Context, message string) {
	JSONError(c, http.StatusInternalServerError, message)
}

func JSON200(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, data)
}

func JSON201(c *gin.Context, message string) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message})
}
