package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/notaproblemtosolve/upload-gateway/service"
	"github.com/notaproblemtosolve/upload-gateway/utils"
)

// UploadImage serves every method on the upload route; the pipeline itself
// answers 405 for anything but POST.
func (ctrl *Controller) UploadImage(c *gin.Context) {
	req := &service.UploadRequest{
		Method:        c.Request.Method,
		Authorization: c.GetHeader("Authorization"),
		ClientIP:      utils.ClientIP(c),
		UserAgent:     c.GetHeader("User-Agent"),
		ReadFile: func() (*entity.UploadCandidate, error) {
			return ctrl.readUploadFile(c)
		},
	}

	result := ctrl.Upload.Handle(c.Request.Context(), req)
	c.JSON(result.Status, result.Body)
}

// multipartOverhead covers boundaries, part headers and small form fields
// around the file part.
const multipartOverhead = 64 * 1024

func (ctrl *Controller) readUploadFile(c *gin.Context) (*entity.UploadCandidate, error) {
	maxBytes := ctrl.Config.Security.MaxUploadBytes()
	bodyLimit := maxBytes + multipartOverhead

	if c.Request.ContentLength > bodyLimit {
		return oversizedCandidate(c.Request.ContentLength), nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return oversizedCandidate(tooLarge.Limit + 1), nil
		}
		if errors.Is(err, http.ErrMissingFile) {
			return nil, service.ErrNoFile
		}
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	candidate := &entity.UploadCandidate{
		DeclaredMimeType: fileHeader.Header.Get("Content-Type"),
		OriginalFileName: fileHeader.Filename,
		SizeBytes:        fileHeader.Size,
	}

	if fileHeader.Size > maxBytes {
		return candidate, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	candidate.Data, err = io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return candidate, nil
}

// oversizedCandidate stands in for a file whose body was cut off at the limit.
// Only its size is known, which is enough for the size rule to reject it.
func oversizedCandidate(size int64) *entity.UploadCandidate {
	return &entity.UploadCandidate{SizeBytes: size}
}
