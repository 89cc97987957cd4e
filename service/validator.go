package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
)

type FileValidator struct {
	security *config.SecurityConfig
}

func NewFileValidator(security *config.SecurityConfig) *FileValidator {
	return &FileValidator{security: security}
}

// Validate checks size, declared MIME type and extension in that order and
// returns the message of the first failing rule, or "" when the file passes.
func (v *FileValidator) Validate(file *entity.UploadCandidate) string {
	if file.SizeBytes > v.security.MaxUploadBytes() {
		mb := float64(v.security.MaxUploadBytes()) / 1024 / 1024
		return fmt.Sprintf("File size must be less than %sMB", strconv.FormatFloat(mb, 'f', -1, 64))
	}

	if !v.security.AllowsMimeType(file.DeclaredMimeType) {
		return "Invalid file type. Allowed types: " + strings.Join(v.security.AllowedMimeTypes(), ", ")
	}

	if !v.security.AllowsExtension(file.Extension()) {
		return "Invalid file extension. Allowed extensions: " + strings.Join(v.security.AllowedExtensions(), ", ")
	}

	return ""
}
