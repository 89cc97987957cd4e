package service

import (
	"strings"
	"testing"
	"time"

	"github.com/notaproblemtosolve/upload-gateway/config"
	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator(t *testing.T) {
	v := NewFileValidator(config.DefaultSecurityConfig())

	tests := []struct {
		name string
		file entity.UploadCandidate
		want string
	}{
		{
			name: "valid png",
			file: entity.UploadCandidate{OriginalFileName: "cat.png", DeclaredMimeType: "image/png", SizeBytes: 1024},
		},
		{
			name: "exactly at limit",
			file: entity.UploadCandidate{OriginalFileName: "cat.JPEG", DeclaredMimeType: "image/jpeg", SizeBytes: 5 * 1024 * 1024},
		},
		{
			name: "too large wins over everything",
			file: entity.UploadCandidate{OriginalFileName: "cat.exe", DeclaredMimeType: "text/plain", SizeBytes: 5*1024*1024 + 1},
			want: "File size must be less than 5MB",
		},
		{
			name: "bad mime with good extension",
			file: entity.UploadCandidate{OriginalFileName: "cat.png", DeclaredMimeType: "image/svg+xml", SizeBytes: 10},
			want: "Invalid file type. Allowed types: image/jpeg, image/png, image/gif, image/webp",
		},
		{
			name: "good mime with bad extension",
			file: entity.UploadCandidate{OriginalFileName: "cat.png.exe", DeclaredMimeType: "image/png", SizeBytes: 10},
			want: "Invalid file extension. Allowed extensions: jpg, jpeg, png, gif, webp",
		},
		{
			name: "no extension",
			file: entity.UploadCandidate{OriginalFileName: "cat", DeclaredMimeType: "image/gif", SizeBytes: 10},
			want: "Invalid file extension. Allowed extensions: jpg, jpeg, png, gif, webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(&tt.file))
		})
	}
}

func TestFileValidatorFractionalLimitMessage(t *testing.T) {
	v := NewFileValidator(config.NewSecurityConfigFromOptions(config.SecurityOptions{
		MaxUploadBytes: 2621440,
	}))
	msg := v.Validate(&entity.UploadCandidate{SizeBytes: 3 * 1024 * 1024})
	assert.Equal(t, "File size must be less than 2.5MB", msg)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "mon-ter-pic-.png", SanitizeFileName("Mon$ter Pic!!.PNG"))
	assert.Equal(t, "caf-.jpg", SanitizeFileName("Café.jpg"))
	assert.Equal(t, "a-b.gif", SanitizeFileName("a---b.gif"))

	long := SanitizeFileName(strings.Repeat("x", 50) + ".png")
	assert.Len(t, long, 32)
}

func TestGenerateSecureFileName(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	a := GenerateSecureFileName("Mon$ter Pic!!.PNG", now)
	b := GenerateSecureFileName("Mon$ter Pic!!.PNG", now)

	require.NotEqual(t, a, b)

	parts := strings.SplitN(a, "-", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "1700000000123", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Equal(t, "mon-ter-pic-.png", parts[2])
	assert.Regexp(t, `^[a-z0-9.-]+$`, parts[2])
	assert.True(t, strings.HasSuffix(parts[2], ".png"))

	assert.Equal(t, "uploads/u1/"+a, UploadPath("u1", a))
}
