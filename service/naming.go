package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxSanitizedNameLen = 32

var (
	unsafeNameChars = regexp.MustCompile(`[^a-z0-9.-]`)
	repeatedDashes  = regexp.MustCompile(`-+`)
)

// SanitizeFileName lower-cases name, replaces anything outside [a-z0-9.-]
// with "-", collapses dash runs and truncates to 32 characters.
func SanitizeFileName(name string) string {
	s := strings.ToLower(name)
	s = unsafeNameChars.ReplaceAllString(s, "-")
	s = repeatedDashes.ReplaceAllString(s, "-")
	if len(s) > maxSanitizedNameLen {
		s = s[:maxSanitizedNameLen]
	}
	return s
}

// GenerateSecureFileName builds "<unixMillis>-<8 char id>-<sanitized name>".
func GenerateSecureFileName(originalName string, now time.Time) string {
	randomID := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), randomID, SanitizeFileName(originalName))
}

// UserUploadPrefix is the per-principal folder all uploads land in.
func UserUploadPrefix(principalID string) string {
	return "uploads/" + principalID
}

func UploadPath(principalID, secureName string) string {
	return UserUploadPrefix(principalID) + "/" + secureName
}
